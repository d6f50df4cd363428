package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/stunningdev/userservice/internal/common"
	"github.com/stunningdev/userservice/internal/dbx"
	"github.com/stunningdev/userservice/internal/server/hashing"
	"github.com/stunningdev/userservice/internal/server/models"
	"github.com/stunningdev/userservice/internal/server/repositories/sessions"
	"github.com/stunningdev/userservice/internal/server/repositories/users"
)

// --- in-memory fakes ---

type memUsersRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User // by id
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: map[string]*models.User{}}
}

func (r *memUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsersRepo) Save(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == user.Email && id != user.ID {
			return nil, common.ErrorAlreadyExists
		}
	}
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("u-%d", r.seq)
	}
	cp := *user
	r.users[user.ID] = &cp
	return user, nil
}

type memSessionsRepo struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*models.Session // by id

	// failSaves makes the next n Save calls report a token collision.
	failSaves int
	saveCalls int
}

func newMemSessionsRepo() *memSessionsRepo {
	return &memSessionsRepo{sessions: map[string]*models.Session{}}
}

func (r *memSessionsRepo) FindByTokenAndUserID(ctx context.Context, token, userID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Token == token && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memSessionsRepo) Save(ctx context.Context, session *models.Session) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.failSaves > 0 {
		r.failSaves--
		return nil, common.ErrorAlreadyExists
	}
	for id, s := range r.sessions {
		if s.Token == session.Token && id != session.ID {
			return nil, common.ErrorAlreadyExists
		}
	}
	if session.ID == "" {
		r.seq++
		session.ID = fmt.Sprintf("s-%d", r.seq)
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return session, nil
}

// raceUsersRepo simulates a concurrent insert: the pre-check sees no user,
// but the unique email index rejects the save.
type raceUsersRepo struct {
	*memUsersRepo
}

func (r *raceUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, common.ErrorNotFound
}

func (r *raceUsersRepo) Save(ctx context.Context, user *models.User) (*models.User, error) {
	return nil, common.ErrorAlreadyExists
}

type fakeRepoManager struct {
	db            *sql.DB
	u             *memUsersRepo
	s             *memSessionsRepo
	usersOverride users.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Conn() *sql.DB                       { return m.db }
func (m *fakeRepoManager) Close() error                        { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository {
	if m.usersOverride != nil {
		return m.usersOverride
	}
	return m.u
}

func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository { return m.s }

// --- helpers ---

func newTestService(t *testing.T) (*AuthService, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rm := &fakeRepoManager{db: db, u: newMemUsersRepo(), s: newMemSessionsRepo()}
	return NewAuthService(db, rm, hashing.NewBcryptHasher(bcrypt.MinCost)), rm, mock
}

func expectSignUpTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

// --- tests ---

func TestSignUpThenLogin(t *testing.T) {
	s, rm, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	user, err := s.SignUp(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if user.ID == "" || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(user.Roles) != 0 {
		t.Fatalf("new user must have empty roles, got %v", user.Roles)
	}
	if user.PasswordHash == "pw1" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed, never plaintext")
	}

	token, loggedIn, err := s.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if len(token) != common.TokenLength {
		t.Fatalf("expected %d-character token, got %d", common.TokenLength, len(token))
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned wrong user: %+v", loggedIn)
	}
	if rm.s.saveCalls != 1 {
		t.Fatalf("expected one session insert, got %d", rm.s.saveCalls)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	if _, err := s.SignUp(ctx, "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	_, _, err := s.Login(ctx, "a@x.com", "wrong")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
	if errors.Is(err, common.ErrUserDoesNotExist) {
		t.Fatal("wrong password must not report a missing user")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _, _ := newTestService(t)

	_, _, err := s.Login(context.Background(), "ghost@x.com", "pw1")
	if !errors.Is(err, common.ErrUserDoesNotExist) {
		t.Fatalf("want ErrUserDoesNotExist, got %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	s, rm, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	first, err := s.SignUp(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	_, err = s.SignUp(ctx, "a@x.com", "pw2")
	if !errors.Is(err, common.ErrUserAlreadyExists) {
		t.Fatalf("want ErrUserAlreadyExists, got %v", err)
	}

	// first record unaffected
	stored, err := rm.u.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if stored.PasswordHash != first.PasswordHash {
		t.Fatal("duplicate sign-up must not modify the existing user")
	}
}

func TestSignUp_RaceLostToUniqueIndex(t *testing.T) {
	s, rm, mock := newTestService(t)
	rm.usersOverride = &raceUsersRepo{rm.u}

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.SignUp(context.Background(), "a@x.com", "pw1")
	if !errors.Is(err, common.ErrUserAlreadyExists) {
		t.Fatalf("want ErrUserAlreadyExists from the unique index, got %v", err)
	}
}

func TestValidate_Lifecycle(t *testing.T) {
	s, _, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	user, err := s.SignUp(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	token, _, err := s.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	got, err := s.Validate(ctx, token, user.ID)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got == nil || got.Email != "a@x.com" {
		t.Fatalf("expected active session to resolve the user, got %+v", got)
	}

	found, err := s.Logout(ctx, token, user.ID)
	if err != nil || !found {
		t.Fatalf("Logout = (%v, %v), want (true, nil)", found, err)
	}

	got, err = s.Validate(ctx, token, user.ID)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got != nil {
		t.Fatalf("logged-out session must be invalid, got %+v", got)
	}
}

func TestValidate_UnknownToken(t *testing.T) {
	s, _, _ := newTestService(t)

	got, err := s.Validate(context.Background(), "no-such-token-000000", "u-1")
	if err != nil {
		t.Fatalf("Validate must not fail on a miss: %v", err)
	}
	if got != nil {
		t.Fatalf("unknown token must be invalid, got %+v", got)
	}
}

func TestValidate_RefetchesUserByID(t *testing.T) {
	s, rm, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	user, err := s.SignUp(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	token, _, err := s.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	// Mutate the stored user; Validate must reflect the store, not a
	// cached join from the session row.
	rm.u.users[user.ID].Roles = []string{"admin"}

	got, err := s.Validate(ctx, token, user.ID)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if len(got.Roles) != 1 || got.Roles[0] != "admin" {
		t.Fatalf("expected fresh user data, got %+v", got)
	}
}

func TestLogout_NoMatchIsNoOp(t *testing.T) {
	s, _, _ := newTestService(t)

	found, err := s.Logout(context.Background(), "no-such-token-000000", "u-1")
	if err != nil {
		t.Fatalf("no-match logout must not fail: %v", err)
	}
	if found {
		t.Fatal("no-match logout must report found=false")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	s, rm, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	user, err := s.SignUp(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	token, _, err := s.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	for i := 0; i < 2; i++ {
		found, err := s.Logout(ctx, token, user.ID)
		if err != nil || !found {
			t.Fatalf("Logout #%d = (%v, %v), want (true, nil)", i+1, found, err)
		}
	}

	sess, err := rm.s.FindByTokenAndUserID(ctx, token, user.ID)
	if err != nil {
		t.Fatalf("session lookup error: %v", err)
	}
	if sess.Status != models.SessionStatusLoggedOut {
		t.Fatalf("expected LOGGED_OUT, got %v", sess.Status)
	}
}

func TestLogin_RetriesTokenCollision(t *testing.T) {
	s, rm, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	if _, err := s.SignUp(ctx, "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	rm.s.failSaves = 2
	token, _, err := s.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login error after collisions: %v", err)
	}
	if len(token) != common.TokenLength {
		t.Fatalf("unexpected token %q", token)
	}
	if rm.s.saveCalls != 3 {
		t.Fatalf("expected 3 save attempts, got %d", rm.s.saveCalls)
	}
}

func TestLogin_TokenCollisionExhausted(t *testing.T) {
	s, rm, mock := newTestService(t)
	ctx := context.Background()

	expectSignUpTx(mock)
	if _, err := s.SignUp(ctx, "a@x.com", "pw1"); err != nil {
		t.Fatalf("SignUp error: %v", err)
	}

	rm.s.failSaves = 10
	_, _, err := s.Login(ctx, "a@x.com", "pw1")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal after exhausted retries, got %v", err)
	}
}
