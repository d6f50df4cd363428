package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	uniq := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	if !IsUniqueViolation(uniq) {
		t.Fatal("expected unique violation to be detected")
	}
	if !IsUniqueViolation(fmt.Errorf("db error: %w", uniq)) {
		t.Fatal("expected wrapped unique violation to be detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}) {
		t.Fatal("foreign key violation must not match")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Fatal("plain error must not match")
	}
	if IsUniqueViolation(nil) {
		t.Fatal("nil must not match")
	}
}
