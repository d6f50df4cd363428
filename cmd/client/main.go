// Command client is a small CLI for exercising a running user service:
// sign-up, login, token validation, and logout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/stunningdev/userservice/internal/client"
	"github.com/stunningdev/userservice/internal/common"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: client [-a address] <command> [flags]

commands:
  ping
  signup   -e <email>            (password read from terminal)
  login    -e <email>            (password read from terminal)
  validate -t <token> -u <userId>
  logout   -t <token> -u <userId>`)
	os.Exit(2)
}

func main() {
	addr := flag.String("a", "http://localhost:8080", "server base URL")
	email := flag.String("e", "", "email")
	token := flag.String("t", "", "session token")
	userID := flag.String("u", "", "user id")
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}

	ctx := context.Background()
	c := client.New(*addr)

	var err error
	switch flag.Arg(0) {
	case "ping":
		err = runPing(ctx, c)
	case "signup":
		err = runSignUp(ctx, c, *email)
	case "login":
		err = runLogin(ctx, c, *email)
	case "validate":
		err = runValidate(ctx, c, *token, *userID)
	case "logout":
		err = runLogout(ctx, c, *token, *userID)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runPing(ctx context.Context, c *client.Client) error {
	if err := c.Ping(ctx); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func runSignUp(ctx context.Context, c *client.Client, email string) error {
	if email == "" {
		return fmt.Errorf("-e email is required")
	}

	pw, err := client.ReadPasswordConfirmed(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := c.SignUp(ctx, email, string(pw))
	if err != nil {
		return err
	}

	fmt.Printf("registered id=%s email=%s\n", user.ID, user.Email)
	return nil
}

func runLogin(ctx context.Context, c *client.Client, email string) error {
	if email == "" {
		return fmt.Errorf("-e email is required")
	}

	pw, err := client.ReadPassword(os.Stdout, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	token, user, err := c.Login(ctx, email, string(pw))
	if err != nil {
		return err
	}

	fmt.Printf("token=%s userId=%s\n", token, user.ID)
	return nil
}

func runValidate(ctx context.Context, c *client.Client, token, userID string) error {
	if token == "" || userID == "" {
		return fmt.Errorf("-t token and -u userId are required")
	}

	result, err := c.Validate(ctx, token, userID)
	if err != nil {
		return err
	}

	if result.User != nil {
		fmt.Printf("%s email=%s roles=%v\n", result.SessionStatus, result.User.Email, result.User.Roles)
	} else {
		fmt.Println(result.SessionStatus)
	}
	return nil
}

func runLogout(ctx context.Context, c *client.Client, token, userID string) error {
	if token == "" || userID == "" {
		return fmt.Errorf("-t token and -u userId are required")
	}

	if err := c.Logout(ctx, token, userID); err != nil {
		return err
	}

	fmt.Println("logged out")
	return nil
}
