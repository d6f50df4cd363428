package client

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/stunningdev/userservice/internal/common"
)

// ErrPasswordMismatch is returned by ReadPasswordConfirmed when the two
// entered passwords differ.
var ErrPasswordMismatch = fmt.Errorf("passwords do not match")

// readPassword can be swapped out in tests to avoid a real terminal.
var readPassword = term.ReadPassword

// ReadPassword writes prompt to w and reads a password from the terminal
// with echo disabled, emitting a newline afterwards. The caller owns the
// returned bytes and should wipe them once used.
func ReadPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// ReadPasswordConfirmed asks for a password twice and returns it only when
// both entries match. On mismatch both buffers are wiped before returning
// ErrPasswordMismatch.
func ReadPasswordConfirmed(w io.Writer, prompt string) ([]byte, error) {
	first, err := ReadPassword(w, prompt)
	if err != nil {
		return nil, err
	}

	second, err := ReadPassword(w, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		common.WipeByteArray(second)
		return nil, ErrPasswordMismatch
	}

	common.WipeByteArray(second)
	return first, nil
}
