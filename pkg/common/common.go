// 29 Apr 2020
// Package common has the few things every command shares.

package common

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes for the ssbond command.
const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// ErrUsage marks errors where the user called us wrongly, so the
// command can exit with ExitUsageError.
var ErrUsage = errors.New("usage")

// ExitCode picks the exit code for an error from a command.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	}
	return ExitFailure
}

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
// The suffix lets the structure reader see what kind of file it is.
func WrtTemp(s, suffix string) (string, error) {
	fTmp, err := os.CreateTemp("", "_del_me_testing*"+suffix)
	if err != nil {
		return "", fmt.Errorf("tempfile fail: %w", err)
	}
	name := fTmp.Name()
	if _, err := io.WriteString(fTmp, s); err != nil {
		fTmp.Close()
		return "", fmt.Errorf("writing string to temp file %v", name)
	}
	if err := fTmp.Close(); err != nil {
		return "", err
	}
	return name, nil
}
