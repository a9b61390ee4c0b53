// Package sysexec runs external commands for checks that only care about
// exit status.
package sysexec

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner executes a command and reports its exit status. Stdout and
// stderr are discarded; the exit code is the only observable signal.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run blocks until the command exits. A non-zero exit status is not an
// error; it is returned as the exit code with a nil error. The error is
// non-nil only when the command could not be run at all.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// IsCommandRunnable reports whether name resolves to an executable on
// the current PATH.
func IsCommandRunnable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
