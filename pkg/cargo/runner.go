package cargo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
}

// ToolError reports a command that ran and exited unsuccessfully.
type ToolError struct {
	Stderr string
	Err    error
}

func (e *ToolError) Error() string { return e.Err.Error() + ": " + e.Stderr }
func (e *ToolError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return nil, &ToolError{Stderr: errBuf.String(), Err: err}
		}
		return nil, err
	}
	return out.Bytes(), nil
}

// DefaultBinary returns the cargo executable to run: $CARGO when set (as it
// is inside `cargo <subcommand>` invocations), otherwise "cargo".
func DefaultBinary() string {
	if c := os.Getenv("CARGO"); c != "" {
		return c
	}
	return "cargo"
}
