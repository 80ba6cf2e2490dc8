// Package claudecli runs the Claude Code CLI interactively with a composed
// prompt.
package claudecli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

type Runner struct {
	binary string
}

// NewRunner creates a runner for the given assistant binary ("claude" by
// default).
func NewRunner(binary string) *Runner {
	if binary == "" {
		binary = "claude"
	}
	return &Runner{binary: binary}
}

// RunInteractive launches the assistant with the prompt as its initial
// input, inheriting the operator's terminal. The assistant's exit code is
// returned; a non-zero code is not an error here, the caller decides what it
// means.
func (r *Runner) RunInteractive(ctx context.Context, prompt string) (int, error) {
	cmd := exec.CommandContext(ctx, r.binary, prompt)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run %s: %w", r.binary, err)
}
