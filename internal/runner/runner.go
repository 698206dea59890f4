// Package runner executes external command lines for the pipeline.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ProcessError reports a child process that failed to spawn or exited
// non-zero. Command is the exact command line that was attempted.
type ProcessError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %v: %s", e.Command, e.Err, strings.TrimSpace(e.Stderr))
	}

	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Runner spawns child processes and captures their output.
type Runner struct {
	logger *zap.Logger
}

// New creates a process runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes name with args as a child process and returns captured
// standard output. Standard error is informational: it is logged, and
// attached to the error only when the process itself fails. The context
// deadline kills a hanging child.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (string, error) {
	command := strings.Join(append([]string{name}, args...), " ")

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Running command", zap.String("command", command))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}

		return "", &ProcessError{
			Command: command,
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	if stderr.Len() > 0 {
		r.logger.Debug("Command wrote to stderr",
			zap.String("command", command),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
	}

	return stdout.String(), nil
}
