// Package sandbox provides policy-gated shell command execution. Commands
// are checked against a CommandPolicy before any process is spawned, then run
// through a shell interpreter under a wall-clock timeout with both output
// streams captured. Execution faults never escape as panics or raw errors;
// every invocation produces an ExecutionResult.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/odvcencio/warden/pkg/policy"
)

// Reserved exit codes for outcomes that never reached, or never came from,
// the child process.
const (
	ExitDenied  = -1
	ExitTimeout = -2
	ExitFailure = -3
)

// ExecutionResult captures one command invocation. The zero exit code means
// the child ran and succeeded; the reserved negative codes mark policy and
// runtime outcomes.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Command  string
}

// Success reports whether the command ran and exited cleanly.
func (r *ExecutionResult) Success() bool {
	return r.ExitCode == 0
}

// Output returns stdout when non-empty, falling back to stderr.
func (r *ExecutionResult) Output() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}

// Sandbox executes shell commands under an immutable command policy. It is
// stateless beyond the policy and safe for concurrent use.
type Sandbox struct {
	policy policy.CommandPolicy
}

// New creates a sandbox over the given policy.
func New(p policy.CommandPolicy) *Sandbox {
	return &Sandbox{policy: p}
}

// NewWithDefaults creates a sandbox with the default command policy.
func NewWithDefaults() *Sandbox {
	return New(policy.DefaultCommandPolicy())
}

// Policy returns the sandbox's command policy.
func (s *Sandbox) Policy() policy.CommandPolicy {
	return s.policy
}

// Execute runs a shell command bounded by the policy timeout. Denied commands
// return ExitDenied without spawning anything.
func (s *Sandbox) Execute(ctx context.Context, command string) *ExecutionResult {
	if dec := s.policy.CheckCommand(command); !dec.Allowed {
		return &ExecutionResult{
			Stderr:   "Command not allowed: " + dec.Reason,
			ExitCode: ExitDenied,
			Command:  command,
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	timeout := s.policy.Timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommandContext(ctx, command)
	setSysProcAttr(cmd)
	if dir := s.policy.WorkingDir(); dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return &ExecutionResult{
			Stderr:   fmt.Sprintf("Command timed out after %d seconds", int(timeout.Seconds())),
			ExitCode: ExitTimeout,
			Command:  command,
		}
	}

	result := &ExecutionResult{
		Stdout:  strings.TrimSpace(stdout.String()),
		Stderr:  strings.TrimSpace(stderr.String()),
		Command: command,
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return &ExecutionResult{
				Stderr:   fmt.Sprintf("Error executing command: %v", err),
				ExitCode: ExitFailure,
				Command:  command,
			}
		}
	}
	return result
}
