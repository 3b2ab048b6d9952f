package sandbox

import (
	"fmt"

	"github.com/odvcencio/warden/pkg/errors"
)

// Err returns nil when the command ran and exited cleanly, otherwise a
// structured error whose code matches the outcome. The reserved exit codes
// map to their own codes; nonzero child exits map to a generic one since the
// guard itself worked.
func (r *ExecutionResult) Err() error {
	switch r.ExitCode {
	case 0:
		return nil
	case ExitDenied:
		return errors.New(errors.ErrCodePolicyDenied, r.Stderr)
	case ExitTimeout:
		return errors.New(errors.ErrCodeTimeout, r.Stderr)
	case ExitFailure:
		return errors.New(errors.ErrCodeUnexpected, r.Stderr)
	default:
		return errors.New(errors.ErrCodeUnexpected,
			fmt.Sprintf("command exited with code %d", r.ExitCode)).
			WithContext("exit_code", r.ExitCode)
	}
}
