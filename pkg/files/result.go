package files

import (
	"github.com/odvcencio/warden/pkg/errors"
)

// Status tags the outcome of a guard operation so callers can branch on kind
// instead of parsing text.
type Status string

const (
	StatusOK            Status = "ok"
	StatusDenied        Status = "denied"
	StatusNotFound      Status = "not_found"
	StatusInvalidTarget Status = "invalid_target"
	StatusSizeExceeded  Status = "size_exceeded"
	StatusError         Status = "error"
)

// Result is the outcome of a single guard operation. Text always carries the
// human-readable rendering: file content or a listing on success, the reason
// on failure.
type Result struct {
	Status Status
	Text   string
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Err returns nil for successful results, otherwise a structured error whose
// code matches the status tag.
func (r Result) Err() error {
	code, failed := r.Status.errorCode()
	if !failed {
		return nil
	}
	return errors.New(code, r.Text)
}

func (s Status) errorCode() (errors.ErrorCode, bool) {
	switch s {
	case StatusOK:
		return "", false
	case StatusDenied:
		return errors.ErrCodePolicyDenied, true
	case StatusNotFound:
		return errors.ErrCodeNotFound, true
	case StatusInvalidTarget:
		return errors.ErrCodeInvalidTarget, true
	case StatusSizeExceeded:
		return errors.ErrCodeSizeExceeded, true
	default:
		return errors.ErrCodeUnexpected, true
	}
}

func ok(text string) Result {
	return Result{Status: StatusOK, Text: text}
}

func denied(reason string) Result {
	return Result{Status: StatusDenied, Text: "Access denied: " + reason}
}
