package termagent

import (
	"context"
	"errors"
	"fmt"
)

// CompletionClient is the opaque interface to the LLM backend: given a
// prompt, it returns raw completion text. The loop never inspects the
// backend beyond this; provider adapters live in the models
// subpackage.
//
// Implementations must classify failures by returning a [ServiceError]
// so the loop can distinguish retryable outages from fatal
// misconfiguration.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ServiceError is a completion-service failure. Transient errors
// (rate limits, 5xx, timeouts) are retried by the loop with bounded
// backoff; fatal errors (invalid credentials, bad requests) surface
// immediately.
type ServiceError struct {
	Transient bool
	Err       error
}

// NewServiceError wraps err as a fatal service error.
func NewServiceError(err error) *ServiceError {
	return &ServiceError{Err: err}
}

// NewTransientError wraps err as a transient service error.
func NewTransientError(err error) *ServiceError {
	return &ServiceError{Transient: true, Err: err}
}

func (e *ServiceError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("completion service error (%s): %v", kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transient service error.
// Unclassified errors are treated as fatal so misconfiguration is
// surfaced instead of retried.
func IsTransient(err error) bool {
	var serr *ServiceError
	return errors.As(err, &serr) && serr.Transient
}
