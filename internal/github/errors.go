package github

import (
	"errors"
	"fmt"
)

// APIError is a permanent failure reported by the GitHub API.
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: %s failed with status %d: %s", e.Operation, e.Status, e.Body)
}

// NotFoundError marks a missing entity, such as an unknown username.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("github: %s %q not found", e.Kind, e.Name)
}

// RateLimitError signals the remote quota was exhausted mid-call.
type RateLimitError struct {
	ResetAfterSeconds int64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, retry after %d seconds", e.ResetAfterSeconds)
}

// Retryable reports that the failure is transient. No automatic retry loop
// consumes this yet; callers choosing to retry bring their own policy.
func (e *RateLimitError) Retryable() bool { return true }

type retryable interface{ Retryable() bool }

// IsRetryable reports whether err carries a transient classification.
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r) && r.Retryable()
}
