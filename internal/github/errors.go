package github

import (
	"errors"
	"fmt"
)

// ErrEndOfFeed signals that a page did not parse as an event array. GitHub
// returns an error object past the last page, so this is the normal
// end-of-pages condition rather than a failure.
var ErrEndOfFeed = errors.New("end of event feed")

// FeedError wraps a transport-level failure while fetching a feed page.
// It aborts the current ingestion cycle; the next cycle retries from
// wherever the store left off.
type FeedError struct {
	Page int
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("event feed request failed (page %d): %v", e.Page, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// NewFeedError creates a FeedError for the given page.
func NewFeedError(page int, err error) error {
	return &FeedError{Page: page, Err: err}
}

// ValidationError represents invalid input to client methods.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s: %s", e.Field, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value string) error {
	return &ValidationError{Field: field, Value: value}
}
