package client

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is the single user-facing failure for a page fetch. Every
// *FetchError matches it with errors.Is.
var ErrFetchFailed = errors.New("failed to fetch GitHub repositories")

// FetchFailedMessage is the text users see for any failed page fetch.
const FetchFailedMessage = "Failed to fetch Github repositories"

// ErrorClass represents a classification of fetch failures. It is used for
// logs and metrics only; callers see ErrFetchFailed.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a 2xx response whose body is not a repository list.
	ErrorClassDecode ErrorClass = "decode"
)

// FetchError describes a failed page fetch.
type FetchError struct {
	Page       int
	StatusCode int
	Class      ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (page %d, %s, status %d): %v",
			ErrFetchFailed, e.Page, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (page %d, %s): %v", ErrFetchFailed, e.Page, e.Class, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetchFailed.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// Message returns the text shown to users for err. Fetch failures collapse
// into FetchFailedMessage regardless of their cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrFetchFailed) {
		return FetchFailedMessage
	}
	return err.Error()
}
