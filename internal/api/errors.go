package api

import (
	"errors"
	"fmt"

	"github.com/sumodev/careboard/internal/tweets"
)

// RequestError is a client-caused failure carrying the HTTP status and
// the plain-text reason returned to the caller.
type RequestError struct {
	Status  int
	Message string
}

// NewRequestError creates a new request error
func NewRequestError(status int, message string) *RequestError {
	return &RequestError{
		Status:  status,
		Message: message,
	}
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("request error %d: %s", e.Status, e.Message)
}

// isRejection reports whether a reply submission failed because of the
// caller's input or a platform rejection, both of which map to a 400
// with the reason text. Anything else is a server error.
func isRejection(err error) bool {
	if errors.Is(err, tweets.ErrReplyToInvalid) ||
		errors.Is(err, tweets.ErrContentEmpty) ||
		errors.Is(err, tweets.ErrContentTooLong) {
		return true
	}
	var subErr *tweets.SubmissionError
	return errors.As(err, &subErr)
}
