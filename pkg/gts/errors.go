package gts

import (
	"errors"
	"fmt"
)

// ErrMarkerNotFound is returned when a profile page lacks one of the
// identifier markers the scraper relies on.
var ErrMarkerNotFound = errors.New("identifier marker not found in profile page")

// ServiceError wraps any failure talking to the game service: network
// errors, timeouts, unexpected status codes and malformed payloads.
// Callers treat it as "skip this profile for now", never as fatal.
type ServiceError struct {
	ProfileID string
	Op        string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("gts %s for profile %s: %v", e.Op, e.ProfileID, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func serviceError(profileID, op string, err error) error {
	return &ServiceError{ProfileID: profileID, Op: op, Err: err}
}
