// Package apperr defines the error kinds the core services report to callers.
// Every kind is a recoverable outcome; handlers translate them to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user, prize or event type does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed input (zero points, non-positive cost, ...).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientPoints is returned when a balance cannot cover a prize's cost.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrOutOfStock is returned when a prize is inactive or has no units left.
	ErrOutOfStock = errors.New("out of stock")
	// ErrRateLimited is returned when an event type's daily cap is already met.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnauthorized is returned when a non-admin attempts an admin operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when an operation loses a concurrency race after retries.
	ErrConflict = errors.New("conflict")
)

// NotFound reports a missing record, e.g. `user "66b2..." not found`.
func NotFound(entity, id string) error {
	if id == "" {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return fmt.Errorf("%s %q %w", entity, id, ErrNotFound)
}

// Invalid reports a rejected input field, e.g. `points: must be non-zero`.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

// Unauthorized reports a failed authorization check for an admin operation.
func Unauthorized(operation string) error {
	return fmt.Errorf("%w: %s requires an admin principal", ErrUnauthorized, operation)
}

// RateLimited reports that an event type's max_per_day cap is already met.
func RateLimited(eventType string, cap int) error {
	return fmt.Errorf("%w: event type %q already awarded %d times today", ErrRateLimited, eventType, cap)
}

// Conflict reports an operation that kept losing a concurrency race.
func Conflict(operation string) error {
	return fmt.Errorf("%w: %s aborted after repeated write conflicts", ErrConflict, operation)
}

func IsNotFound(err error) bool           { return errors.Is(err, ErrNotFound) }
func IsInvalidArgument(err error) bool    { return errors.Is(err, ErrInvalidArgument) }
func IsInsufficientPoints(err error) bool { return errors.Is(err, ErrInsufficientPoints) }
func IsOutOfStock(err error) bool         { return errors.Is(err, ErrOutOfStock) }
func IsRateLimited(err error) bool        { return errors.Is(err, ErrRateLimited) }
func IsUnauthorized(err error) bool       { return errors.Is(err, ErrUnauthorized) }
func IsConflict(err error) bool           { return errors.Is(err, ErrConflict) }
