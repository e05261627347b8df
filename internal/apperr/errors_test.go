package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindHelpers(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
		want  string
	}{
		{NotFound("user", "66b2"), IsNotFound, `user "66b2" not found`},
		{NotFound("ranking", ""), IsNotFound, "ranking not found"},
		{Invalid("points", "must be non-zero"), IsInvalidArgument, "invalid argument: points: must be non-zero"},
		{Unauthorized("createPrize"), IsUnauthorized, "unauthorized: createPrize requires an admin principal"},
		{RateLimited("check-in", 1), IsRateLimited, `rate limited: event type "check-in" already awarded 1 times today`},
		{Conflict("redemption"), IsConflict, "conflict: redemption aborted after repeated write conflicts"},
	}
	for _, tc := range tests {
		if !tc.check(tc.err) {
			t.Errorf("helper did not match its own constructor: %v", tc.err)
		}
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("message = %q, want %q", got, tc.want)
		}
	}
}

func TestHelpersMatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("redeem prize: %w", ErrInsufficientPoints)
	if !IsInsufficientPoints(wrapped) {
		t.Errorf("IsInsufficientPoints(%v) = false, want true", wrapped)
	}
	if IsOutOfStock(wrapped) {
		t.Errorf("IsOutOfStock(%v) = true, want false", wrapped)
	}
}

func TestHelpersRejectForeignErrors(t *testing.T) {
	err := errors.New("disk on fire")
	for name, check := range map[string]func(error) bool{
		"IsNotFound":           IsNotFound,
		"IsInvalidArgument":    IsInvalidArgument,
		"IsInsufficientPoints": IsInsufficientPoints,
		"IsOutOfStock":         IsOutOfStock,
		"IsRateLimited":        IsRateLimited,
		"IsUnauthorized":       IsUnauthorized,
		"IsConflict":           IsConflict,
	} {
		if check(err) {
			t.Errorf("%s matched an unrelated error", name)
		}
	}
}
