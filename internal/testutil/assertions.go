package testutil

import (
	"errors"
	"testing"

	apperrors "survivalist/internal/errors"
)

// AssertAppError fails unless err unwraps to an *AppError carrying the
// expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	case !errors.As(err, &appErr):
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	case appErr.Code != expectedCode:
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
