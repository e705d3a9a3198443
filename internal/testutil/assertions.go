package testutil

import (
	"errors"
	"math"
	"testing"

	apperrors "alphastock/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
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

// AssertMoneyEqual compares two dollar amounts with a cent of tolerance.
func AssertMoneyEqual(t *testing.T, expected, actual float64, label string) {
	t.Helper()

	if math.Abs(expected-actual) > 0.005 {
		t.Errorf("%s: expected %.4f, got %.4f", label, expected, actual)
	}
}
