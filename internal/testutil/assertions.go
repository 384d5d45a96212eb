package testutil

import (
	"errors"
	"testing"

	apperrors "spendwise/internal/errors"
)

// AssertAppError fails unless err carries an *AppError whose code is
// expectedCode. The outermost AppError in the chain is the one checked.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error %s, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected error %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError stops the test on any error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertMoney compares a cents amount and reports both sides in dollars.
func AssertMoney(t *testing.T, wantCents, gotCents int64) {
	t.Helper()
	if wantCents != gotCents {
		t.Errorf("expected $%d.%02d, got $%d.%02d", wantCents/100, wantCents%100, gotCents/100, gotCents%100)
	}
}
