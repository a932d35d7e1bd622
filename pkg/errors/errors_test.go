package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection reset by peer")

	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"not found", NotFound("Holiday"), CodeNotFound, http.StatusNotFound, "Holiday not found"},
		{"not found with id", NotFoundWithID("Holiday", "abc"), CodeNotFound, http.StatusNotFound, "Holiday not found"},
		{"validation", Validation("Holiday validation failed", nil), CodeValidation, http.StatusUnprocessableEntity, "Holiday validation failed"},
		{"invalid input", InvalidInput("Invalid holiday ID format"), CodeInvalidInput, http.StatusBadRequest, "Invalid holiday ID format"},
		{"unauthorized", Unauthorized("missing bearer token"), CodeUnauthorized, http.StatusUnauthorized, "missing bearer token"},
		{"forbidden", Forbidden("not the owner"), CodeForbidden, http.StatusForbidden, "not the owner"},
		{"already subscribed", AlreadySubscribed("Already subscribed to this holiday"), CodeAlreadySubscribed, http.StatusConflict, "Already subscribed to this holiday"},
		{"internal", Internal("Failed to update holiday", cause), CodeInternal, http.StatusInternalServerError, "Failed to update holiday"},
		{"timeout", Timeout("request timed out"), CodeTimeout, http.StatusGatewayTimeout, "request timed out"},
		{"unavailable", Unavailable("Flight search"), CodeUnavailable, http.StatusServiceUnavailable, "Flight search is temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Holiday", "65a1f0c2e4b0a1b2c3d4e5f6")

	if err.Details["id"] != "65a1f0c2e4b0a1b2c3d4e5f6" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Holiday" {
		t.Errorf("expected resource detail, got %v", err.Details["resource"])
	}
}

func TestAppError_Error(t *testing.T) {
	plain := &AppError{Code: CodeNotFound, Message: "Holiday not found"}
	if got := plain.Error(); got != "NOT_FOUND: Holiday not found" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(errors.New("socket closed"), CodeInternal, "Failed to list holidays", http.StatusInternalServerError)
	if got := wrapped.Error(); got != "INTERNAL_ERROR: Failed to list holidays (caused by: socket closed)" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Unwrap(wrapped) == nil {
		t.Errorf("Unwrap() should return the cause")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden("not the owner")

	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	wrapped := fmt.Errorf("transaction failed: %w", appErr)
	if got := AsAppError(wrapped); got != appErr {
		t.Errorf("AsAppError() should unwrap a wrapped AppError")
	}
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}

	plain := errors.New("server selection timeout")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("unknown errors should map to %s, got %s", CodeInternal, got.Code)
	}
	if got.Err != plain {
		t.Errorf("AsAppError() should keep the original cause")
	}
	if IsAppError(plain) {
		t.Errorf("IsAppError() should be false for a plain error")
	}
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("write conflict")
	err := Internal("Failed to update holiday", cause)

	if !errors.Is(err, cause) {
		t.Errorf("Internal() should wrap its cause")
	}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d", err.StatusCode())
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", AlreadySubscribed("Already subscribed to this holiday"))

	if !HasCode(err, CodeAlreadySubscribed) {
		t.Errorf("HasCode() should match %s", CodeAlreadySubscribed)
	}
	if HasCode(err, CodeForbidden) {
		t.Errorf("HasCode() should not match %s", CodeForbidden)
	}
	if HasCode(errors.New("x"), CodeInternal) {
		t.Errorf("HasCode() should be false for plain errors")
	}
}
