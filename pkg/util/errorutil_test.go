package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	orig := NewValidationError("message required", nil)
	wrapped := fmt.Errorf("chat: %w", orig)

	got := ToDomainError(wrapped)
	if got.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", got.Code)
	}
	if got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got.HTTPStatus)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	got := ToDomainError(cause)
	if got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if !errors.Is(got, cause) {
		t.Fatal("expected cause to be preserved")
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatal("expected nil")
	}
}

func TestStoreUnavailableMessage(t *testing.T) {
	err := NewStoreUnavailable("tickets", errors.New("dial tcp: refused"))
	if err.Error() != "tickets store unavailable: dial tcp: refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
