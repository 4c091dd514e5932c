package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	cases := []struct {
		err      *WebErr
		sentinel error
		status   int
	}{
		{DuplicateEmail(), ErrDuplicateEmail, http.StatusConflict},
		{NotFound("post"), ErrNotFound, http.StatusNotFound},
		{Forbidden(), ErrForbidden, http.StatusForbidden},
		{AuthRequired(), ErrAuthRequired, http.StatusUnauthorized},
		{Validation("title is required"), ErrValidation, http.StatusBadRequest},
		{MailTransport(fmt.Errorf("dial tcp: refused")), ErrMailTransport, http.StatusBadGateway},
		{New(http.StatusUnauthorized, ErrBadCredentials), ErrBadCredentials, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.sentinel) {
			t.Errorf("%v does not match sentinel %v", tc.err, tc.sentinel)
		}
		if tc.err.StatusCode != tc.status {
			t.Errorf("%v status %d, want %d", tc.err, tc.err.StatusCode, tc.status)
		}
	}
}

func TestDatabaseMapsRecordNotFound(t *testing.T) {
	err := Database("find", "post", fmt.Errorf("record not found"))
	if !IsNotFound(err) {
		t.Fatalf("missing record should map to not-found, got %v", err)
	}
	if err.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", err.StatusCode)
	}
}

func TestDatabaseWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Database("create", "comment", cause)
	if err.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", err.StatusCode)
	}
	if err.Cause != cause {
		t.Fatalf("cause not retained")
	}
	if msg := err.Error(); msg != "failed to create comment: connection reset" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHelperPredicates(t *testing.T) {
	if IsForbidden(NotFound("post")) {
		t.Fatal("not-found classified as forbidden")
	}
	if !IsForbidden(Forbidden()) {
		t.Fatal("forbidden not recognised")
	}
	if !IsValidation(Validation("body is required")) {
		t.Fatal("validation not recognised")
	}
}
