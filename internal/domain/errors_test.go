package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{401, ErrUnauthorized},
		{404, ErrNotFound},
		{400, ErrInvalidInput},
		{413, ErrInvalidInput},
		{415, ErrInvalidInput},
		{422, ErrInvalidInput},
		{500, ErrServer},
		{503, ErrServer},
	}
	for _, tc := range tests {
		err := fmt.Errorf("wrapped: %w", &APIError{Status: tc.status})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Status: 400, Message: "Only images and PDFs are allowed"}
	want := "invalid input: status 400: Only images and PDFs are allowed"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	bare := &APIError{Status: 502}
	if bare.Error() != "server error: status 502" {
		t.Errorf("unexpected bare message: %q", bare.Error())
	}
}

func TestServerMessage(t *testing.T) {
	msg, ok := ServerMessage(fmt.Errorf("upload: %w", &APIError{Status: 400, Message: "File too large"}))
	if !ok || msg != "File too large" {
		t.Errorf("got (%q, %v)", msg, ok)
	}

	if _, ok := ServerMessage(&APIError{Status: 500}); ok {
		t.Error("expected no message for empty server message")
	}
	if _, ok := ServerMessage(errors.New("dial tcp: refused")); ok {
		t.Error("expected no message for plain error")
	}
}
