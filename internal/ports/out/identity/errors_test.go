package identity

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&Error{Code: CodeEmailAlreadyInUse}, "This email is already registered. Try signing in instead."},
		{&Error{Code: CodeWeakPassword}, "Password should be at least 6 characters."},
		{fmt.Errorf("sign in: %w", &Error{Code: CodeWrongPassword}), "Incorrect password. Please try again."},
		{&Error{Code: CodeInvalidCredential}, "Invalid email or password."},
		{&Error{Code: "auth/too-many-requests", Message: "Try again later"}, "Try again later"},
		{&Error{Code: "auth/unknown"}, "Authentication failed. Please try again."},
		{errors.New("boom"), "boom"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Fatalf("Message(%v)=%q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestResetMessage(t *testing.T) {
	t.Parallel()

	if got := ResetMessage(&Error{Code: CodeUserNotFound}); got != "No account found with this email." {
		t.Fatalf("got %q", got)
	}
	if got := ResetMessage(&Error{Code: CodeNetworkFailed}); got != "Failed to send reset email. Please try again." {
		t.Fatalf("got %q", got)
	}
}
