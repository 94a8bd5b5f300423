package identity

import "errors"

// Code is a provider error code.
type Code string

const (
	CodeEmailAlreadyInUse Code = "auth/email-already-in-use"
	CodeWeakPassword      Code = "auth/weak-password"
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeNetworkFailed     Code = "auth/network-request-failed"
)

// Error is a provider failure. Message is the provider's raw text and is only shown
// when the code has no dedicated user-facing text.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

const (
	msgAuthFallback  = "Authentication failed. Please try again."
	msgResetFallback = "Failed to send reset email. Please try again."

	// MsgResetSent is shown after a password reset email was accepted.
	MsgResetSent = "Password reset email sent! Check your inbox."
	// MsgResetNeedsEmail is shown when a reset is requested without an email address.
	MsgResetNeedsEmail = "Please enter your email address first."
)

var authMessages = map[Code]string{
	CodeEmailAlreadyInUse: "This email is already registered. Try signing in instead.",
	CodeWeakPassword:      "Password should be at least 6 characters.",
	CodeInvalidEmail:      "Please enter a valid email address.",
	CodeUserNotFound:      "No account found with this email. Try signing up.",
	CodeWrongPassword:     "Incorrect password. Please try again.",
	CodeInvalidCredential: "Invalid email or password.",
}

// Message maps a sign-in or sign-up failure to user-facing text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if msg, ok := authMessages[e.Code]; ok {
			return msg
		}
		if e.Message != "" {
			return e.Message
		}
		return msgAuthFallback
	}
	if s := err.Error(); s != "" {
		return s
	}
	return msgAuthFallback
}

// ResetMessage maps a password reset failure to user-facing text.
func ResetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code == CodeUserNotFound {
		return "No account found with this email."
	}
	return msgResetFallback
}
