package auth

import "errors"

// Failure taxonomy for the login flows. Handlers branch on these with
// errors.Is; anything else is treated as an internal error.
var (
	// ErrInvalidCredentials covers both an unknown account and a password
	// mismatch, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidOTP covers a missing, expired, or mismatched passcode.
	ErrInvalidOTP = errors.New("invalid OTP")
	// ErrNotificationDelivery signals the passcode could not be dispatched.
	ErrNotificationDelivery = errors.New("failed to send OTP")
	// ErrAccountNotFound is returned by read paths that address a specific account.
	ErrAccountNotFound = errors.New("user not found")
	// ErrStorage signals the account store or ledger call failed.
	ErrStorage = errors.New("storage unavailable")
)
