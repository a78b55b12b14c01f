package auth

import (
	"context"

	userRepo "flock/database/repository/user"
	"flock/models"
	"flock/services/notification"
)

// LoginResult reports the outcome of a credential check. OTPRequired
// distinguishes "credentials accepted, second factor pending" from a
// fully trusted login.
type LoginResult struct {
	Success     bool `json:"success"`
	OTPRequired bool `json:"otpRequired,omitempty"`
}

// AuthService orchestrates step-up authentication: deciding whether a login
// must be challenged, issuing and verifying passcodes, and committing login
// history entries.
//
// Login success and history recording are deliberately separate operations;
// the client records a login (RecordLogin) only after the whole flow, trusted
// or challenged, has finished. Do not merge them.
type AuthService interface {
	// Login authenticates a password login and decides whether to challenge it.
	Login(ctx context.Context, email, password string, fp Fingerprint) (*LoginResult, error)
	// GoogleLogin authenticates a federated login, provisioning unknown accounts.
	GoogleLogin(ctx context.Context, email string, fp Fingerprint) (*LoginResult, error)
	// SendOTP issues a fresh challenge for the account and dispatches the code.
	SendOTP(ctx context.Context, email string) error
	// VerifyOTP checks a submitted code; on success it appends a login event
	// built from the current request's fingerprint.
	VerifyOTP(ctx context.Context, email, code string, fp Fingerprint) error
	// RecordLogin unconditionally appends a login event for the account and
	// returns the appended entry.
	RecordLogin(ctx context.Context, email string, fp Fingerprint) (*models.LoginEvent, error)
	// LoginHistory returns the account's ordered login history.
	LoginHistory(ctx context.Context, email string) ([]models.LoginEvent, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Repo       userRepo.UserRepository
	Challenges ChallengeStore
	Notifier   notification.Notifier
}
