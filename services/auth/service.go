package auth

import (
	"context"
	"errors"
	"time"

	userRepo "flock/database/repository/user"
	"flock/models"
	"flock/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a password login attempt. An unknown account and a
// wrong password are reported identically to the caller; the distinction is
// only logged for operators.
func (s *DefaultAuthService) Login(ctx context.Context, email, password string, fp Fingerprint) (*LoginResult, error) {
	logger := utils.GetLogger()

	user, err := s.Repo.GetByEmail(email)
	if err != nil {
		logger.Error("Login: failed to fetch user", zap.Error(err))
		return nil, ErrStorage
	}
	if user == nil {
		logger.Debug("Login: unknown account", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Debug("Login: password mismatch", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	return s.evaluateFingerprint(ctx, user, fp)
}

// GoogleLogin authenticates a federated login. Unknown accounts are
// auto-provisioned with an empty history and treated as trusted.
func (s *DefaultAuthService) GoogleLogin(ctx context.Context, email string, fp Fingerprint) (*LoginResult, error) {
	logger := utils.GetLogger()

	user, err := s.Repo.GetByEmail(email)
	if err != nil {
		logger.Error("GoogleLogin: failed to fetch user", zap.Error(err))
		return nil, ErrStorage
	}
	if user == nil {
		newUser := &models.User{
			ID:           uuid.New().String(),
			Email:        email,
			LoginHistory: []models.LoginEvent{},
		}
		if err := s.Repo.Create(newUser); err != nil {
			logger.Error("GoogleLogin: failed to provision user", zap.Error(err))
			return nil, ErrStorage
		}
		return &LoginResult{Success: true}, nil
	}

	return s.evaluateFingerprint(ctx, user, fp)
}

// evaluateFingerprint compares the current fingerprint against the last
// recorded login event and decides whether a challenge is required.
//
// A trusted outcome does not append to the history here; recording a login
// is an explicit, separate call by the client (RecordLogin).
func (s *DefaultAuthService) evaluateFingerprint(ctx context.Context, user *models.User, fp Fingerprint) (*LoginResult, error) {
	history := user.LoginHistory
	if len(history) == 0 {
		// First-ever login: nothing to compare against, trusted.
		return &LoginResult{Success: true}, nil
	}

	last := history[len(history)-1]
	if fp.Matches(last) {
		return &LoginResult{Success: true}, nil
	}

	if err := s.issueChallenge(ctx, user.Email); err != nil {
		return nil, err
	}
	return &LoginResult{Success: true, OTPRequired: true}, nil
}

// SendOTP issues a fresh challenge and dispatches the code out-of-band.
func (s *DefaultAuthService) SendOTP(ctx context.Context, email string) error {
	return s.issueChallenge(ctx, email)
}

// issueChallenge stores a new passcode for the account and emails it. The
// stored challenge is not rolled back when delivery fails; a retry simply
// overwrites it.
func (s *DefaultAuthService) issueChallenge(ctx context.Context, email string) error {
	logger := utils.GetLogger()

	code, err := s.Challenges.Issue(ctx, email)
	if err != nil {
		logger.Error("issueChallenge: failed to store challenge", zap.Error(err))
		return ErrStorage
	}
	if err := s.Notifier.SendOTP(email, code); err != nil {
		logger.Error("issueChallenge: failed to dispatch OTP", zap.Error(err))
		return ErrNotificationDelivery
	}
	logger.Sugar().Infof("Sent OTP to %s (expires in %v)", email, ChallengeTTL)
	return nil
}

// VerifyOTP checks the submitted code and, on success, appends a login event
// built from the current request's fingerprint. The fingerprint is re-read
// rather than reused from the challenged login: time passes between challenge
// and verification.
func (s *DefaultAuthService) VerifyOTP(ctx context.Context, email, code string, fp Fingerprint) error {
	if err := s.Challenges.Verify(ctx, email, code); err != nil {
		return err
	}
	if err := s.Repo.AppendLoginEvent(email, fp.Event(time.Now())); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return ErrAccountNotFound
		}
		utils.GetLogger().Error("VerifyOTP: failed to append login event", zap.Error(err))
		return ErrStorage
	}
	return nil
}

// RecordLogin unconditionally appends a login event for the account. An
// unknown account is reported as such, not folded into storage errors.
func (s *DefaultAuthService) RecordLogin(ctx context.Context, email string, fp Fingerprint) (*models.LoginEvent, error) {
	event := fp.Event(time.Now())
	if err := s.Repo.AppendLoginEvent(email, event); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		utils.GetLogger().Error("RecordLogin: failed to append login event", zap.Error(err))
		return nil, ErrStorage
	}
	return &event, nil
}

// LoginHistory returns the account's login history in insertion order.
func (s *DefaultAuthService) LoginHistory(ctx context.Context, email string) ([]models.LoginEvent, error) {
	user, err := s.Repo.GetByEmailWithProjection(email, bson.M{"loginHistory": 1})
	if err != nil {
		utils.GetLogger().Error("LoginHistory: failed to fetch user", zap.Error(err))
		return nil, ErrStorage
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	return user.LoginHistory, nil
}
