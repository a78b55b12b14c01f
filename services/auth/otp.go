package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"flock/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ChallengeTTL is how long an issued passcode stays verifiable.
const ChallengeTTL = 5 * time.Minute

// ChallengeStore keeps at most one live one-time-passcode per account.
// Issuing a new code overwrites any existing one (last-issued-wins).
type ChallengeStore interface {
	// Issue generates and stores a fresh 6-digit code for the account,
	// replacing any live challenge, and returns it for dispatch.
	Issue(ctx context.Context, accountID string) (string, error)
	// Verify succeeds iff a challenge exists, the code matches exactly and
	// the challenge has not expired. The code is deleted on success and left
	// untouched on failure, which reports ErrInvalidOTP.
	Verify(ctx context.Context, accountID, code string) error
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

func challengeKey(accountID string) string {
	return fmt.Sprintf("otp:%s", accountID)
}

// RedisChallengeStore stores passcodes in Redis with a TTL, so codes issued
// by one instance stay verifiable by another and survive process restarts.
type RedisChallengeStore struct {
	client *redis.Client
}

// NewRedisChallengeStore creates a ChallengeStore backed by the given Redis client.
func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func (s *RedisChallengeStore) Issue(ctx context.Context, accountID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, challengeKey(accountID), code, ChallengeTTL).Err(); err != nil {
		utils.GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}
	return code, nil
}

func (s *RedisChallengeStore) Verify(ctx context.Context, accountID, code string) error {
	stored, err := s.client.Get(ctx, challengeKey(accountID)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrInvalidOTP
		}
		return fmt.Errorf("failed to retrieve challenge: %w", err)
	}
	if stored != code {
		return ErrInvalidOTP
	}
	// One-time use: delete the code after successful verification.
	if err := s.client.Del(ctx, challengeKey(accountID)).Err(); err != nil {
		utils.GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
