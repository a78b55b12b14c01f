package auth

import (
	"context"
	"sync"
	"time"
)

type challenge struct {
	code    string
	expires time.Time
}

// MemoryChallengeStore is a process-local ChallengeStore. Codes live for the
// process lifetime only and expired entries are not swept, just rejected at
// verification time. Production wiring uses the Redis store; this one backs
// tests and single-instance deployments without Redis.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]challenge
	now        func() time.Time
}

// NewMemoryChallengeStore creates an empty in-memory ChallengeStore.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]challenge),
		now:        time.Now,
	}
}

func (s *MemoryChallengeStore) Issue(_ context.Context, accountID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Overwrites any live challenge for the account: last-issued-wins.
	s.challenges[accountID] = challenge{code: code, expires: s.now().Add(ChallengeTTL)}
	return code, nil
}

func (s *MemoryChallengeStore) Verify(_ context.Context, accountID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[accountID]
	if !ok || ch.code != code || !s.now().Before(ch.expires) {
		// Failed attempts leave the challenge untouched; the caller may
		// retry until expiry.
		return ErrInvalidOTP
	}
	delete(s.challenges, accountID)
	return nil
}
