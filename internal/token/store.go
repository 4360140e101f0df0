// Package token keeps the server-held side of inquiry anti-forgery tokens.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Length is the number of random bytes per token (32 bytes = 64 hex chars)
const Length = 32

// Generate creates a cryptographically secure random token
func Generate() (string, error) {
	b := make([]byte, Length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Store remembers issued tokens until they expire. Tokens are not consumed by
// a successful check.
type Store interface {
	Save(ctx context.Context, token string, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
}

// RedisStore keeps tokens as keys with a TTL
type RedisStore struct {
	client *goredis.Client
	prefix string
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "inquiry:token:"}
}

func (s *RedisStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+token, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis token save failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("redis token lookup failed: %w", err)
	}
	return n > 0, nil
}

// ErrStoreFull is returned when the memory store holds MaxEntries live tokens.
var ErrStoreFull = errors.New("token store is full")

const (
	// MaxEntries caps the memory store; the form only needs one token per
	// visitor for a few hours.
	MaxEntries    = 100000
	sweepInterval = 5 * time.Minute
)

// MemoryStore is the single-instance fallback when Redis is not configured.
// Expired entries are swept at most every sweepInterval, or when the store
// is full.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	max       int
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		max:     MaxEntries,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	full := len(s.entries) >= s.max
	if full || now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}
	if len(s.entries) >= s.max {
		return ErrStoreFull
	}
	s.entries[token] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, expiresAt := range s.entries {
		if !now.Before(expiresAt) {
			delete(s.entries, k)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.entries[token]
	return ok && s.now().Before(expiresAt), nil
}

// PresenceStore accepts any token. It reproduces the presence-only check for
// deployments that run with INQUIRY_TOKEN_MODE=presence.
type PresenceStore struct{}

func (PresenceStore) Save(context.Context, string, time.Duration) error { return nil }

func (PresenceStore) Exists(context.Context, string) (bool, error) { return true, nil }
