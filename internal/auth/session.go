package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	defaultTTL       = 24 * time.Hour
)

// Store keeps session id -> user id in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store. A non-positive ttl means 24h.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is how long a session lives; the cookie uses the same value.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session for userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("session: empty user id")
	}
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// GetUserID resolves a session. Missing, expired and unreadable sessions all
// report false.
func (s *Store) GetUserID(ctx context.Context, id string) (string, bool) {
	userID, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
