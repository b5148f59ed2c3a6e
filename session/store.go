package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goIdentity/internal"
)

// ErrNotFound is returned when the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// ErrUnavailable is returned when the Redis backend cannot be reached.
var ErrUnavailable = errors.New("session store unavailable")

const minTTL = time.Second

// Store keeps the reduced principal (just the account ID) under an opaque
// session ID with a fixed TTL. The full account is rehydrated by the engine
// on every request, so nothing security-relevant is cached here.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "ids"
	}
	if ttl < minTTL {
		ttl = minTTL
	}
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

// Create stores accountID under a fresh random session ID and returns the ID.
func (s *Store) Create(ctx context.Context, accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("empty account id")
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, s.key(sid.String()), accountID, s.ttl).Err(); err != nil {
		return "", ErrUnavailable
	}

	return sid.String(), nil
}

// Resolve returns the account ID stored under sessionID. Malformed IDs are
// rejected without a Redis round-trip.
func (s *Store) Resolve(ctx context.Context, sessionID string) (string, error) {
	if _, err := internal.ParseSessionID(sessionID); err != nil {
		return "", ErrNotFound
	}

	accountID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", ErrUnavailable
	}

	return accountID, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := internal.ParseSessionID(sessionID); err != nil {
		return nil
	}

	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}
