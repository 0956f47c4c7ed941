package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-feedback/internal/logger"
)

const (
	revokedSessionKeyPrefix = "session:revoked:"
	revokedUserKeyPrefix    = "session:revoked-user:"
)

// SessionRevocationRepository stores ended session IDs in Redis until they expire.
type SessionRevocationRepository struct {
	client *redis.Client
}

// NewSessionRevocationRepository creates a new repository instance.
func NewSessionRevocationRepository(client *redis.Client) *SessionRevocationRepository {
	return &SessionRevocationRepository{client: client}
}

// Revoke marks sessionID as ended for ttl.
func (r *SessionRevocationRepository) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	key := revokedSessionKeyPrefix + sessionID
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow("redis set",
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// IsRevoked reports whether sessionID was revoked and has not expired yet.
func (r *SessionRevocationRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	key := revokedSessionKeyPrefix + sessionID
	n, err := r.client.Exists(ctx, key).Result()

	logger.Log.Debugw("redis exists",
		"key", key,
		"result", n,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeUser stores at as the moment all sessions of username ended. The
// value is kept for ttl.
func (r *SessionRevocationRepository) RevokeUser(ctx context.Context, username string, at time.Time, ttl time.Duration) error {
	key := revokedUserKeyPrefix + username
	err := r.client.Set(ctx, key, at.UnixMilli(), ttl).Err()

	logger.Log.Infow("redis set",
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// UserRevokedAt returns the last RevokeUser moment of username, or the zero
// time when there is none.
func (r *SessionRevocationRepository) UserRevokedAt(ctx context.Context, username string) (time.Time, error) {
	key := revokedUserKeyPrefix + username
	ms, err := r.client.Get(ctx, key).Int64()

	logger.Log.Debugw("redis get",
		"key", key,
		"result", ms,
		"error", err,
	)

	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
