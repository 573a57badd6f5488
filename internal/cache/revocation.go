package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// TokenBlacklist records revoked token ids until their natural expiry.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist returns a blacklist backed by client. A nil client yields
// a blacklist that never reports a token as revoked.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Enabled reports whether revocations are persisted.
func (b *TokenBlacklist) Enabled() bool {
	return b != nil && b.client != nil
}

// Revoke stores jti until expiresAt. Already-expired tokens are ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if !b.Enabled() || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if !b.Enabled() || jti == "" {
		return false, nil
	}
	n, err := b.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
