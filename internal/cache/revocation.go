package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokenPrefix is the key prefix for revoked credential ids
const RevokedTokenPrefix = "auth:revoked:"

// RevocationList records credentials that were logged out before expiry.
type RevocationList interface {
	// Revoke marks tokenID as revoked for ttl. Entries expire with the
	// credential itself, so the list never grows past live tokens.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationList implements RevocationList with one string key per
// revoked token.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) RevocationList {
	return &RedisRevocationList{client: client}
}

func revokedKey(tokenID string) string {
	return RevokedTokenPrefix + tokenID
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to record
		return nil
	}
	if err := l.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
