// Copyright (c) 2026 Edubridge. All rights reserved.

package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edubridge/portal/internal/platform/constants"
)

// # Revocation Repository

// RedisRevocationRepository implements RevocationRepository using Redis.
//
// Entries expire with the token's own lifetime, so the denylist never grows
// beyond the set of refresh tokens that are both revoked and still unexpired.
type RedisRevocationRepository struct {
	client *redis.Client
}

// NewRevocationRepository creates a new Redis-backed RevocationRepository.
func NewRevocationRepository(client *redis.Client) *RedisRevocationRepository {
	return &RedisRevocationRepository{client: client}
}

/*
Revoke lists a refresh token hash as revoked until its natural expiry.

Parameters:
  - context: context.Context
  - tokenHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisRevocationRepository) Revoke(context context.Context, tokenHash string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixRevokedRefresh + tokenHash

	// List the hash with the remaining token lifetime as TTL
	if err := repository.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
IsRevoked reports whether a refresh token hash is on the denylist.

Description: A missing key means the token was never revoked (or has already
expired, which is equivalent for the caller).

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - bool: True if the token hash is listed
  - error: Connectivity errors
*/
func (repository *RedisRevocationRepository) IsRevoked(context context.Context, tokenHash string) (bool, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixRevokedRefresh + tokenHash

	// Probe for the key
	_, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_revocation_get_failed: %w", err)
	}

	// The key exists, so the token is revoked
	return true, nil
}
