// Copyright (c) 2026 Edubridge. All rights reserved.

package servicekeys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edubridge/portal/internal/platform/constants"
)

// # Cached Repository

// CacheTTL bounds how long a resolved caller may be served from cache.
// Key deactivation takes effect within this window at the latest.
const CacheTTL = 5 * time.Minute

// CachedRepository decorates a [Repository] with a Redis read-through cache.
//
// Every authenticated service request resolves its key; without the cache
// that is one storage round-trip per request for a value that almost never
// changes.
type CachedRepository struct {
	inner  Repository
	client *redis.Client
}

// NewCachedRepository wraps a repository with the Redis cache layer.
func NewCachedRepository(inner Repository, client *redis.Client) *CachedRepository {
	return &CachedRepository{inner: inner, client: client}
}

/*
FindByKeyHash resolves a caller, preferring the cache over storage.

Description: Cache misses and cache infrastructure failures both fall
through to the inner repository; a broken cache degrades performance, not
availability. Negative results are not cached so a freshly provisioned key
works immediately.

Parameters:
  - context: context.Context
  - keyHash: string

Returns:
  - *Caller: Hydrated entity
  - error: apperr.NotFound or storage errors from the inner repository
*/
func (repository *CachedRepository) FindByKeyHash(context context.Context, keyHash string) (*Caller, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixServiceKey + keyHash

	// 1. Probe the cache; any cache failure falls through to storage
	cached, err := repository.client.Get(context, key).Result()
	if err == nil {
		caller := &Caller{}
		if err := json.Unmarshal([]byte(cached), caller); err == nil {
			return caller, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis_service_key_get_failed: %w", err)
	}

	// 2. Resolve from the inner repository
	caller, err := repository.inner.FindByKeyHash(context, keyHash)
	if err != nil {
		return nil, err
	}

	// 3. Populate the cache as a side effect; failures are non-fatal
	if encoded, err := json.Marshal(caller); err == nil {
		_ = repository.client.Set(context, key, encoded, CacheTTL).Err()
	}

	return caller, nil
}

/*
Create delegates to the inner repository and invalidates the cache entry.

Parameters:
  - context: context.Context
  - caller: *Caller

Returns:
  - error: Persistence failures from the inner repository
*/
func (repository *CachedRepository) Create(context context.Context, caller *Caller) error {
	if err := repository.inner.Create(context, caller); err != nil {
		return err
	}

	// Drop any stale entry under this hash
	_ = repository.client.Del(context, constants.RedisPrefixServiceKey+caller.KeyHash).Err()
	return nil
}

// compile-time interface conformance check
var _ Repository = (*CachedRepository)(nil)
