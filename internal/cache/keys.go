package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key formats.
const (
	MetadataSearchKeyPrefix  = "tmdb:search:%s:%s"
	MetadataDetailsKeyPrefix = "tmdb:details:%s:%d:%s"
	PlatformsKey             = "catalog:platforms"
)

// TTLs.
const (
	MetadataTTL  = 60 * time.Minute
	PlatformsTTL = 10 * time.Minute
)

// ErrMiss is returned by GetJSON when the key is absent or no client is configured.
var ErrMiss = errors.New("cache miss")

// MetadataSearchKey keys a provider search by language and normalized query.
func MetadataSearchKey(language, query string) string {
	return fmt.Sprintf(MetadataSearchKeyPrefix, language, strings.ToLower(strings.TrimSpace(query)))
}

// MetadataDetailsKey keys a provider details lookup.
func MetadataDetailsKey(kind string, id int64, language string) string {
	return fmt.Sprintf(MetadataDetailsKeyPrefix, kind, id, language)
}

// GetJSON decodes the value at key into dst.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, dst any) error {
	if rdb == nil {
		return ErrMiss
	}
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SetJSON stores v at key with ttl. A nil client is a no-op.
func SetJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, raw, ttl).Err()
}

// Invalidate deletes key from the shared client, if any.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}
