package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is a key/value store with per-key expiry. Values are encoded on
// Set and decoded into dest on Get; a zero expiration never expires.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// Lookup is Get with a miss reported as found=false instead of an error.
func Lookup(ctx context.Context, s Service, key string, dest interface{}) (bool, error) {
	err := s.Get(ctx, key, dest)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
