// Package cache wraps the shared redis client: OTP storage with TTL and a
// small read cache for hot product lookups.
package cache

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "cache").Logger()

var ErrOTPNotFound = errors.New("otp expired or not found")

const (
	otpTTL        = 5 * time.Minute
	productTTL    = 10 * time.Minute
	otpKeyPrefix  = "otp:"
	prodKeyPrefix = "product:"
)

// NewClient builds the redis client from REDIS_ADDR/REDIS_PASSWORD.
func NewClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

// SetOTP stores the code for the phone with a 5 minute expiry, replacing any
// previous code.
func SetOTP(ctx context.Context, rdb *redis.Client, phone, code string) error {
	return rdb.Set(ctx, otpKeyPrefix+phone, code, otpTTL).Err()
}

// GetOTP returns the pending code for the phone.
func GetOTP(ctx context.Context, rdb *redis.Client, phone string) (string, error) {
	code, err := rdb.Get(ctx, otpKeyPrefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrOTPNotFound
		}
		return "", err
	}
	return code, nil
}

// DeleteOTP invalidates the code once verified.
func DeleteOTP(ctx context.Context, rdb *redis.Client, phone string) {
	if err := rdb.Del(ctx, otpKeyPrefix+phone).Err(); err != nil {
		logger.Error().Err(err).Str("phone", phone).Msg("failed to delete otp")
	}
}

// GetProduct reads a cached product payload; empty string means miss.
func GetProduct(ctx context.Context, rdb *redis.Client, id string) string {
	payload, err := rdb.Get(ctx, prodKeyPrefix+id).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Str("product", id).Msg("product cache read failed")
		}
		return ""
	}
	return payload
}

// SetProduct caches a serialized product payload.
func SetProduct(ctx context.Context, rdb *redis.Client, id, payload string) {
	if err := rdb.Set(ctx, prodKeyPrefix+id, payload, productTTL).Err(); err != nil {
		logger.Error().Err(err).Str("product", id).Msg("product cache write failed")
	}
}

// InvalidateProduct drops the cached payload after a product mutation.
func InvalidateProduct(ctx context.Context, rdb *redis.Client, id string) {
	if err := rdb.Del(ctx, prodKeyPrefix+id).Err(); err != nil {
		logger.Error().Err(err).Str("product", id).Msg("product cache invalidate failed")
	}
}
