package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const blacklistPrefix = "auth:blacklist:"

// BlacklistToken marks a token as revoked until its natural expiry.
func BlacklistToken(token string, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, blacklistPrefix+tokenDigest(token), "1", ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("blacklist token failed: %v", err)
		}
	}
}

// IsTokenBlacklisted reports whether a token has been revoked via logout.
func IsTokenBlacklisted(token string) bool {
	rc := GetRedis()
	if rc == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := rc.Exists(ctx, blacklistPrefix+tokenDigest(token)).Result()
	return err == nil && n > 0
}

// tokenDigest keeps raw JWTs out of Redis keys.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
