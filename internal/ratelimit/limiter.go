// Package ratelimit provides Redis-backed fixed-window rate limiting using
// INCR + EXPIRE. The moderator uses it to throttle its HTTP surface per
// client.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venuemarket/moderation/internal/logger"
)

// Rule defines a rate limiting policy: the Redis key prefix, maximum number of
// requests allowed in the window, and the window duration.
type Rule struct {
	Key    string        // Redis key prefix, e.g. "rl:check:"
	Limit  int           // max count in the window
	Window time.Duration // time window
}

// CheckRule builds the rule applied to moderation requests.
func CheckRule(limit int, window time.Duration) Rule {
	return Rule{Key: "rl:check:", Limit: limit, Window: window}
}

// Limiter performs rate limiting checks against Redis.
type Limiter struct {
	client *redis.Client
	log    *logger.Logger
}

// NewLimiter creates a Limiter backed by the given Redis client.
func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client, log: logger.Named("ratelimit")}
}

// Allow increments the counter for identifier and reports whether it is
// still within rule. The expiry is set on first access.
//
// On Redis errors it fails open (returns true) so that a Redis outage does
// not block legitimate traffic.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) (bool, error) {
	key := rule.Key + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("redis INCR failed, failing open")
		return true, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("redis EXPIRE failed, failing open")
			// Without a TTL the key would block the identifier for good.
			l.client.Del(ctx, key)
			return true, err
		}
	}

	return int(count) <= rule.Limit, nil
}
