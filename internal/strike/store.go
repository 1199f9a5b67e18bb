// Package strike counts contact-sharing violations per sender in Redis.
// Each sender has one counter:
//
//	Key:   strikes:<sender_id>
//	Value: number of flagged messages
//	TTL:   strike window, set on the first strike or whenever missing
package strike

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Prefix is the Redis key prefix for strike counters.
const Prefix = "strikes:"

// Store manages strike counters in Redis.
type Store struct {
	client *redis.Client
	window time.Duration
}

// NewStore creates a strike store whose counters expire window after the
// first strike.
func NewStore(client *redis.Client, window time.Duration) *Store {
	return &Store{client: client, window: window}
}

func key(senderID int64) string {
	return Prefix + strconv.FormatInt(senderID, 10)
}

// Record adds a strike for senderID and returns the new count.
// A counter gets its TTL when it has none, normally on the first strike, so
// the window does not slide.
func (s *Store) Record(ctx context.Context, senderID int64) (int, error) {
	k := key(senderID)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("strike: incr: %w", err)
	}
	count := int(incr.Val())

	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, k, s.window).Err(); err != nil {
			// Without a TTL the counter would never lapse.
			s.client.Del(ctx, k)
			return count, fmt.Errorf("strike: expire: %w", err)
		}
	}
	return count, nil
}

// Count returns the current strikes for senderID, 0 when none are recorded
// or the window has lapsed.
func (s *Store) Count(ctx context.Context, senderID int64) (int, error) {
	n, err := s.client.Get(ctx, key(senderID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("strike: get: %w", err)
	}
	return n, nil
}

// Clear removes all strikes for senderID.
func (s *Store) Clear(ctx context.Context, senderID int64) error {
	if err := s.client.Del(ctx, key(senderID)).Err(); err != nil {
		return fmt.Errorf("strike: del: %w", err)
	}
	return nil
}
