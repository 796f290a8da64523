// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/greencart/internal/platform/constants"
)

// RedisEventMarker implements [EventMarker] with expiring keys.
type RedisEventMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventMarker creates a Redis-backed [EventMarker] keeping ids for [constants.PaymentEventMarkerTTL].
func NewEventMarker(client *redis.Client) *RedisEventMarker {
	return &RedisEventMarker{client: client, ttl: constants.PaymentEventMarkerTTL}
}

// Seen reports whether eventID was marked within the TTL.
func (marker *RedisEventMarker) Seen(ctx context.Context, eventID string) (bool, error) {
	count, err := marker.client.Exists(ctx, markerKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_event_marker_exists_failed: %w", err)
	}
	return count > 0, nil
}

// Mark records eventID.
func (marker *RedisEventMarker) Mark(ctx context.Context, eventID string) error {
	if err := marker.client.Set(ctx, markerKey(eventID), 1, marker.ttl).Err(); err != nil {
		return fmt.Errorf("redis_event_marker_set_failed: %w", err)
	}
	return nil
}

func markerKey(eventID string) string {
	return constants.RedisPrefixPaymentEvent + eventID
}
