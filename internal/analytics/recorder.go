// AngelaMos | 2026
// recorder.go

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KindListingView   = "listing_view"
	KindContactClick  = "contact_click"
	KindReferralClick = "referral_click"
)

// LeadEvent is a fire-and-forget analytics record. Nothing in the engine
// ever reads these back.
type LeadEvent struct {
	AgentID    string
	ClientID   string
	Kind       string
	OccurredAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, event LeadEvent) error
}

// RedisRecorder appends lead events to a capped Redis stream.
type RedisRecorder struct {
	client    *redis.Client
	stream    string
	maxLength int64
}

func NewRedisRecorder(
	client *redis.Client,
	stream string,
	maxLength int64,
) *RedisRecorder {
	return &RedisRecorder{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
	}
}

func (r *RedisRecorder) Record(ctx context.Context, event LeadEvent) error {
	err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLength,
		Approx: true,
		Values: map[string]any{
			"agent_id":    event.AgentID,
			"client_id":   event.ClientID,
			"kind":        event.Kind,
			"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("record lead event: %w", err)
	}

	return nil
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, LeadEvent) error {
	return nil
}
