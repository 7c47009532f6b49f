// AngelaMos | 2026
// notifier.go

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	KindUpgradeNudge   = "upgrade_nudge"
	KindReferralEarned = "referral_earned"
)

// Event is an agent-facing notification. The engine emits these and moves
// on; delivery is the transport's problem.
type Event struct {
	RecipientAgentID string         `json:"recipient_agent_id"`
	Kind             string         `json:"kind"`
	Payload          map[string]any `json:"payload,omitempty"`
	EmittedAt        time.Time      `json:"emitted_at"`
}

type Notifier interface {
	Emit(ctx context.Context, event Event) error
}

// RedisNotifier publishes events on a pub/sub channel for an external
// delivery worker to fan out.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Emit(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}

// LogNotifier writes events to the application log. Used in development
// and as the fallback when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Emit(_ context.Context, event Event) error {
	n.logger.Info("notification",
		"recipient", event.RecipientAgentID,
		"kind", event.Kind,
		"payload", event.Payload,
	)
	return nil
}

func UpgradeNudge(agentID, clientID string, now time.Time) Event {
	return Event{
		RecipientAgentID: agentID,
		Kind:             KindUpgradeNudge,
		Payload: map[string]any{
			"client_id": clientID,
			"message":   "a visitor has used all free contact views for your profile",
		},
		EmittedAt: now,
	}
}

func ReferralEarned(referrerID, referredName string, now time.Time) Event {
	return Event{
		RecipientAgentID: referrerID,
		Kind:             KindReferralEarned,
		Payload: map[string]any{
			"referred_name": referredName,
			"message":       "you earned a free listing credit",
		},
		EmittedAt: now,
	}
}
