// AngelaMos | 2026
// service.go

package viewgate

import (
	"context"
	"log/slog"

	"github.com/carterperez-dev/rently/internal/agent"
	"github.com/carterperez-dev/rently/internal/analytics"
	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/notify"
)

// AgentProvider yields agents with their effective (normalized) status.
type AgentProvider interface {
	GetByID(ctx context.Context, id string) (*agent.Agent, error)
}

type RevealResult struct {
	Allowed        bool
	Reason         string
	RemainingViews int
	Phone          string
	Email          string
}

const (
	// UnlimitedViews marks paid-tier reveals, which are never counted.
	UnlimitedViews = -1

	reasonTrialEnded     = "agent's trial has ended; contact details are hidden"
	reasonViewsExhausted = "free contact views for this agent are used up"
)

type Service struct {
	records     Repository
	agents      AgentProvider
	clock       core.Clock
	notifier    notify.Notifier
	recorder    analytics.Recorder
	revealLimit int
	locks       core.KeyedMutex
}

func NewService(
	records Repository,
	agents AgentProvider,
	clock core.Clock,
	notifier notify.Notifier,
	recorder analytics.Recorder,
	revealLimit int,
) *Service {
	if revealLimit < 1 {
		revealLimit = DefaultRevealLimit
	}

	return &Service{
		records:     records,
		agents:      agents,
		clock:       clock,
		notifier:    notifier,
		recorder:    recorder,
		revealLimit: revealLimit,
	}
}

// Reveal decides whether one visitor may see one agent's contact channel,
// and records the view when the agent is on trial. Paid agents are never
// gated and never counted; expired trials are hidden outright regardless
// of any prior record.
func (s *Service) Reveal(
	ctx context.Context,
	clientID, agentID string,
) (RevealResult, error) {
	a, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return RevealResult{}, err
	}

	switch a.Status {
	case agent.StatusActive:
		s.recordLead(ctx, agentID, clientID)
		return RevealResult{
			Allowed:        true,
			RemainingViews: UnlimitedViews,
			Phone:          a.Phone,
			Email:          a.Email,
		}, nil

	case agent.StatusTrialExpired:
		return RevealResult{
			Allowed: false,
			Reason:  reasonTrialEnded,
		}, nil
	}

	return s.revealTrial(ctx, a, clientID)
}

func (s *Service) revealTrial(
	ctx context.Context,
	a *agent.Agent,
	clientID string,
) (RevealResult, error) {
	mu := s.locks.Lock(clientID + "|" + a.ID)
	defer mu.Unlock()

	record, err := s.records.Get(ctx, clientID, a.ID)
	if err != nil {
		return RevealResult{}, err
	}

	if !CanReveal(record, s.revealLimit) {
		return RevealResult{
			Allowed: false,
			Reason:  reasonViewsExhausted,
		}, nil
	}

	count, err := s.records.Increment(ctx, clientID, a.ID, s.clock.Now())
	if err != nil {
		return RevealResult{}, err
	}

	if CrossedLimit(count, s.revealLimit) {
		event := notify.UpgradeNudge(a.ID, clientID, s.clock.Now())
		if emitErr := s.notifier.Emit(ctx, event); emitErr != nil {
			slog.Warn("upgrade nudge not delivered",
				"agent_id", a.ID,
				"error", emitErr,
			)
		}
	}

	s.recordLead(ctx, a.ID, clientID)

	return RevealResult{
		Allowed:        true,
		RemainingViews: s.revealLimit - count,
		Phone:          a.Phone,
		Email:          a.Email,
	}, nil
}

func (s *Service) recordLead(ctx context.Context, agentID, clientID string) {
	lead := analytics.LeadEvent{
		AgentID:    agentID,
		ClientID:   clientID,
		Kind:       analytics.KindContactClick,
		OccurredAt: s.clock.Now(),
	}
	if err := s.recorder.Record(ctx, lead); err != nil {
		slog.Warn("contact click not recorded", "error", err)
	}
}
