// AngelaMos | 2026
// service.go

package entitlement

import (
	"context"
	"errors"

	"github.com/carterperez-dev/rently/internal/agent"
	"github.com/carterperez-dev/rently/internal/core"
)

// AgentProvider yields agents with their effective (normalized) status.
type AgentProvider interface {
	GetByID(ctx context.Context, id string) (*agent.Agent, error)
}

// CreditConsumer spends exactly one referral credit, returning
// core.ErrNoCredit when none remains.
type CreditConsumer interface {
	ConsumeListingCredit(ctx context.Context, id string) error
}

type Service struct {
	agents  AgentProvider
	credits CreditConsumer
	clock   core.Clock
	locks   core.KeyedMutex
}

func NewService(
	agents AgentProvider,
	credits CreditConsumer,
	clock core.Clock,
) *Service {
	return &Service{
		agents:  agents,
		credits: credits,
		clock:   clock,
	}
}

// Authorize is the read-only publish check. Safe to call repeatedly;
// nothing is consumed.
func (s *Service) Authorize(
	ctx context.Context,
	agentID string,
) (Decision, error) {
	a, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return Decision{}, err
	}

	return Resolve(a, s.clock.Now()), nil
}

// AuthorizeAndConsume resolves the publish decision and, when the allow
// came from a referral credit, spends that credit. The per-agent lock plus
// the guarded consume keep two concurrent publishes from both spending the
// last credit; the loser of that race is re-resolved and typically denied.
func (s *Service) AuthorizeAndConsume(
	ctx context.Context,
	agentID string,
) (Decision, error) {
	mu := s.locks.Lock(agentID)
	defer mu.Unlock()

	a, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return Decision{}, err
	}

	decision := Resolve(a, s.clock.Now())
	if !decision.NeedsCredit() {
		return decision, nil
	}

	err = s.credits.ConsumeListingCredit(ctx, agentID)
	if errors.Is(err, core.ErrNoCredit) {
		return Decision{Allowed: false, Reason: DenialReason}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	return decision, nil
}
