// AngelaMos | 2026
// service.go

package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/rently/internal/analytics"
	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/notify"
	"github.com/carterperez-dev/rently/internal/referral"
)

const codeGenerationAttempts = 5

type Service struct {
	repo          Repository
	clock         core.Clock
	notifier      notify.Notifier
	recorder      analytics.Recorder
	trialDuration time.Duration
}

func NewService(
	repo Repository,
	clock core.Clock,
	notifier notify.Notifier,
	recorder analytics.Recorder,
	trialDuration time.Duration,
) *Service {
	return &Service{
		repo:          repo,
		clock:         clock,
		notifier:      notifier,
		recorder:      recorder,
		trialDuration: trialDuration,
	}
}

// Register creates a trial agent. A supplied referral code is attributed
// and the referrer credited; an unknown or malformed code is silently
// ignored so registration always succeeds either way.
func (s *Service) Register(
	ctx context.Context,
	req RegisterAgentRequest,
) (*Agent, error) {
	email := strings.ToLower(req.Email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("register agent: %w", core.ErrDuplicateKey)
	}

	code, err := s.uniqueReferralCode(ctx, req.Name, email)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	newAgent := Agent{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          email,
		Phone:          req.Phone,
		Status:         StatusTrial,
		TrialExpiresAt: now.Add(s.trialDuration),
		ReferralCode:   code,
	}

	referrer, newAgent, err := AttributeReferral(
		newAgent,
		strings.ToUpper(strings.TrimSpace(req.ReferralCode)),
		s.referrerLookup(ctx),
	)
	if err != nil {
		return nil, err
	}

	if referrer == nil {
		if err := s.repo.Create(ctx, &newAgent); err != nil {
			return nil, err
		}
		return &newAgent, nil
	}

	// Signup and referrer credit commit together, so the credit lands
	// exactly once per attributed registration.
	if err := s.repo.CreateWithReferral(ctx, &newAgent, referrer.ID); err != nil {
		return nil, err
	}

	s.notifyReferrer(ctx, referrer.ID, newAgent.Name)

	return &newAgent, nil
}

// referrerLookup adapts the repository to the pure attribution function:
// codes that fail the format check or match nobody resolve to nil rather
// than an error.
func (s *Service) referrerLookup(
	ctx context.Context,
) func(code string) (*Agent, error) {
	return func(code string) (*Agent, error) {
		if !referral.IsValidCode(code) {
			return nil, nil
		}

		referrer, err := s.repo.GetByReferralCode(ctx, code)
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		return referrer, nil
	}
}

func (s *Service) notifyReferrer(
	ctx context.Context,
	referrerID, referredName string,
) {
	event := notify.ReferralEarned(referrerID, referredName, s.clock.Now())
	if err := s.notifier.Emit(ctx, event); err != nil {
		slog.Warn("referral notification failed",
			"referrer_id", referrerID,
			"error", err,
		)
	}
}

func (s *Service) uniqueReferralCode(
	ctx context.Context,
	name, email string,
) (string, error) {
	for range codeGenerationAttempts {
		code := referral.GenerateCode(name, email)

		taken, err := s.repo.ExistsByReferralCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("generate referral code: exhausted attempts")
}

// GetByID returns the agent with its effective status. A trial discovered
// to be past expiry is written back as trial_expired; the read still
// succeeds when that write fails.
func (s *Service) GetByID(ctx context.Context, id string) (*Agent, error) {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	effective := NormalizeStatus(*stored, s.clock.Now())
	if effective.Status != stored.Status {
		if err := s.repo.UpdateStatus(ctx, id, effective.Status); err != nil {
			slog.Warn("failed to persist trial expiry",
				"agent_id", id,
				"error", err,
			)
		}
	}

	return &effective, nil
}

// ActivateSubscription records an external subscription purchase. Once
// active, trial lifecycle and contact gating no longer apply.
func (s *Service) ActivateSubscription(
	ctx context.Context,
	id string,
	req ActivateSubscriptionRequest,
) (*Agent, error) {
	if req.Plan != PlanBasic && req.Plan != PlanPremium {
		return nil, fmt.Errorf(
			"activate subscription: invalid plan %q: %w",
			req.Plan,
			core.ErrInvalidInput,
		)
	}

	agent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expiry := s.clock.Now().AddDate(0, req.Months, 0)
	agent.Status = StatusActive
	agent.SubscriptionPlan = &req.Plan
	agent.SubscriptionExpiry = &expiry

	if err := s.repo.UpdateSubscription(ctx, agent); err != nil {
		return nil, err
	}

	return agent, nil
}

func (s *Service) ReferralStats(
	ctx context.Context,
	id string,
) (*Agent, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveReferralCode finds the agent owning a shared referral code and
// records the click for analytics. Unknown codes return ErrNotFound.
func (s *Service) ResolveReferralCode(
	ctx context.Context,
	code, clientID string,
) (*Agent, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !referral.IsValidCode(code) {
		return nil, fmt.Errorf("resolve referral code: %w", core.ErrNotFound)
	}

	owner, err := s.repo.GetByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}

	lead := analytics.LeadEvent{
		AgentID:    owner.ID,
		ClientID:   clientID,
		Kind:       analytics.KindReferralClick,
		OccurredAt: s.clock.Now(),
	}
	if err := s.recorder.Record(ctx, lead); err != nil {
		slog.Warn("referral click not recorded", "error", err)
	}

	return owner, nil
}

// Clock exposes the injected clock to handlers that render time-derived
// fields.
func (s *Service) Clock() core.Clock {
	return s.clock
}
