// AngelaMos | 2026
// service.go

package listing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/rently/internal/analytics"
	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/entitlement"
)

// ErrNotEntitled wraps core.ErrForbidden so handlers can map a denied
// publish to guidance rather than a failure.
var ErrNotEntitled = fmt.Errorf(
	"%s: %w",
	entitlement.DenialReason,
	core.ErrForbidden,
)

type Service struct {
	repo         Repository
	entitlements *entitlement.Service
	clock        core.Clock
	recorder     analytics.Recorder
}

func NewService(
	repo Repository,
	entitlements *entitlement.Service,
	clock core.Clock,
	recorder analytics.Recorder,
) *Service {
	return &Service{
		repo:         repo,
		entitlements: entitlements,
		clock:        clock,
		recorder:     recorder,
	}
}

// Publish creates a listing once the entitlement resolver allows it;
// a referral-credit allow consumes that credit first. The returned
// decision names the rule that granted publication.
func (s *Service) Publish(
	ctx context.Context,
	req CreateListingRequest,
) (*Listing, entitlement.Decision, error) {
	decision, err := s.entitlements.AuthorizeAndConsume(ctx, req.AgentID)
	if err != nil {
		return nil, entitlement.Decision{}, err
	}

	if !decision.Allowed {
		return nil, decision, ErrNotEntitled
	}

	listing := &Listing{
		ID:          uuid.New().String(),
		AgentID:     req.AgentID,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		MonthlyRent: req.MonthlyRent,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, decision, err
	}

	return listing, decision, nil
}

// Get returns one listing and records the view as a lead event for the
// owning agent.
func (s *Service) Get(
	ctx context.Context,
	id, clientID string,
) (*Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lead := analytics.LeadEvent{
		AgentID:    listing.AgentID,
		ClientID:   clientID,
		Kind:       analytics.KindListingView,
		OccurredAt: s.clock.Now(),
	}
	if recErr := s.recorder.Record(ctx, lead); recErr != nil {
		slog.Warn("listing view not recorded", "error", recErr)
	}

	return listing, nil
}

func (s *Service) ListByAgent(
	ctx context.Context,
	params ListListingsParams,
) ([]Listing, int, error) {
	return s.repo.ListByAgent(ctx, params)
}
