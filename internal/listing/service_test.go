// AngelaMos | 2026
// service_test.go

package listing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/carterperez-dev/rently/internal/agent"
	"github.com/carterperez-dev/rently/internal/analytics"
	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/entitlement"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeListingStore struct {
	listings map[string]Listing
	created  int
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: make(map[string]Listing)}
}

func (s *fakeListingStore) Create(_ context.Context, listing *Listing) error {
	listing.CreatedAt = now
	listing.UpdatedAt = now
	s.listings[listing.ID] = *listing
	s.created++
	return nil
}

func (s *fakeListingStore) GetByID(_ context.Context, id string) (*Listing, error) {
	l, ok := s.listings[id]
	if !ok {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	return &l, nil
}

func (s *fakeListingStore) ListByAgent(_ context.Context, params ListListingsParams) ([]Listing, int, error) {
	var matched []Listing
	for _, l := range s.listings {
		if l.AgentID == params.AgentID {
			matched = append(matched, l)
		}
	}
	return matched, len(matched), nil
}

func (s *fakeListingStore) CountByAgent(_ context.Context, agentID string) (int, error) {
	count := 0
	for _, l := range s.listings {
		if l.AgentID == agentID {
			count++
		}
	}
	return count, nil
}

// fakeAgentLedger serves the entitlement service's provider and consumer
// sides from one in-memory agent.
type fakeAgentLedger struct {
	agent agent.Agent
}

func (l *fakeAgentLedger) GetByID(_ context.Context, id string) (*agent.Agent, error) {
	if id != l.agent.ID {
		return nil, fmt.Errorf("get agent: %w", core.ErrNotFound)
	}
	a := l.agent
	return &a, nil
}

func (l *fakeAgentLedger) ConsumeListingCredit(_ context.Context, id string) error {
	if id != l.agent.ID {
		return fmt.Errorf("consume listing credit: %w", core.ErrNotFound)
	}
	if l.agent.FreeListingsEarned <= l.agent.FreeListingsUsed {
		return fmt.Errorf("consume listing credit: %w", core.ErrNoCredit)
	}
	l.agent.FreeListingsUsed++
	return nil
}

func newPublishService(a agent.Agent) (*Service, *fakeListingStore, *fakeAgentLedger) {
	ledger := &fakeAgentLedger{agent: a}
	clock := core.FixedClock{Instant: now}
	store := newFakeListingStore()
	svc := NewService(
		store,
		entitlement.NewService(ledger, ledger, clock),
		clock,
		analytics.NopRecorder{},
	)
	return svc, store, ledger
}

func publishRequest(agentID string) CreateListingRequest {
	return CreateListingRequest{
		AgentID:     agentID,
		Title:       "2BR apartment near the park",
		Address:     "12 Elm Street",
		MonthlyRent: 1800,
	}
}

func TestPublish(t *testing.T) {
	t.Run("trial agent publishes freely", func(t *testing.T) {
		svc, store, ledger := newPublishService(agent.Agent{
			ID:             "agent-1",
			Status:         agent.StatusTrial,
			TrialExpiresAt: now.Add(24 * time.Hour),
		})

		listing, decision, err := svc.Publish(context.Background(), publishRequest("agent-1"))
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
		if decision.Source != entitlement.SourceTrial {
			t.Errorf("Source = %q, want %q", decision.Source, entitlement.SourceTrial)
		}
		if listing.AgentID != "agent-1" {
			t.Errorf("AgentID = %q, want agent-1", listing.AgentID)
		}
		if store.created != 1 {
			t.Errorf("created = %d, want 1", store.created)
		}
		if ledger.agent.FreeListingsUsed != 0 {
			t.Error("trial publish consumed a credit")
		}
	})

	t.Run("referral credit is spent exactly once", func(t *testing.T) {
		svc, store, ledger := newPublishService(agent.Agent{
			ID:                 "agent-1",
			Status:             agent.StatusTrialExpired,
			FreeListingsEarned: 1,
		})

		_, decision, err := svc.Publish(context.Background(), publishRequest("agent-1"))
		if err != nil {
			t.Fatalf("first publish: %v", err)
		}
		if decision.Source != entitlement.SourceReferralCredit {
			t.Errorf("Source = %q, want %q", decision.Source, entitlement.SourceReferralCredit)
		}
		if ledger.agent.FreeListingsUsed != 1 {
			t.Errorf("FreeListingsUsed = %d, want 1", ledger.agent.FreeListingsUsed)
		}

		_, decision, err = svc.Publish(context.Background(), publishRequest("agent-1"))
		if !errors.Is(err, ErrNotEntitled) {
			t.Fatalf("second publish err = %v, want ErrNotEntitled", err)
		}
		if decision.Allowed {
			t.Error("second publish must be denied")
		}
		if decision.Reason != entitlement.DenialReason {
			t.Errorf("Reason = %q, want %q", decision.Reason, entitlement.DenialReason)
		}
		if store.created != 1 {
			t.Errorf("created = %d, want 1", store.created)
		}
	})

	t.Run("denied publish maps onto forbidden", func(t *testing.T) {
		svc, store, _ := newPublishService(agent.Agent{
			ID:     "agent-1",
			Status: agent.StatusTrialExpired,
		})

		_, _, err := svc.Publish(context.Background(), publishRequest("agent-1"))
		if !errors.Is(err, core.ErrForbidden) {
			t.Fatalf("err = %v, want to wrap ErrForbidden", err)
		}
		if store.created != 0 {
			t.Errorf("created = %d, want 0", store.created)
		}
	})

	t.Run("subscribed agent publishes without credits", func(t *testing.T) {
		plan := agent.PlanBasic
		expiry := now.Add(30 * 24 * time.Hour)
		svc, _, ledger := newPublishService(agent.Agent{
			ID:                 "agent-1",
			Status:             agent.StatusActive,
			SubscriptionPlan:   &plan,
			SubscriptionExpiry: &expiry,
			FreeListingsEarned: 2,
		})

		_, decision, err := svc.Publish(context.Background(), publishRequest("agent-1"))
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
		if decision.Source != entitlement.SourceSubscription {
			t.Errorf("Source = %q, want %q", decision.Source, entitlement.SourceSubscription)
		}
		if ledger.agent.FreeListingsUsed != 0 {
			t.Error("subscription publish consumed a credit")
		}
	})

	t.Run("unknown agent fails", func(t *testing.T) {
		svc, _, _ := newPublishService(agent.Agent{ID: "agent-1"})

		if _, _, err := svc.Publish(context.Background(), publishRequest("agent-missing")); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestGetRecordsLead(t *testing.T) {
	store := newFakeListingStore()
	store.listings["listing-1"] = Listing{ID: "listing-1", AgentID: "agent-1", Title: "studio"}

	recorder := &capturingRecorder{}
	ledger := &fakeAgentLedger{agent: agent.Agent{ID: "agent-1"}}
	clock := core.FixedClock{Instant: now}
	svc := NewService(store, entitlement.NewService(ledger, ledger, clock), clock, recorder)

	got, err := svc.Get(context.Background(), "listing-1", "client-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "listing-1" {
		t.Errorf("ID = %q, want listing-1", got.ID)
	}

	if len(recorder.events) != 1 {
		t.Fatalf("got %d lead events, want 1", len(recorder.events))
	}
	lead := recorder.events[0]
	if lead.Kind != analytics.KindListingView {
		t.Errorf("Kind = %q, want %q", lead.Kind, analytics.KindListingView)
	}
	if lead.AgentID != "agent-1" || lead.ClientID != "client-1" {
		t.Errorf("lead = %+v, want agent-1/client-1", lead)
	}
}

type capturingRecorder struct {
	events []analytics.LeadEvent
}

func (r *capturingRecorder) Record(_ context.Context, event analytics.LeadEvent) error {
	r.events = append(r.events, event)
	return nil
}

func TestListListingsParamsNormalize(t *testing.T) {
	tests := []struct {
		name       string
		params     ListListingsParams
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults applied", ListListingsParams{}, 1, 20, 0},
		{"page size capped", ListListingsParams{Page: 2, PageSize: 500}, 2, 100, 100},
		{"negative page reset", ListListingsParams{Page: -3, PageSize: 10}, 1, 10, 0},
		{"plain paging", ListListingsParams{Page: 3, PageSize: 25}, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Normalize()

			if tt.params.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.params.Page, tt.wantPage)
			}
			if tt.params.PageSize != tt.wantSize {
				t.Errorf("PageSize = %d, want %d", tt.params.PageSize, tt.wantSize)
			}
			if got := tt.params.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
		})
	}
}
