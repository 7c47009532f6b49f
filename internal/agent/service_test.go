// AngelaMos | 2026
// service_test.go

package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/carterperez-dev/rently/internal/analytics"
	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/notify"
	"github.com/carterperez-dev/rently/internal/referral"
)

const trialDuration = 30 * 24 * time.Hour

type fakeRepository struct {
	byID           map[string]Agent
	statusUpdates  map[string]string
	failStatusSave bool
	failCreate     bool
}

func newFakeRepository(agents ...Agent) *fakeRepository {
	repo := &fakeRepository{
		byID:          make(map[string]Agent),
		statusUpdates: make(map[string]string),
	}
	for _, a := range agents {
		repo.byID[a.ID] = a
	}
	return repo
}

func (r *fakeRepository) Create(_ context.Context, agent *Agent) error {
	if r.failCreate {
		return errors.New("storage down")
	}
	for _, existing := range r.byID {
		if existing.Email == agent.Email {
			return fmt.Errorf("create agent: %w", core.ErrDuplicateKey)
		}
	}
	r.byID[agent.ID] = *agent
	return nil
}

// CreateWithReferral mirrors the transactional pairing: either both the
// insert and the credit land, or neither does.
func (r *fakeRepository) CreateWithReferral(
	ctx context.Context,
	agent *Agent,
	referrerID string,
) error {
	referrer, ok := r.byID[referrerID]
	if !ok {
		return fmt.Errorf("credit referrer: %w", core.ErrNotFound)
	}

	if err := r.Create(ctx, agent); err != nil {
		return err
	}

	referrer.ReferralCount++
	referrer.FreeListingsEarned++
	r.byID[referrerID] = referrer
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*Agent, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get agent: %w", core.ErrNotFound)
	}
	return &a, nil
}

func (r *fakeRepository) GetByReferralCode(_ context.Context, code string) (*Agent, error) {
	for _, a := range r.byID {
		if a.ReferralCode == code {
			found := a
			return &found, nil
		}
	}
	return nil, fmt.Errorf("get agent by referral code: %w", core.ErrNotFound)
}

func (r *fakeRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) ExistsByReferralCode(_ context.Context, code string) (bool, error) {
	for _, a := range r.byID {
		if a.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) UpdateStatus(_ context.Context, id, status string) error {
	if r.failStatusSave {
		return errors.New("storage down")
	}
	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("update agent status: %w", core.ErrNotFound)
	}
	a.Status = status
	r.byID[id] = a
	r.statusUpdates[id] = status
	return nil
}

func (r *fakeRepository) UpdateSubscription(_ context.Context, agent *Agent) error {
	if _, ok := r.byID[agent.ID]; !ok {
		return fmt.Errorf("update subscription: %w", core.ErrNotFound)
	}
	r.byID[agent.ID] = *agent
	return nil
}

func (r *fakeRepository) ConsumeListingCredit(_ context.Context, id string) error {
	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("consume listing credit: %w", core.ErrNotFound)
	}
	if a.FreeListingsEarned <= a.FreeListingsUsed {
		return fmt.Errorf("consume listing credit: %w", core.ErrNoCredit)
	}
	a.FreeListingsUsed++
	r.byID[id] = a
	return nil
}

type capturingNotifier struct {
	events []notify.Event
}

func (n *capturingNotifier) Emit(_ context.Context, event notify.Event) error {
	n.events = append(n.events, event)
	return nil
}

func newTestService(repo *fakeRepository) (*Service, *capturingNotifier) {
	notifier := &capturingNotifier{}
	svc := NewService(
		repo,
		core.FixedClock{Instant: t0},
		notifier,
		analytics.NopRecorder{},
		trialDuration,
	)
	return svc, notifier
}

func TestRegister(t *testing.T) {
	t.Run("starts a thirty day trial", func(t *testing.T) {
		repo := newFakeRepository()
		svc, _ := newTestService(repo)

		created, err := svc.Register(context.Background(), RegisterAgentRequest{
			Name:  "John Smith",
			Email: "John.Smith@Example.com",
			Phone: "+1-555-0100",
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		if created.Status != StatusTrial {
			t.Errorf("Status = %q, want %q", created.Status, StatusTrial)
		}
		if !created.TrialExpiresAt.Equal(t0.Add(trialDuration)) {
			t.Errorf("TrialExpiresAt = %v, want %v", created.TrialExpiresAt, t0.Add(trialDuration))
		}
		if created.Email != "john.smith@example.com" {
			t.Errorf("Email = %q, want lowercased", created.Email)
		}
		if !referral.IsValidCode(created.ReferralCode) {
			t.Errorf("ReferralCode = %q, not a valid code", created.ReferralCode)
		}
		if created.ReferredBy != nil {
			t.Error("ReferredBy set without a referral code")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := newFakeRepository(Agent{ID: "existing", Email: "taken@example.com"})
		svc, _ := newTestService(repo)

		_, err := svc.Register(context.Background(), RegisterAgentRequest{
			Name:  "Someone Else",
			Email: "Taken@Example.com",
		})
		if !errors.Is(err, core.ErrDuplicateKey) {
			t.Errorf("err = %v, want ErrDuplicateKey", err)
		}
	})

	t.Run("referral code credits and notifies the referrer", func(t *testing.T) {
		referrer := Agent{
			ID:           "referrer-1",
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			ReferralCode: "JANEJANEA1B2",
		}
		repo := newFakeRepository(referrer)
		svc, notifier := newTestService(repo)

		created, err := svc.Register(context.Background(), RegisterAgentRequest{
			Name:         "John Smith",
			Email:        "john@example.com",
			ReferralCode: "janejanea1b2",
		})
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		if created.ReferredBy == nil || *created.ReferredBy != referrer.ID {
			t.Errorf("ReferredBy = %v, want %q", created.ReferredBy, referrer.ID)
		}

		credited := repo.byID[referrer.ID]
		if credited.ReferralCount != 1 {
			t.Errorf("ReferralCount = %d, want 1", credited.ReferralCount)
		}
		if credited.FreeListingsEarned != 1 {
			t.Errorf("FreeListingsEarned = %d, want 1", credited.FreeListingsEarned)
		}

		if len(notifier.events) != 1 {
			t.Fatalf("got %d events, want 1", len(notifier.events))
		}
		if notifier.events[0].Kind != notify.KindReferralEarned {
			t.Errorf("event kind = %q, want %q", notifier.events[0].Kind, notify.KindReferralEarned)
		}
		if notifier.events[0].RecipientAgentID != referrer.ID {
			t.Errorf("recipient = %q, want %q", notifier.events[0].RecipientAgentID, referrer.ID)
		}
	})

	t.Run("unknown referral code is ignored", func(t *testing.T) {
		repo := newFakeRepository()
		svc, notifier := newTestService(repo)

		created, err := svc.Register(context.Background(), RegisterAgentRequest{
			Name:         "John Smith",
			Email:        "john@example.com",
			ReferralCode: "ZZZZZZZZZZZZ",
		})
		if err != nil {
			t.Fatalf("register must not fail on an unknown code: %v", err)
		}
		if created.ReferredBy != nil {
			t.Error("ReferredBy set for an unknown code")
		}
		if len(notifier.events) != 0 {
			t.Errorf("unexpected events: %+v", notifier.events)
		}
	})

	t.Run("failed signup never credits the referrer", func(t *testing.T) {
		referrer := Agent{
			ID:           "referrer-1",
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			ReferralCode: "JANEJANEA1B2",
		}
		repo := newFakeRepository(referrer)
		repo.failCreate = true
		svc, notifier := newTestService(repo)

		_, err := svc.Register(context.Background(), RegisterAgentRequest{
			Name:         "John Smith",
			Email:        "john@example.com",
			ReferralCode: referrer.ReferralCode,
		})
		if err == nil {
			t.Fatal("expected the registration to fail")
		}

		untouched := repo.byID[referrer.ID]
		if untouched.ReferralCount != 0 || untouched.FreeListingsEarned != 0 {
			t.Errorf("referrer credited despite failed signup: %+v", untouched)
		}
		if len(notifier.events) != 0 {
			t.Errorf("notification emitted despite failed signup: %+v", notifier.events)
		}
	})

	t.Run("malformed referral code is ignored", func(t *testing.T) {
		repo := newFakeRepository()
		svc, _ := newTestService(repo)

		created, err := svc.Register(context.Background(), RegisterAgentRequest{
			Name:         "John Smith",
			Email:        "john@example.com",
			ReferralCode: "abc123",
		})
		if err != nil {
			t.Fatalf("register must not fail on a malformed code: %v", err)
		}
		if created.ReferredBy != nil {
			t.Error("ReferredBy set for a malformed code")
		}
	})
}

func TestGetByIDNormalizesStaleTrial(t *testing.T) {
	stale := Agent{
		ID:             "agent-1",
		Status:         StatusTrial,
		TrialExpiresAt: t0.Add(-time.Hour),
	}

	t.Run("expiry discovered on read is persisted", func(t *testing.T) {
		repo := newFakeRepository(stale)
		svc, _ := newTestService(repo)

		got, err := svc.GetByID(context.Background(), "agent-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != StatusTrialExpired {
			t.Errorf("Status = %q, want %q", got.Status, StatusTrialExpired)
		}
		if repo.statusUpdates["agent-1"] != StatusTrialExpired {
			t.Error("expiry was not written back")
		}
	})

	t.Run("read succeeds even when the write-back fails", func(t *testing.T) {
		repo := newFakeRepository(stale)
		repo.failStatusSave = true
		svc, _ := newTestService(repo)

		got, err := svc.GetByID(context.Background(), "agent-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != StatusTrialExpired {
			t.Errorf("Status = %q, want %q", got.Status, StatusTrialExpired)
		}
	})

	t.Run("live trial left untouched", func(t *testing.T) {
		repo := newFakeRepository(Agent{
			ID:             "agent-2",
			Status:         StatusTrial,
			TrialExpiresAt: t0.Add(time.Hour),
		})
		svc, _ := newTestService(repo)

		got, err := svc.GetByID(context.Background(), "agent-2")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Status != StatusTrial {
			t.Errorf("Status = %q, want %q", got.Status, StatusTrial)
		}
		if len(repo.statusUpdates) != 0 {
			t.Errorf("unexpected write-backs: %+v", repo.statusUpdates)
		}
	})
}

func TestActivateSubscription(t *testing.T) {
	t.Run("expired trial upgraded to active", func(t *testing.T) {
		repo := newFakeRepository(Agent{
			ID:             "agent-1",
			Status:         StatusTrialExpired,
			TrialExpiresAt: t0.Add(-time.Hour),
		})
		svc, _ := newTestService(repo)

		got, err := svc.ActivateSubscription(context.Background(), "agent-1", ActivateSubscriptionRequest{
			Plan:   PlanPremium,
			Months: 3,
		})
		if err != nil {
			t.Fatalf("activate: %v", err)
		}

		if got.Status != StatusActive {
			t.Errorf("Status = %q, want %q", got.Status, StatusActive)
		}
		if got.SubscriptionPlan == nil || *got.SubscriptionPlan != PlanPremium {
			t.Errorf("SubscriptionPlan = %v, want %q", got.SubscriptionPlan, PlanPremium)
		}
		wantExpiry := t0.AddDate(0, 3, 0)
		if got.SubscriptionExpiry == nil || !got.SubscriptionExpiry.Equal(wantExpiry) {
			t.Errorf("SubscriptionExpiry = %v, want %v", got.SubscriptionExpiry, wantExpiry)
		}
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		repo := newFakeRepository(Agent{ID: "agent-1"})
		svc, _ := newTestService(repo)

		_, err := svc.ActivateSubscription(context.Background(), "agent-1", ActivateSubscriptionRequest{
			Plan:   "platinum",
			Months: 1,
		})
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestResolveReferralCode(t *testing.T) {
	owner := Agent{ID: "referrer-1", ReferralCode: "JANEJANEA1B2"}

	t.Run("known code resolves its owner", func(t *testing.T) {
		repo := newFakeRepository(owner)
		svc, _ := newTestService(repo)

		got, err := svc.ResolveReferralCode(context.Background(), " janejanea1b2 ", "client-1")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got.ID != owner.ID {
			t.Errorf("ID = %q, want %q", got.ID, owner.ID)
		}
	})

	t.Run("malformed code maps to not found", func(t *testing.T) {
		repo := newFakeRepository(owner)
		svc, _ := newTestService(repo)

		if _, err := svc.ResolveReferralCode(context.Background(), "nope", "client-1"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown code maps to not found", func(t *testing.T) {
		repo := newFakeRepository(owner)
		svc, _ := newTestService(repo)

		if _, err := svc.ResolveReferralCode(context.Background(), "ZZZZZZZZZZZZ", "client-1"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}
