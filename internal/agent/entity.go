// AngelaMos | 2026
// entity.go

package agent

import (
	"time"
)

// Agent is a property agent account. Status alone is not authoritative:
// a stored "trial" with an expired TrialExpiresAt is stale and must go
// through NormalizeStatus before being trusted.
type Agent struct {
	ID                 string     `db:"id"`
	Name               string     `db:"name"`
	Email              string     `db:"email"`
	Phone              string     `db:"phone"`
	Status             string     `db:"status"`
	TrialExpiresAt     time.Time  `db:"trial_expires_at"`
	SubscriptionPlan   *string    `db:"subscription_plan"`
	SubscriptionExpiry *time.Time `db:"subscription_expiry"`
	ReferralCode       string     `db:"referral_code"`
	ReferredBy         *string    `db:"referred_by"`
	ReferralCount      int        `db:"referral_count"`
	FreeListingsEarned int        `db:"free_listings_earned"`
	FreeListingsUsed   int        `db:"free_listings_used"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

const (
	StatusTrial        = "trial"
	StatusActive       = "active"
	StatusTrialExpired = "trial_expired"
)

const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

func (a *Agent) IsActive() bool {
	return a.Status == StatusActive
}

// HasReferralCredit reports whether at least one earned free-listing
// credit has not yet been spent.
func (a *Agent) HasReferralCredit() bool {
	return a.FreeListingsEarned > a.FreeListingsUsed
}

// HasValidSubscription reports whether a paid plan is on record and has
// not lapsed as of now.
func (a *Agent) HasValidSubscription(now time.Time) bool {
	return a.SubscriptionPlan != nil &&
		a.SubscriptionExpiry != nil &&
		a.SubscriptionExpiry.After(now)
}
