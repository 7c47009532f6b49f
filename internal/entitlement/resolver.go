// AngelaMos | 2026
// resolver.go

package entitlement

import (
	"time"

	"github.com/carterperez-dev/rently/internal/agent"
)

// Source names which entitlement rule allowed a publish.
type Source string

const (
	SourceTrial          Source = "trial"
	SourceSubscription   Source = "subscription"
	SourceReferralCredit Source = "referral_credit"
	SourceNone           Source = ""
)

// DenialReason is the fixed user-facing guidance for a denied publish.
// A denial is a normal decision, not an error.
const DenialReason = "trial expired; upgrade or earn referral credits to continue"

type Decision struct {
	Allowed bool
	Source  Source
	Reason  string
}

// NeedsCredit reports whether the caller must consume one referral credit
// before acting on this decision. Requiring the decision as input to the
// consuming step keeps the check itself safely repeatable.
func (d Decision) NeedsCredit() bool {
	return d.Allowed && d.Source == SourceReferralCredit
}

// Resolve answers whether the agent may publish a new listing right now.
// Fixed precedence, first match wins: active trial, then live
// subscription, then an unspent referral credit. Nothing is mutated here;
// credit consumption is the caller's separate write.
func Resolve(a *agent.Agent, now time.Time) Decision {
	if agent.IsInTrial(a, now) {
		return Decision{Allowed: true, Source: SourceTrial}
	}

	if a.HasValidSubscription(now) {
		return Decision{Allowed: true, Source: SourceSubscription}
	}

	if a.HasReferralCredit() {
		return Decision{Allowed: true, Source: SourceReferralCredit}
	}

	return Decision{Allowed: false, Source: SourceNone, Reason: DenialReason}
}
