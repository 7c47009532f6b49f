// AngelaMos | 2026
// referral.go

package agent

// Referral attribution. Pure value-in, value-out: the service layer owns
// persistence, and the referrer's credit is applied inside the signup
// transaction by the repository.

// AttributeReferral links a freshly registered agent to the holder of the
// supplied referral code. An unknown or malformed code is a benign no-op;
// registration is never blocked by it. The lookup errs on absence with
// nil, nil.
func AttributeReferral(
	newAgent Agent,
	code string,
	lookup func(code string) (*Agent, error),
) (*Agent, Agent, error) {
	if code == "" {
		return nil, newAgent, nil
	}

	referrer, err := lookup(code)
	if err != nil {
		return nil, newAgent, err
	}

	if referrer == nil {
		return nil, newAgent, nil
	}

	referrerID := referrer.ID
	newAgent.ReferredBy = &referrerID

	return referrer, newAgent, nil
}
