// AngelaMos | 2026
// dto.go

package agent

import (
	"time"
)

type RegisterAgentRequest struct {
	Name         string `json:"name"          validate:"required,min=1,max=100"`
	Email        string `json:"email"         validate:"required,email,max=255"`
	Phone        string `json:"phone"         validate:"required,min=7,max=20"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=12"`
}

type ActivateSubscriptionRequest struct {
	Plan   string `json:"plan"   validate:"required,oneof=basic premium"`
	Months int    `json:"months" validate:"required,min=1,max=24"`
}

type AgentResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Status             string     `json:"status"`
	TrialExpiresAt     time.Time  `json:"trial_expires_at"`
	DaysRemaining      int        `json:"days_remaining"`
	SubscriptionPlan   *string    `json:"subscription_plan,omitempty"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry,omitempty"`
	ReferralCode       string     `json:"referral_code"`
	CreatedAt          time.Time  `json:"created_at"`
}

type ReferralStatsResponse struct {
	ReferralCode     string `json:"referral_code"`
	ReferralCount    int    `json:"referral_count"`
	CreditsEarned    int    `json:"credits_earned"`
	CreditsUsed      int    `json:"credits_used"`
	CreditsRemaining int    `json:"credits_remaining"`
}

func ToAgentResponse(a *Agent, now time.Time) AgentResponse {
	return AgentResponse{
		ID:                 a.ID,
		Name:               a.Name,
		Email:              a.Email,
		Status:             a.Status,
		TrialExpiresAt:     a.TrialExpiresAt,
		DaysRemaining:      DaysRemaining(a, now),
		SubscriptionPlan:   a.SubscriptionPlan,
		SubscriptionExpiry: a.SubscriptionExpiry,
		ReferralCode:       a.ReferralCode,
		CreatedAt:          a.CreatedAt,
	}
}

func ToReferralStats(a *Agent) ReferralStatsResponse {
	return ReferralStatsResponse{
		ReferralCode:     a.ReferralCode,
		ReferralCount:    a.ReferralCount,
		CreditsEarned:    a.FreeListingsEarned,
		CreditsUsed:      a.FreeListingsUsed,
		CreditsRemaining: a.FreeListingsEarned - a.FreeListingsUsed,
	}
}
