// AngelaMos | 2026
// handler.go

package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/agents", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/{agentID}", h.GetAgent)
		r.Put("/{agentID}/subscription", h.ActivateSubscription)
		r.Get("/{agentID}/referrals", h.GetReferralStats)
	})

	r.Get("/referrals/{code}", h.ResolveReferralCode)
}

// Register creates a trial agent account. A referral code may be
// supplied; an invalid one never fails the registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "an agent with this email already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToAgentResponse(created, h.service.Clock().Now()))
}

func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	found, err := h.service.GetByID(r.Context(), agentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "agent")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAgentResponse(found, h.service.Clock().Now()))
}

func (h *Handler) ActivateSubscription(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	var req ActivateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.ActivateSubscription(r.Context(), agentID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "agent")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "invalid subscription plan")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToAgentResponse(updated, h.service.Clock().Now()))
}

func (h *Handler) GetReferralStats(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")

	found, err := h.service.ReferralStats(r.Context(), agentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "agent")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToReferralStats(found))
}

// ResolveReferralCode returns the agent behind a shared code so the
// registration form can show who referred the visitor.
func (h *Handler) ResolveReferralCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	clientID := middleware.GetClientID(r.Context())

	owner, err := h.service.ResolveReferralCode(r.Context(), code, clientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "referral code")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{
		"referral_code": owner.ReferralCode,
		"referrer_name": owner.Name,
	})
}
