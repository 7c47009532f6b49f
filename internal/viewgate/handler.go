// AngelaMos | 2026
// handler.go

package viewgate

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/agents/{agentID}/reveal", h.Reveal)
}

type revealResponse struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	RemainingViews *int   `json:"remaining_views,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
}

// Reveal exposes an agent's contact channel to the current visitor,
// subject to the trial-tier view limit.
func (h *Handler) Reveal(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")
	clientID := middleware.GetClientID(r.Context())

	if clientID == "" {
		core.BadRequest(w, "client identity unavailable")
		return
	}

	result, err := h.service.Reveal(r.Context(), clientID, agentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "agent")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := revealResponse{
		Allowed: result.Allowed,
		Reason:  result.Reason,
		Phone:   result.Phone,
		Email:   result.Email,
	}

	if result.Allowed && result.RemainingViews != UnlimitedViews {
		remaining := result.RemainingViews
		resp.RemainingViews = &remaining
	}

	if !result.Allowed {
		core.Forbidden(w, result.Reason)
		return
	}

	core.OK(w, resp)
}
