// AngelaMos | 2026
// handler.go

package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{listingID}", h.Get)
	})

	r.Get("/agents/{agentID}/listings", h.ListByAgent)
}

// Create publishes a listing, subject to the agent's entitlement. A
// denial returns the fixed upgrade guidance rather than an error body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, decision, err := h.service.Publish(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, decision.Reason)
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "agent")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CreateListingResponse{
		Listing:           ToListingResponse(created),
		EntitlementSource: string(decision.Source),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	clientID := middleware.GetClientID(r.Context())

	found, err := h.service.Get(r.Context(), listingID, clientID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "listing")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListingResponse(found))
}

func (h *Handler) ListByAgent(w http.ResponseWriter, r *http.Request) {
	params := ListListingsParams{
		AgentID:  chi.URLParam(r, "agentID"),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	listings, total, err := h.service.ListByAgent(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToListingResponseList(listings),
		params.Page,
		params.PageSize,
		total,
	)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
