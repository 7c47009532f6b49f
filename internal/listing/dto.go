// AngelaMos | 2026
// dto.go

package listing

import (
	"time"
)

type CreateListingRequest struct {
	AgentID     string `json:"agent_id"     validate:"required,uuid4"`
	Title       string `json:"title"        validate:"required,min=1,max=200"`
	Description string `json:"description"  validate:"max=5000"`
	Address     string `json:"address"      validate:"required,min=1,max=500"`
	MonthlyRent int64  `json:"monthly_rent" validate:"required,min=1"`
}

type ListingResponse struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agent_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address"`
	MonthlyRent int64     `json:"monthly_rent"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateListingResponse carries which entitlement rule allowed the
// publish alongside the listing itself.
type CreateListingResponse struct {
	Listing           ListingResponse `json:"listing"`
	EntitlementSource string          `json:"entitlement_source"`
}

type ListListingsParams struct {
	AgentID  string
	Page     int
	PageSize int
}

func (p *ListListingsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListListingsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToListingResponse(l *Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		AgentID:     l.AgentID,
		Title:       l.Title,
		Description: l.Description,
		Address:     l.Address,
		MonthlyRent: l.MonthlyRent,
		CreatedAt:   l.CreatedAt,
	}
}

func ToListingResponseList(listings []Listing) []ListingResponse {
	responses := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		responses = append(responses, ToListingResponse(&l))
	}
	return responses
}
