// AngelaMos | 2026
// repository.go

package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/rently/internal/core"
)

type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id string) (*Listing, error)
	ListByAgent(ctx context.Context, params ListListingsParams) ([]Listing, int, error)
	CountByAgent(ctx context.Context, agentID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, listing *Listing) error {
	query := `
		INSERT INTO listings (id, agent_id, title, description, address, monthly_rent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, listing, query,
		listing.ID,
		listing.AgentID,
		listing.Title,
		listing.Description,
		listing.Address,
		listing.MonthlyRent,
	)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	query := `
		SELECT id, agent_id, title, description, address, monthly_rent,
		       created_at, updated_at
		FROM listings
		WHERE id = $1`

	var listing Listing
	err := r.db.GetContext(ctx, &listing, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	return &listing, nil
}

func (r *repository) ListByAgent(
	ctx context.Context,
	params ListListingsParams,
) ([]Listing, int, error) {
	params.Normalize()

	total, err := r.CountByAgent(ctx, params.AgentID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, agent_id, title, description, address, monthly_rent,
		       created_at, updated_at
		FROM listings
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var listings []Listing
	err = r.db.SelectContext(ctx, &listings, query,
		params.AgentID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}

	return listings, total, nil
}

func (r *repository) CountByAgent(
	ctx context.Context,
	agentID string,
) (int, error) {
	query := `SELECT COUNT(*) FROM listings WHERE agent_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, query, agentID); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}

	return total, nil
}
