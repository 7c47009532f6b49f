// AngelaMos | 2026
// repository.go

package viewgate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/rently/internal/core"
)

type Repository interface {
	Get(ctx context.Context, clientID, agentID string) (*ViewRecord, error)
	Increment(ctx context.Context, clientID, agentID string, now time.Time) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Get returns nil, nil when the pair has no record yet.
func (r *repository) Get(
	ctx context.Context,
	clientID, agentID string,
) (*ViewRecord, error) {
	query := `
		SELECT client_id, agent_id, count, last_viewed_at
		FROM client_views
		WHERE client_id = $1 AND agent_id = $2`

	var record ViewRecord
	err := r.db.GetContext(ctx, &record, query, clientID, agentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get view record: %w", err)
	}

	return &record, nil
}

// Increment bumps the pair's count by one, creating the record on first
// reveal, and returns the new count. The relative update keeps the
// counter correct even across service instances.
func (r *repository) Increment(
	ctx context.Context,
	clientID, agentID string,
	now time.Time,
) (int, error) {
	query := `
		INSERT INTO client_views (client_id, agent_id, count, last_viewed_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (client_id, agent_id)
		DO UPDATE SET count = client_views.count + 1, last_viewed_at = $3
		RETURNING count`

	var count int
	err := r.db.GetContext(ctx, &count, query, clientID, agentID, now)
	if err != nil {
		return 0, fmt.Errorf("increment view record: %w", err)
	}

	return count, nil
}
