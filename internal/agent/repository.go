// AngelaMos | 2026
// repository.go

package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/rently/internal/core"
)

type Repository interface {
	Create(ctx context.Context, agent *Agent) error
	CreateWithReferral(ctx context.Context, agent *Agent, referrerID string) error
	GetByID(ctx context.Context, id string) (*Agent, error)
	GetByReferralCode(ctx context.Context, code string) (*Agent, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateSubscription(ctx context.Context, agent *Agent) error
	ConsumeListingCredit(ctx context.Context, id string) error
}

// The concrete repository holds *sqlx.DB rather than core.DBTX because
// CreateWithReferral opens its own transaction.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const agentColumns = `
	id, name, email, phone, status, trial_expires_at,
	subscription_plan, subscription_expiry,
	referral_code, referred_by, referral_count,
	free_listings_earned, free_listings_used,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, agent *Agent) error {
	if err := insertAgent(ctx, r.db, agent); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create agent: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create agent: %w", err)
	}

	return nil
}

// CreateWithReferral inserts the agent and credits the referrer in one
// transaction, so a signup can never land without its referral credit
// or vice versa.
func (r *repository) CreateWithReferral(
	ctx context.Context,
	agent *Agent,
	referrerID string,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAgent(ctx, tx, agent); err != nil {
			return err
		}

		credit := `
			UPDATE agents
			SET referral_count = referral_count + 1,
			    free_listings_earned = free_listings_earned + 1,
			    updated_at = NOW()
			WHERE id = $1`

		result, err := tx.ExecContext(ctx, credit, referrerID)
		if err != nil {
			return fmt.Errorf("credit referrer: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("credit referrer: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("credit referrer: %w", core.ErrNotFound)
		}

		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create agent: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create agent with referral: %w", err)
	}

	return nil
}

func insertAgent(ctx context.Context, db core.DBTX, agent *Agent) error {
	query := `
		INSERT INTO agents (
			id, name, email, phone, status, trial_expires_at,
			referral_code, referred_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return db.GetContext(ctx, agent, query,
		agent.ID,
		agent.Name,
		agent.Email,
		agent.Phone,
		agent.Status,
		agent.TrialExpiresAt,
		agent.ReferralCode,
		agent.ReferredBy,
	)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents WHERE id = $1`

	var agent Agent
	err := r.db.GetContext(ctx, &agent, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get agent: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}

	return &agent, nil
}

func (r *repository) GetByReferralCode(
	ctx context.Context,
	code string,
) (*Agent, error) {
	query := `SELECT` + agentColumns + ` FROM agents WHERE referral_code = $1`

	var agent Agent
	err := r.db.GetContext(ctx, &agent, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get agent by referral code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get agent by referral code: %w", err)
	}

	return &agent, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM agents WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func (r *repository) ExistsByReferralCode(
	ctx context.Context,
	code string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM agents WHERE referral_code = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("check referral code exists: %w", err)
	}

	return exists, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE agents
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update agent status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update agent status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update agent status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdateSubscription(
	ctx context.Context,
	agent *Agent,
) error {
	query := `
		UPDATE agents
		SET status = $2, subscription_plan = $3, subscription_expiry = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &agent.UpdatedAt, query,
		agent.ID,
		agent.Status,
		agent.SubscriptionPlan,
		agent.SubscriptionExpiry,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	return nil
}

// ConsumeListingCredit spends exactly one earned credit. The guard in the
// WHERE clause makes concurrent over-spend impossible: the second of two
// racing consumers matches zero rows and gets ErrNoCredit.
func (r *repository) ConsumeListingCredit(ctx context.Context, id string) error {
	query := `
		UPDATE agents
		SET free_listings_used = free_listings_used + 1, updated_at = NOW()
		WHERE id = $1 AND free_listings_earned > free_listings_used`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("consume listing credit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume listing credit: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("consume listing credit: %w", core.ErrNoCredit)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
