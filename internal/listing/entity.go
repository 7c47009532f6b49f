// AngelaMos | 2026
// entity.go

package listing

import (
	"time"
)

type Listing struct {
	ID          string    `db:"id"`
	AgentID     string    `db:"agent_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Address     string    `db:"address"`
	MonthlyRent int64     `db:"monthly_rent"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
