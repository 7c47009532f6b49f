// AngelaMos | 2026
// gate.go

package viewgate

import (
	"time"
)

// ViewRecord counts contact reveals for one (client, agent) pair. Created
// lazily on the first reveal; Count only ever grows.
type ViewRecord struct {
	ClientID     string    `db:"client_id"`
	AgentID      string    `db:"agent_id"`
	Count        int       `db:"count"`
	LastViewedAt time.Time `db:"last_viewed_at"`
}

// DefaultRevealLimit is the two-strikes rule for trial-tier agents.
const DefaultRevealLimit = 2

// CanReveal reports whether the pair is still below the limit. A nil
// record means no reveal has happened yet.
func CanReveal(record *ViewRecord, limit int) bool {
	return record == nil || record.Count < limit
}

// CrossedLimit reports whether the reveal that produced count was the one
// that landed exactly on the limit. The nudge fires only on that single
// transition: not before it, and never again past it.
func CrossedLimit(count, limit int) bool {
	return count == limit
}
