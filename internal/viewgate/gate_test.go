// AngelaMos | 2026
// gate_test.go

package viewgate

import (
	"testing"
	"time"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCanReveal(t *testing.T) {
	tests := []struct {
		name   string
		record *ViewRecord
		limit  int
		want   bool
	}{
		{"no record yet", nil, 2, true},
		{"one view down", &ViewRecord{Count: 1}, 2, true},
		{"at the limit", &ViewRecord{Count: 2}, 2, false},
		{"past the limit", &ViewRecord{Count: 5}, 2, false},
		{"higher limit still open", &ViewRecord{Count: 2}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReveal(tt.record, tt.limit); got != tt.want {
				t.Errorf("CanReveal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCrossedLimit(t *testing.T) {
	tests := []struct {
		name  string
		count int
		limit int
		want  bool
	}{
		{"first reveal below the limit", 1, 2, false},
		{"second reveal lands on the limit", 2, 2, true},
		{"past the limit never nudges again", 3, 2, false},
		{"limit of one nudges on the first reveal", 1, 1, true},
		{"higher limit not yet reached", 2, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CrossedLimit(tt.count, tt.limit); got != tt.want {
				t.Errorf("CrossedLimit(%d, %d) = %v, want %v", tt.count, tt.limit, got, tt.want)
			}
		})
	}
}
