package kanban_test

// ── Additional edge-case tests ────────────────────────────────────────────
//
// The core state-machine matrix is covered in transitions_test.go; these
// pin down parsing strictness and the board column list.

import (
	"testing"

	"biocareer/opportunity-service/internal/kanban"
)

// ParseStatus must be case-sensitive: upper-case variants must not be valid.
func TestParseStatus_CaseSensitive(t *testing.T) {
	upper := []string{"SAVED", "Draft", "APPLIED", "Interview", "OFFER", "REJECTED"}
	for _, s := range upper {
		if _, err := kanban.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should reject non-lowercase value, got nil error", s)
		}
	}
}

// ParseStatus must reject whitespace-padded strings.
func TestParseStatus_WithWhitespace(t *testing.T) {
	padded := []string{" applied", "applied ", " applied "}
	for _, s := range padded {
		if _, err := kanban.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) should reject padded value, got nil error", s)
		}
	}
}

// Every column must be a parseable status, listed once, in board order.
func TestColumns_MatchStatuses(t *testing.T) {
	if len(kanban.Columns) != len(allStatuses) {
		t.Fatalf("len(Columns) = %d, want %d", len(kanban.Columns), len(allStatuses))
	}
	for i, col := range kanban.Columns {
		if col.ID != allStatuses[i] {
			t.Errorf("Columns[%d] = %s, want %s", i, col.ID, allStatuses[i])
		}
		if col.Title == "" {
			t.Errorf("Columns[%d] has no title", i)
		}
		if _, err := kanban.ParseStatus(string(col.ID)); err != nil {
			t.Errorf("column %s is not a valid status: %v", col.ID, err)
		}
	}
}

// saved is the mandatory initial state for any new card.
// Verify it is never reachable from any other state.
func TestIsTransitionAllowed_SavedIsNeverReachable(t *testing.T) {
	for _, from := range allStatuses {
		if kanban.IsTransitionAllowed(from, kanban.StatusSaved) {
			t.Errorf(
				"IsTransitionAllowed(%s → saved) must be false: saved is only an initial state",
				from,
			)
		}
	}
}

// Every non-terminal state must reach offer through forward moves only.
func TestIsTransitionAllowed_HappyPathReachesOffer(t *testing.T) {
	path := []kanban.Status{
		kanban.StatusSaved, kanban.StatusDraft, kanban.StatusApplied,
		kanban.StatusInterview, kanban.StatusOffer,
	}
	for i := 0; i+1 < len(path); i++ {
		if !kanban.IsTransitionAllowed(path[i], path[i+1]) {
			t.Errorf("happy path broken at %s → %s", path[i], path[i+1])
		}
	}
}
