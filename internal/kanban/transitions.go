// Package kanban implements the application tracker board.
//
// Valid status graph:
//
//	saved ──► draft ──► applied ──► interview ──► offer
//	  │         │          │            │
//	  └─────────┴──────────┴────────────┴──► rejected
//
// offer and rejected are terminal states.
package kanban

import "fmt"

// Status values mirror the status check constraint on tracker_cards.
type Status string

const (
	StatusSaved     Status = "saved"
	StatusDraft     Status = "draft"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

// Column is a board column as rendered by clients.
type Column struct {
	ID    Status `json:"id"`
	Title string `json:"title"`
}

// Columns lists the board columns in display order.
var Columns = []Column{
	{ID: StatusSaved, Title: "Saved"},
	{ID: StatusDraft, Title: "Drafting"},
	{ID: StatusApplied, Title: "Applied"},
	{ID: StatusInterview, Title: "Interview"},
	{ID: StatusOffer, Title: "Offer"},
	{ID: StatusRejected, Title: "Rejected"},
}

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusSaved:     {StatusDraft, StatusRejected},
	StatusDraft:     {StatusApplied, StatusRejected},
	StatusApplied:   {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	// offer and rejected are terminal
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusSaved, StatusDraft, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown card status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no card can leave s.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
