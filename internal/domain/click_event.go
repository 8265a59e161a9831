package domain

import "time"

// Click event types. The set is closed: a click is either a related-search
// tile on the landing page or a result entry on a results page.
const (
	EventRelatedSearch = "related_search"
	EventResult        = "result"
)

// ValidEventType reports whether t is one of the known click event types.
func ValidEventType(t string) bool {
	return t == EventRelatedSearch || t == EventResult
}

// ClickEvent is one immutable ledger entry for a user interaction.
// Events are appended exactly once and never mutated or deleted; the
// unique-click figure for a session is always derived from these rows.
type ClickEvent struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"session_id"`
	EventType  string      `json:"event_type"`
	SearchTerm string      `json:"search_term,omitempty"`
	TargetURL  string      `json:"target_url,omitempty"`
	Env        EnvSnapshot `json:"env"`
	OccurredAt time.Time   `json:"occurred_at"`
}
