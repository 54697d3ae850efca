package session

import "time"

// DialogState identifies which dialogue, if any, currently owns a user's input.
type DialogState int

const (
	// StateIdle means no dialogue is active; only entry-point commands apply.
	StateIdle DialogState = iota
	// StateCollecting means the data collection dialogue is accepting entries.
	StateCollecting
	// StateAwaitingQuery means the search dialogue is waiting for a query string.
	StateAwaitingQuery
)

// String returns a short label for log fields.
func (s DialogState) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateAwaitingQuery:
		return "awaiting_query"
	default:
		return "idle"
	}
}

// Session captures one user's transient conversation state. It lives only in
// memory; a process restart drops every in-flight session.
type Session struct {
	ID             string
	UserID         int64
	State          DialogState
	PendingEntries []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
