// internal/types/interfaces.go
package types

import "context"

// EventSource supplies the ordered event snapshot for a session. Snapshots
// are append-only across calls within one conversation: no event is ever
// reordered or retracted once delivered.
type EventSource interface {
	Snapshot(ctx context.Context, id SessionID) ([]*Event, error)
	Count(ctx context.Context, id SessionID) (int64, error)
}

// SessionCatalog enumerates known sessions.
type SessionCatalog interface {
	List(ctx context.Context) ([]*SessionInfo, error)
	Get(ctx context.Context, id SessionID) (*SessionInfo, error)
}
