package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventSnapshot carries a message plus the full current roster.
	EventSnapshot EventKind = iota
	// EventError notifies the originating client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Snapshot *Snapshot
	Error    *CoreError
}

// Snapshot is the outbound payload broadcast on every state-changing event.
// Rooms and Users always reflect the complete registry at emission time,
// never a delta scoped to the triggering room.
type Snapshot struct {
	Room        string
	SenderName  string
	SenderToken string
	Text        string
	Rooms       []string
	Users       []string
}
