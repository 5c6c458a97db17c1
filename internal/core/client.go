package core

// State tracks where a connection is in its lifecycle. Transitions are
// applied only by the hub goroutine.
type State int

const (
	// StateAnonymous is a connected client that has not declared identity.
	StateAnonymous State = iota
	// StateIdentified has declared identity but joined no room yet.
	StateIdentified
	// StateActive is a member of a room and receives broadcasts.
	StateActive
)

// Client is one connection as seen by the core layer.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	state State
}

// NewClient constructs a client with initialized channels. queue bounds the
// outbound Events buffer; a slow consumer loses oldest events rather than
// stalling delivery to others.
func NewClient(id string, queue int) *Client {
	if queue <= 0 {
		queue = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, queue),
	}
}
