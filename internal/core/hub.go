package core

import (
	"context"

	"github.com/rs/zerolog"

	"roomcast/internal/content"
)

// SystemSender is the identity used for server-generated announcements.
const SystemSender = "Chatbot"

type submission struct {
	client *Client
	cmd    *Command
}

// Hub is the broadcast coordinator. A single goroutine owns the room
// registry and participant directory; every event is applied and the
// resulting snapshot computed inside one loop iteration, so no broadcast
// can ever observe a partially-applied event.
type Hub struct {
	registry  *Registry
	directory *Directory
	clients   map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	inbound    chan submission
	done       chan struct{}

	log *zerolog.Logger
}

// NewHub creates a hub with the default room pre-seeded.
func NewHub(defaultRoom string, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(defaultRoom),
		directory:  NewDirectory(),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan submission),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a closed connection; the participant leaves all
// rooms and the departure is announced.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run processes events until the context is cancelled. Call exactly once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			go h.pump(ctx, c)
			h.log.Debug().Str("client_id", c.ID).Msg("client connected")
		case c := <-h.unregister:
			h.dropClient(c)
		case sub := <-h.inbound:
			h.handle(sub.client, sub.cmd)
		}
	}
}

// pump serializes one connection's commands into the hub loop, preserving
// per-connection FIFO order.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbound <- submission{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handle(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	// A command can still be in flight when its connection unregisters;
	// applying it would resurrect a participant no close path can remove.
	if _, ok := h.clients[c]; !ok {
		h.log.Debug().Str("client_id", c.ID).Msg("command from closed connection dropped")
		return
	}
	switch cmd.Kind {
	case CommandRegister:
		h.handleRegister(c, cmd)
	case CommandCreateRoom:
		h.handleCreateRoom(c, cmd)
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandPostMessage:
		h.handlePost(c, cmd)
	default:
		h.log.Warn().Str("client_id", c.ID).Int("kind", int(cmd.Kind)).Msg("unknown command dropped")
	}
}

func (h *Hub) handleRegister(c *Client, cmd *Command) {
	p, cerr := h.directory.Register(c, cmd.Name, cmd.Token)
	if cerr != nil {
		h.deliverError(c, cerr)
		return
	}
	if c.state == StateAnonymous {
		c.state = StateIdentified
	}
	h.log.Info().Str("client_id", c.ID).Str("user", p.DisplayName).Msg("participant identified")
}

func (h *Hub) handleCreateRoom(c *Client, cmd *Command) {
	if _, ok := h.directory.Lookup(c); !ok {
		h.deliverError(c, coreError(ErrCodeNotIdentified, "create user first"))
		return
	}
	if cmd.Room == "" {
		h.deliverError(c, coreError(ErrCodeValidation, "room is required"))
		return
	}
	if _, exists := h.registry.Lookup(cmd.Room); exists {
		h.log.Debug().Str("room", cmd.Room).Msg("room already exists")
		return
	}
	h.registry.Ensure(cmd.Room)
	h.log.Info().Str("client_id", c.ID).Str("room", cmd.Room).Msg("room created")
	// Fan out so every roster shows the new name before anyone joins it.
	h.announce(cmd.Room, "<b>"+content.Escape(cmd.Room)+"</b> has been created.")
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	p, ok := h.directory.Lookup(c)
	if !ok {
		h.deliverError(c, coreError(ErrCodeNotIdentified, "create user first"))
		return
	}
	if cmd.Room == "" {
		h.deliverError(c, coreError(ErrCodeValidation, "room is required"))
		return
	}
	if cur, in := h.registry.RoomOf(p); in {
		if cur.Name == cmd.Room {
			h.log.Debug().Str("user", p.DisplayName).Str("room", cmd.Room).Msg("already in room")
			return
		}
		h.registry.RemoveMember(p)
		h.announce(cur.Name, "<b>"+content.Escape(p.DisplayName)+"</b> has left the chat.")
	}
	room := h.registry.Ensure(cmd.Room)
	h.registry.AddMember(cmd.Room, p)
	c.state = StateActive
	h.log.Info().Str("user", p.DisplayName).Str("room", room.Name).Int("members", room.Len()).Msg("participant joined room")
	h.announce(cmd.Room, "<b>"+content.Escape(p.DisplayName)+"</b> has joined the chat.")
}

func (h *Hub) handlePost(c *Client, cmd *Command) {
	p, ok := h.directory.Lookup(c)
	if !ok {
		h.deliverError(c, coreError(ErrCodeNotIdentified, "create user first"))
		return
	}
	if cmd.Text == "" {
		// Empty messages are dropped with no broadcast and no state change.
		h.log.Debug().Str("user", p.DisplayName).Msg("empty message dropped")
		return
	}
	cur, in := h.registry.RoomOf(p)
	if !in || cur.Name != cmd.Room {
		h.deliverError(c, coreError(ErrCodeNotInRoom, "join the room first"))
		return
	}
	h.broadcast(h.snapshot(cmd.Room, p.DisplayName, p.ContactToken, cmd.Text))
}

func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	p, ok := h.directory.Lookup(c)
	if !ok {
		return
	}
	room, in := h.registry.RoomOf(p)
	h.directory.Remove(c)
	if in {
		h.registry.RemoveMember(p)
		h.log.Info().Str("user", p.DisplayName).Str("room", room.Name).Msg("participant disconnected")
		h.announce(room.Name, "<b>"+content.Escape(p.DisplayName)+"</b> has left the chat.")
	}
}

// snapshot reads the registry once, immediately after the triggering
// mutation, so the roster lists are always internally consistent.
func (h *Hub) snapshot(room, sender, token, text string) *Snapshot {
	return &Snapshot{
		Room:        room,
		SenderName:  sender,
		SenderToken: token,
		Text:        text,
		Rooms:       h.registry.RoomNames(),
		Users:       h.registry.ParticipantNames(),
	}
}

func (h *Hub) announce(room, text string) {
	h.broadcast(h.snapshot(room, SystemSender, SystemSender, text))
}

// broadcast fans a snapshot out to every connection whose participant is a
// member of any room.
func (h *Hub) broadcast(snap *Snapshot) {
	ev := &Event{Kind: EventSnapshot, Snapshot: snap}
	for c := range h.clients {
		if c.state != StateActive {
			continue
		}
		h.deliver(c, ev)
	}
}

// deliver enqueues without blocking; on overflow the oldest queued event is
// dropped so the client converges on the freshest roster.
func (h *Hub) deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
		return
	default:
	}
	select {
	case <-c.Events:
	default:
	}
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("event dropped for slow client")
	}
}

func (h *Hub) deliverError(c *Client, cerr *CoreError) {
	h.log.Warn().Str("client_id", c.ID).Str("code", cerr.Code).Msg(cerr.Message)
	h.deliver(c, &Event{Kind: EventError, Error: cerr})
}
