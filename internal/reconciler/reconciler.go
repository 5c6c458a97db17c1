// Package reconciler maintains a participant's local view of the chat.
// State is mutated only by wholesale replacement on snapshot receipt,
// never incrementally, which makes reprocessing a snapshot idempotent
// beyond a duplicate transcript line.
package reconciler

import (
	"fmt"
	"sync"

	"roomcast/internal/proto"
)

// Option is one entry of a selectable roster list. Label and Value are
// always equal; room and user names are their own stable identifiers.
type Option struct {
	Label string
	Value string
}

// RenderFunc turns raw message text into display markup. Rendering is a
// collaborator concern; the reconciler only passes text through.
type RenderFunc func(text string) string

// AvatarFunc derives an avatar URL from a contact token.
type AvatarFunc func(token string) string

// View is the participant's local state.
type View struct {
	Rooms      []Option
	Users      []Option
	ActiveRoom string
	Transcript []string
}

// Reconciler applies server snapshots to a View.
type Reconciler struct {
	mu     sync.Mutex
	view   View
	render RenderFunc
	avatar AvatarFunc
}

// New constructs a reconciler with the given starting room. Either
// collaborator may be nil: rendering defaults to pass-through and avatar
// lines are omitted.
func New(activeRoom string, render RenderFunc, avatar AvatarFunc) *Reconciler {
	if render == nil {
		render = func(text string) string { return text }
	}
	return &Reconciler{
		view: View{
			ActiveRoom: activeRoom,
			Rooms:      []Option{{Label: activeRoom, Value: activeRoom}},
		},
		render: render,
		avatar: avatar,
	}
}

// Apply reconciles one server frame into the view. Rooms and users are
// replaced wholesale from the snapshot's lists; stale local entries are
// discarded. Returns the transcript line appended, or "" for frames that
// carry no message.
func (r *Reconciler) Apply(f proto.ServerFrame) string {
	if f.Type != proto.TypeMessage {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.view.Rooms = toOptions(f.Rooms)
	r.view.Users = toOptions(f.Users)

	line := fmt.Sprintf("%s: %s", f.Username, r.render(f.Message))
	if r.avatar != nil && f.Email != "" {
		line = fmt.Sprintf("[%s] %s", r.avatar(f.Email), line)
	}
	r.view.Transcript = append(r.view.Transcript, line)
	return line
}

// SetActiveRoom records the room this participant created or joined.
func (r *Reconciler) SetActiveRoom(room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.ActiveRoom = room
}

// View returns a copy of the current local state.
func (r *Reconciler) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{ActiveRoom: r.view.ActiveRoom}
	v.Rooms = append(v.Rooms, r.view.Rooms...)
	v.Users = append(v.Users, r.view.Users...)
	v.Transcript = append(v.Transcript, r.view.Transcript...)
	return v
}

func toOptions(names []string) []Option {
	opts := make([]Option, 0, len(names))
	for _, name := range names {
		opts = append(opts, Option{Label: name, Value: name})
	}
	return opts
}
