package core

// Registry is the authoritative mapping of room name to present
// participants. Rooms are created lazily and never deleted, even when
// empty. The registry is owned by the hub goroutine; every mutation and
// the snapshot read that follows it happen inside one loop iteration, so
// no locking is needed.
type Registry struct {
	rooms  map[string]*Room
	order  []string // first-seen room order
	byName map[*Participant]*Room
	joined []*Participant // global join order across all rooms
}

// NewRegistry constructs a registry pre-seeded with the default room.
func NewRegistry(defaultRoom string) *Registry {
	r := &Registry{
		rooms:  make(map[string]*Room),
		byName: make(map[*Participant]*Room),
	}
	if defaultRoom != "" {
		r.Ensure(defaultRoom)
	}
	return r
}

// Ensure returns the named room, creating an empty one on first reference.
func (r *Registry) Ensure(name string) *Room {
	if room, ok := r.rooms[name]; ok {
		return room
	}
	room := NewRoom(name)
	r.rooms[name] = room
	r.order = append(r.order, name)
	return room
}

// Lookup returns the named room without creating it.
func (r *Registry) Lookup(name string) (*Room, bool) {
	room, ok := r.rooms[name]
	return room, ok
}

// AddMember inserts the participant into the named room, creating the room
// if needed. Idempotent: re-adding reports false with no state change.
func (r *Registry) AddMember(name string, p *Participant) bool {
	room := r.Ensure(name)
	if !room.Add(p) {
		return false
	}
	r.byName[p] = room
	r.joined = append(r.joined, p)
	return true
}

// RemoveMember deletes the participant from every room's member set.
// The rooms themselves stay, even when empty.
func (r *Registry) RemoveMember(p *Participant) bool {
	room, ok := r.byName[p]
	if !ok {
		return false
	}
	room.Remove(p)
	delete(r.byName, p)
	for i, m := range r.joined {
		if m == p {
			r.joined = append(r.joined[:i], r.joined[i+1:]...)
			break
		}
	}
	return true
}

// RoomOf returns the room the participant currently belongs to, if any.
func (r *Registry) RoomOf(p *Participant) (*Room, bool) {
	room, ok := r.byName[p]
	return room, ok
}

// RoomNames lists all room names in first-seen order, default room first.
func (r *Registry) RoomNames() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ParticipantNames lists the display names of every participant present in
// any room, in global join order. This is deliberately the union across all
// rooms: every broadcast exposes the same roster regardless of which room
// changed.
func (r *Registry) ParticipantNames() []string {
	names := make([]string, 0, len(r.joined))
	for _, p := range r.joined {
		names = append(names, p.DisplayName)
	}
	return names
}
