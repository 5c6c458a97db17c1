package core

// Room groups participants subscribed to the same channel. Members keep
// join order so roster lists are stable across broadcasts.
type Room struct {
	Name string

	members []*Participant
	index   map[*Participant]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:  name,
		index: make(map[*Participant]struct{}),
	}
}

// Add inserts a participant into the room. Returns true if newly added;
// re-adding is a no-op, not an error.
func (r *Room) Add(p *Participant) bool {
	if _, exists := r.index[p]; exists {
		return false
	}
	r.index[p] = struct{}{}
	r.members = append(r.members, p)
	return true
}

// Remove deletes a participant from the room. Returns true if removed.
func (r *Room) Remove(p *Participant) bool {
	if _, exists := r.index[p]; !exists {
		return false
	}
	delete(r.index, p)
	for i, m := range r.members {
		if m == p {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the member count.
func (r *Room) Len() int {
	return len(r.members)
}
