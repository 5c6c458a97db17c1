package core

// Participant is a self-declared identity bound to one connection.
// Uniqueness is not enforced: two connections may share a display name.
type Participant struct {
	DisplayName  string
	ContactToken string
	Client       *Client
}

// Directory maps connections to their declared identity. It is owned by the
// hub goroutine and needs no locking.
type Directory struct {
	byClient map[*Client]*Participant
}

// NewDirectory constructs an empty directory.
func NewDirectory() *Directory {
	return &Directory{byClient: make(map[*Client]*Participant)}
}

// Register binds an identity to a connection. Both fields are required;
// registering again overwrites the previous identity in place.
func (d *Directory) Register(c *Client, name, token string) (*Participant, *CoreError) {
	if name == "" || token == "" {
		return nil, coreError(ErrCodeValidation, "username and email are required")
	}
	if p, ok := d.byClient[c]; ok {
		p.DisplayName = name
		p.ContactToken = token
		return p, nil
	}
	p := &Participant{DisplayName: name, ContactToken: token, Client: c}
	d.byClient[c] = p
	return p, nil
}

// Lookup returns the participant bound to a connection, if any.
func (d *Directory) Lookup(c *Client) (*Participant, bool) {
	p, ok := d.byClient[c]
	return p, ok
}

// Remove forgets the connection's identity.
func (d *Directory) Remove(c *Client) {
	delete(d.byClient, c)
}
