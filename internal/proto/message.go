package proto

// Wire frames are flat JSON objects; Type selects which fields matter.

const (
	TypeCreateUser = "createUser"
	TypeCreateRoom = "createRoom"
	TypeJoin       = "join"
	TypeMessage    = "message"
	TypeError      = "error"
)

// ClientFrame is every inbound message from a client.
type ClientFrame struct {
	Type     string `json:"type"`
	Room     string `json:"room,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ServerFrame is every outbound message. A "message" frame always carries
// the complete current roster; an "error" frame goes only to the connection
// that triggered it.
type ServerFrame struct {
	Type     string   `json:"type"`
	Room     string   `json:"room,omitempty"`
	Email    string   `json:"email,omitempty"`
	Username string   `json:"username,omitempty"`
	Message  string   `json:"message,omitempty"`
	Users    []string `json:"users,omitempty"`
	Rooms    []string `json:"rooms,omitempty"`
	Code     string   `json:"code,omitempty"`
	Error    string   `json:"error,omitempty"`
}
