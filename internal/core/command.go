package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister declares the participant's identity for a connection.
	CommandRegister CommandKind = iota
	// CommandCreateRoom creates an empty room without joining it.
	CommandCreateRoom
	// CommandJoinRoom moves the participant into a room.
	CommandJoinRoom
	// CommandPostMessage delivers a chat message to all active participants.
	CommandPostMessage
)

// Command represents an action requested by a client.
type Command struct {
	Kind  CommandKind
	Room  string
	Name  string // display name
	Token string // contact token
	Text  string // message text
}
