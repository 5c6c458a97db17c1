package http

import (
	"roomcast/internal/content"
	"roomcast/internal/core"
	"roomcast/internal/proto"
)

// frameToCommand validates and sanitizes an inbound frame. It returns the
// command to submit, or an error frame to echo to the originating
// connection only. Both may be nil: an empty chat message is dropped
// silently with no state change and no response.
func frameToCommand(f proto.ClientFrame) (*core.Command, *proto.ServerFrame) {
	switch f.Type {
	case proto.TypeCreateUser:
		name := content.Sanitize(f.Username)
		token := content.Sanitize(f.Email)
		if name == "" || token == "" {
			return nil, errorFrame(core.ErrCodeValidation, "email and username are required")
		}
		return &core.Command{
			Kind:  core.CommandRegister,
			Room:  content.Sanitize(f.Room),
			Name:  name,
			Token: token,
		}, nil
	case proto.TypeCreateRoom:
		room := content.Sanitize(f.Room)
		if room == "" {
			return nil, errorFrame(core.ErrCodeBadRequest, "room is required")
		}
		return &core.Command{
			Kind: core.CommandCreateRoom,
			Room: room,
		}, nil
	case proto.TypeJoin:
		room := content.Sanitize(f.Room)
		if room == "" {
			return nil, errorFrame(core.ErrCodeBadRequest, "room is required")
		}
		if content.Sanitize(f.Username) == "" || content.Sanitize(f.Email) == "" {
			return nil, errorFrame(core.ErrCodeValidation, "email and username are required")
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: room,
		}, nil
	case proto.TypeMessage:
		room := content.Sanitize(f.Room)
		if room == "" {
			return nil, errorFrame(core.ErrCodeBadRequest, "room is required")
		}
		text := content.Sanitize(f.Message)
		if text == "" {
			return nil, nil
		}
		return &core.Command{
			Kind: core.CommandPostMessage,
			Room: room,
			Text: text,
		}, nil
	default:
		return nil, errorFrame("invalid_message", "unknown message type")
	}
}

// frameFromEvent maps a core event to its wire representation.
func frameFromEvent(ev *core.Event) proto.ServerFrame {
	switch ev.Kind {
	case core.EventSnapshot:
		snap := ev.Snapshot
		return proto.ServerFrame{
			Type:     proto.TypeMessage,
			Room:     snap.Room,
			Email:    snap.SenderToken,
			Username: snap.SenderName,
			Message:  snap.Text,
			Users:    snap.Users,
			Rooms:    snap.Rooms,
		}
	case core.EventError:
		if ev.Error == nil {
			return *errorFrame("unknown", "unknown error")
		}
		return *errorFrame(ev.Error.Code, ev.Error.Message)
	default:
		return proto.ServerFrame{Type: proto.TypeError, Code: "unknown", Error: "unknown event"}
	}
}

func errorFrame(code, msg string) *proto.ServerFrame {
	return &proto.ServerFrame{
		Type:  proto.TypeError,
		Code:  code,
		Error: msg,
	}
}
