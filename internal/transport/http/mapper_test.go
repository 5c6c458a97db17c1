package http

import (
	"testing"

	"roomcast/internal/core"
	"roomcast/internal/proto"
)

func TestFrameToCommandCreateUser(t *testing.T) {
	cmd, errFrame := frameToCommand(proto.ClientFrame{
		Type:     proto.TypeCreateUser,
		Room:     "main",
		Email:    "a@x",
		Username: "Alice",
	})
	if errFrame != nil {
		t.Fatalf("unexpected error frame: %+v", errFrame)
	}
	if cmd.Kind != core.CommandRegister || cmd.Name != "Alice" || cmd.Token != "a@x" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestFrameToCommandCreateUserRequiresIdentity(t *testing.T) {
	for _, f := range []proto.ClientFrame{
		{Type: proto.TypeCreateUser, Room: "main", Username: "Alice"},
		{Type: proto.TypeCreateUser, Room: "main", Email: "a@x"},
		{Type: proto.TypeCreateUser, Room: "main", Username: "<b></b>", Email: "a@x"},
	} {
		cmd, errFrame := frameToCommand(f)
		if cmd != nil || errFrame == nil || errFrame.Code != core.ErrCodeValidation {
			t.Fatalf("expected validation error for %+v, got cmd=%+v err=%+v", f, cmd, errFrame)
		}
	}
}

func TestFrameToCommandEmptyMessageDroppedSilently(t *testing.T) {
	cmd, errFrame := frameToCommand(proto.ClientFrame{
		Type:     proto.TypeMessage,
		Room:     "main",
		Email:    "a@x",
		Username: "Alice",
		Message:  "   ",
	})
	if cmd != nil || errFrame != nil {
		t.Fatalf("empty message must produce nothing, got cmd=%+v err=%+v", cmd, errFrame)
	}
}

func TestFrameToCommandSanitizesMessageText(t *testing.T) {
	cmd, errFrame := frameToCommand(proto.ClientFrame{
		Type:     proto.TypeMessage,
		Room:     "main",
		Email:    "a@x",
		Username: "Alice",
		Message:  "<script>alert(1)</script>hi",
	})
	if errFrame != nil {
		t.Fatalf("unexpected error frame: %+v", errFrame)
	}
	if cmd.Text != "hi" {
		t.Fatalf("message text not sanitized: %q", cmd.Text)
	}
}

func TestFrameToCommandUnknownType(t *testing.T) {
	cmd, errFrame := frameToCommand(proto.ClientFrame{Type: "shrug"})
	if cmd != nil || errFrame == nil || errFrame.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got cmd=%+v err=%+v", cmd, errFrame)
	}
}

func TestFrameToCommandJoinRequiresRoom(t *testing.T) {
	cmd, errFrame := frameToCommand(proto.ClientFrame{
		Type:     proto.TypeJoin,
		Email:    "a@x",
		Username: "Alice",
	})
	if cmd != nil || errFrame == nil || errFrame.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got cmd=%+v err=%+v", cmd, errFrame)
	}
}

func TestFrameFromEventSnapshot(t *testing.T) {
	frame := frameFromEvent(&core.Event{
		Kind: core.EventSnapshot,
		Snapshot: &core.Snapshot{
			Room:        "main",
			SenderName:  "Alice",
			SenderToken: "a@x",
			Text:        "hi",
			Rooms:       []string{"main"},
			Users:       []string{"Alice", "Bob"},
		},
	})

	if frame.Type != proto.TypeMessage || frame.Username != "Alice" || frame.Email != "a@x" {
		t.Fatalf("unexpected frame: %+v", frame)
	}
	if len(frame.Users) != 2 || len(frame.Rooms) != 1 {
		t.Fatalf("roster not carried: %+v", frame)
	}
}

func TestFrameFromEventError(t *testing.T) {
	frame := frameFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: core.ErrCodeNotInRoom, Message: "join the room first"},
	})
	if frame.Type != proto.TypeError || frame.Code != core.ErrCodeNotInRoom {
		t.Fatalf("unexpected frame: %+v", frame)
	}
}
