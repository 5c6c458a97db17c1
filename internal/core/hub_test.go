package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	hub := NewHub("main", nil)
	go hub.Run(ctx)
	return hub
}

func identify(c *Client, name, token string) {
	c.Commands <- &Command{Kind: CommandRegister, Name: name, Token: token}
}

func TestHubJoinAndBroadcastScenario(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}

	snap := mustSnapshot(t, alice.Events)
	if !equalNames(snap.Rooms, "main") {
		t.Fatalf("unexpected rooms: %v", snap.Rooms)
	}
	if !equalNames(snap.Users, "Alice") {
		t.Fatalf("unexpected users: %v", snap.Users)
	}
	if snap.SenderName != SystemSender {
		t.Fatalf("expected system announcement, got sender %q", snap.SenderName)
	}

	bob := NewClient("b", 8)
	hub.RegisterClient(bob)
	identify(bob, "Bob", "b@x")
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}

	// Roster order is join order.
	snap = mustSnapshot(t, alice.Events)
	if !equalNames(snap.Users, "Alice", "Bob") {
		t.Fatalf("unexpected users after bob joined: %v", snap.Users)
	}
	snap = mustSnapshot(t, bob.Events)
	if !equalNames(snap.Users, "Alice", "Bob") {
		t.Fatalf("bob sees unexpected users: %v", snap.Users)
	}

	alice.Commands <- &Command{Kind: CommandPostMessage, Room: "main", Text: "hi"}

	snap = mustSnapshot(t, bob.Events)
	if snap.Text != "hi" || snap.SenderName != "Alice" || snap.SenderToken != "a@x" {
		t.Fatalf("unexpected message snapshot: %+v", snap)
	}
	if !equalNames(snap.Users, "Alice", "Bob") || !equalNames(snap.Rooms, "main") {
		t.Fatalf("message snapshot carries wrong roster: %+v", snap)
	}
}

func TestHubRejoinSameRoomIsNoop(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustNoEvent(t, alice.Events)

	// Member set size is unchanged: the roster still lists Alice once.
	alice.Commands <- &Command{Kind: CommandPostMessage, Room: "main", Text: "ping"}
	snap := mustSnapshot(t, alice.Events)
	if !equalNames(snap.Users, "Alice") {
		t.Fatalf("re-join changed roster: %v", snap.Users)
	}
}

func TestHubCreateRoomWithoutJoin(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "side"}

	snap := mustSnapshot(t, alice.Events)
	if !equalNames(snap.Rooms, "main", "side") {
		t.Fatalf("new room missing from roster: %v", snap.Rooms)
	}
	if !equalNames(snap.Users, "Alice") {
		t.Fatalf("createRoom must not add members: %v", snap.Users)
	}
	if snap.SenderName != SystemSender || !strings.Contains(snap.Text, "side") {
		t.Fatalf("unexpected creation announcement: %+v", snap)
	}

	// Creating the same room again changes nothing.
	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "side"}
	mustNoEvent(t, alice.Events)
}

func TestHubEmptyMessageDropped(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandPostMessage, Room: "main", Text: ""}
	mustNoEvent(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandPostMessage, Room: "main", Text: "ping"}
	snap := mustSnapshot(t, alice.Events)
	if snap.Text != "ping" {
		t.Fatalf("unexpected snapshot after empty message: %+v", snap)
	}
}

func TestHubCreateThenJoinOrdering(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "a"}
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "a"}

	// First the creation snapshot: "a" exists, membership unchanged.
	snap := mustSnapshot(t, alice.Events)
	if !equalNames(snap.Rooms, "main", "a") || !equalNames(snap.Users, "Alice") {
		t.Fatalf("unexpected creation snapshot: %+v", snap)
	}

	// Then the departure from main, then the join into "a". The final
	// snapshot shows both the room and the member.
	var last *Snapshot
	for i := 0; i < 2; i++ {
		last = mustSnapshot(t, alice.Events)
	}
	if !equalNames(last.Rooms, "main", "a") || !equalNames(last.Users, "Alice") {
		t.Fatalf("unexpected snapshot after join: %+v", last)
	}
	if last.Room != "a" {
		t.Fatalf("expected announcement scoped to room a, got %q", last.Room)
	}
}

func TestHubRegisterValidation(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)

	identify(alice, "Alice", "")
	cerr := mustError(t, alice.Events)
	if cerr.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", cerr)
	}

	// The failed registration left the connection anonymous.
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	cerr = mustError(t, alice.Events)
	if cerr.Code != ErrCodeNotIdentified {
		t.Fatalf("expected not_identified, got %+v", cerr)
	}
}

func TestHubMessageWithoutJoin(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")

	alice.Commands <- &Command{Kind: CommandPostMessage, Room: "main", Text: "hi"}
	cerr := mustError(t, alice.Events)
	if cerr.Code != ErrCodeNotInRoom {
		t.Fatalf("expected not_in_room, got %+v", cerr)
	}
}

func TestHubMessageToOtherRoomRejected(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	hub.RegisterClient(alice)
	identify(alice, "Alice", "a@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandCreateRoom, Room: "side"}
	mustSnapshot(t, alice.Events)

	alice.Commands <- &Command{Kind: CommandPostMessage, Room: "side", Text: "hi"}
	cerr := mustError(t, alice.Events)
	if cerr.Code != ErrCodeNotInRoom {
		t.Fatalf("expected not_in_room, got %+v", cerr)
	}
}

func TestHubDisconnectRemovesParticipant(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a", 8)
	bob := NewClient("b", 8)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	identify(alice, "Alice", "a@x")
	identify(bob, "Bob", "b@x")
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, alice.Events)
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, bob.Events)
	mustSnapshot(t, alice.Events)

	hub.UnregisterClient(alice)

	snap := mustSnapshot(t, bob.Events)
	if !equalNames(snap.Users, "Bob") {
		t.Fatalf("disconnected participant still in roster: %v", snap.Users)
	}
	if !strings.Contains(snap.Text, "left") {
		t.Fatalf("expected departure announcement, got %q", snap.Text)
	}
	// Rooms are never pruned, even when empty.
	if !equalNames(snap.Rooms, "main") {
		t.Fatalf("unexpected rooms: %v", snap.Rooms)
	}
}

func TestHubDisconnectWithQueuedCommands(t *testing.T) {
	hub := startHub(t)

	watcher := NewClient("watch", 64)
	hub.RegisterClient(watcher)
	identify(watcher, "Watcher", "w@x")
	watcher.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, watcher.Events)

	// Connections that vanish with commands still buffered must never
	// leave a participant behind, whichever side of the disconnect the
	// hub processes first.
	for i := 0; i < 100; i++ {
		ghost := NewClient(fmt.Sprintf("g%d", i), 8)
		hub.RegisterClient(ghost)
		identify(ghost, "Ghost", "g@x")
		ghost.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
		hub.UnregisterClient(ghost)
		close(ghost.Commands)
	}

	watcher.Commands <- &Command{Kind: CommandPostMessage, Room: "main", Text: "sweep"}

	for {
		snap := mustSnapshot(t, watcher.Events)
		if snap.Text != "sweep" {
			continue
		}
		if !equalNames(snap.Users, "Watcher") {
			t.Fatalf("disconnected client left roster residue: %v", snap.Users)
		}
		break
	}
}

func TestHubDuplicateDisplayNamesAllowed(t *testing.T) {
	hub := startHub(t)

	a1 := NewClient("a1", 8)
	a2 := NewClient("a2", 8)
	hub.RegisterClient(a1)
	hub.RegisterClient(a2)
	identify(a1, "Alice", "a1@x")
	identify(a2, "Alice", "a2@x")
	a1.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}
	mustSnapshot(t, a1.Events)
	a2.Commands <- &Command{Kind: CommandJoinRoom, Room: "main"}

	snap := mustSnapshot(t, a2.Events)
	if !equalNames(snap.Users, "Alice", "Alice") {
		t.Fatalf("duplicate names should both be listed: %v", snap.Users)
	}
}
