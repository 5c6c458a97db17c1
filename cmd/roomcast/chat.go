package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"roomcast/internal/proto"
	"roomcast/internal/reconciler"
)

func newChatCmd() *cobra.Command {
	var (
		addr     string
		username string
		email    string
		room     string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Connect to a broker as a terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" {
				return errors.New("--username and --email are required")
			}
			return runChat(addr, username, email, room)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8000/ws", "WebSocket address")
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&room, "room", "main", "room to join")

	return cmd
}

func runChat(addr, username, email, room string) error {
	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(f proto.ClientFrame) {
		if writeErr := wsjson.Write(ctx, conn, f); writeErr != nil {
			cancel()
			fmt.Fprintf(os.Stderr, "send: %v\n", writeErr)
		}
	}

	view := reconciler.New(room, nil, nil)

	send(proto.ClientFrame{Type: proto.TypeCreateUser, Room: room, Email: email, Username: username})
	send(proto.ClientFrame{Type: proto.TypeJoin, Room: room, Email: email, Username: username})

	fmt.Printf("Connected to %s as %s in room %s\n", addr, username, room)
	fmt.Println("Type messages and press Enter to send. /create <room>, /join <room>, /rooms, /users. Ctrl+C to exit.")

	go func() {
		defer cancel()
		chatReadLoop(ctx, conn, view)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/rooms":
			for _, opt := range view.View().Rooms {
				fmt.Println(" ", opt.Value)
			}
		case line == "/users":
			for _, opt := range view.View().Users {
				fmt.Println(" ", opt.Value)
			}
		case strings.HasPrefix(line, "/create "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "/create "))
			send(proto.ClientFrame{Type: proto.TypeCreateRoom, Room: name})
			// The broker never auto-joins a created room.
			send(proto.ClientFrame{Type: proto.TypeJoin, Room: name, Email: email, Username: username})
			view.SetActiveRoom(name)
		case strings.HasPrefix(line, "/join "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "/join "))
			send(proto.ClientFrame{Type: proto.TypeJoin, Room: name, Email: email, Username: username})
			view.SetActiveRoom(name)
		default:
			send(proto.ClientFrame{
				Type:     proto.TypeMessage,
				Room:     view.View().ActiveRoom,
				Email:    email,
				Username: username,
				Message:  line,
			})
		}
	}

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func chatReadLoop(ctx context.Context, conn *websocket.Conn, view *reconciler.Reconciler) {
	for {
		var frame proto.ServerFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}

		switch frame.Type {
		case proto.TypeMessage:
			if line := view.Apply(frame); line != "" {
				fmt.Println(line)
			}
		case proto.TypeError:
			fmt.Fprintf(os.Stderr, "server error [%s]: %s\n", frame.Code, frame.Error)
		}
	}
}
