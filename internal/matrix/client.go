// Package matrix is the transport adapter between Matrix rooms and the
// conversation engine.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/format"
	"maunium.net/go/mautrix/id"

	"github.com/dstuk/tarot-bot/internal/engine"
	"github.com/dstuk/tarot-bot/internal/observability"
	"github.com/dstuk/tarot-bot/internal/trace"
)

// Config holds Matrix client configuration.
type Config struct {
	Homeserver  string
	UserID      string
	AccessToken string
	// Rooms limits where the bot listens. Empty means every joined room.
	Rooms []string
}

// Client wraps the Matrix client and feeds inbound messages to the engine.
type Client struct {
	client *mautrix.Client
	config *Config
	engine *engine.Engine
	stopCh chan struct{}
}

func New(config *Config, eng *engine.Engine) (*Client, error) {
	client, err := mautrix.NewClient(config.Homeserver, id.UserID(config.UserID), config.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("create matrix client: %w", err)
	}
	return &Client{
		client: client,
		config: config,
		engine: eng,
		stopCh: make(chan struct{}),
	}, nil
}

// Start joins the configured rooms and begins syncing. The sync loop
// reconnects with exponential backoff; a transient homeserver error must not
// leave the bot deaf to new messages.
func (c *Client) Start(ctx context.Context) error {
	syncer := c.client.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, c.handleMessage)

	for _, roomID := range c.config.Rooms {
		if err := c.joinRoom(ctx, id.RoomID(roomID)); err != nil {
			return fmt.Errorf("join room %s: %w", roomID, err)
		}
	}

	go func() {
		const (
			backoffMin = 2 * time.Second
			backoffMax = 5 * time.Minute
		)
		backoff := backoffMin
		for {
			backoff = backoffMin
			if err := c.client.Sync(); err != nil {
				select {
				case <-c.stopCh:
					return
				default:
				}
				slog.Error("matrix sync stopped; reconnecting", "err", err, "backoff", backoff)
				select {
				case <-c.stopCh:
					return
				case <-time.After(backoff):
				}
				backoff *= 2
				if backoff > backoffMax {
					backoff = backoffMax
				}
				continue
			}
			return
		}
	}()

	return nil
}

func (c *Client) Stop() {
	close(c.stopCh)
	c.client.StopSync()
}

func (c *Client) handleMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == id.UserID(c.config.UserID) {
		return
	}
	msg := evt.Content.AsMessage()
	if msg == nil || msg.MsgType != event.MsgText {
		return
	}
	if !c.allowedRoom(evt.RoomID.String()) {
		return
	}

	// Handle each turn off the sync goroutine so a slow generation call
	// does not stall message delivery for other users.
	go c.handleTurn(evt.Sender.String(), evt.RoomID, msg.Body)
}

func (c *Client) handleTurn(userID string, roomID id.RoomID, body string) {
	ctx := trace.WithTurnID(context.Background(), trace.NewTurnID())
	log := observability.WithTurn(ctx)

	c.setTyping(ctx, roomID, true)
	defer c.setTyping(ctx, roomID, false)

	reply, err := c.engine.HandleTurn(ctx, userID, ParseEvent(body))
	if err != nil {
		log.Warn("turn finished with error", "user_id", userID, "error", err)
	}
	if reply.Text == "" {
		return
	}
	if sendErr := c.sendMarkdown(ctx, roomID, reply.Text); sendErr != nil {
		log.Error("failed to send reply", "room_id", roomID, "error", sendErr)
	}
}

func (c *Client) allowedRoom(roomID string) bool {
	if len(c.config.Rooms) == 0 {
		return true
	}
	for _, r := range c.config.Rooms {
		if r == roomID {
			return true
		}
	}
	return false
}

// sendMarkdown renders the reply as HTML with a plain-text fallback body.
func (c *Client) sendMarkdown(ctx context.Context, roomID id.RoomID, text string) error {
	content := format.RenderMarkdown(text, true, false)
	_, err := c.client.SendMessageEvent(ctx, roomID, event.EventMessage, &content)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *Client) setTyping(ctx context.Context, roomID id.RoomID, typing bool) {
	if _, err := c.client.UserTyping(ctx, roomID, typing, 30*time.Second); err != nil {
		slog.Debug("failed to set typing indicator", "room_id", roomID, "err", err)
	}
}

func (c *Client) joinRoom(ctx context.Context, roomID id.RoomID) error {
	_, err := c.client.JoinRoomByID(ctx, roomID)
	if err != nil {
		// M_FORBIDDEN also covers the already-a-member case.
		if errors.Is(err, mautrix.MForbidden) {
			slog.Warn("join room: already a member or access denied, continuing", "room", roomID)
			return nil
		}
		return err
	}
	return nil
}
