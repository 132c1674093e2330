package commands

import (
	"LostFound/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type conversationView struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	UserAID    int64  `json:"user_a_id"`
	UserBID    int64  `json:"user_b_id"`
	Approved   bool   `json:"approved"`
	BlockedByA bool   `json:"blocked_by_a"`
	BlockedByB bool   `json:"blocked_by_b"`
}

func (c conversationView) state() string {
	s := "pending"
	if c.Approved {
		s = "active"
	}
	if c.BlockedByA || c.BlockedByB {
		s += ", blocked"
	}
	return s
}

type messageView struct {
	ID       string    `json:"id"`
	SenderID int64     `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
	IsRead   bool      `json:"is_read"`
}

func conversationPath(id string, action string) string {
	return "/api/chat/conversations/" + url.PathEscape(id) + "/" + action
}

type chatsCmd struct{}

func (chatsCmd) Name() string        { return "chats" }
func (chatsCmd) Description() string { return "List your conversations" }
func (chatsCmd) Usage() string       { return "chats" }

func (chatsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := authClient(cfg)
	if err != nil {
		return err
	}
	var list []conversationView
	if _, err := c.Do(ctx, http.MethodGet, "/api/chat/conversations", nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No conversations")
		return nil
	}
	for _, cv := range list {
		fmt.Fprintf(Out, "- %s  item=%s  users=%d,%d  %s\n", cv.ID, cv.ItemID, cv.UserAID, cv.UserBID, cv.state())
	}
	return nil
}

type chatCmd struct{}

func (chatCmd) Name() string        { return "chat" }
func (chatCmd) Description() string { return "Open (or reuse) a conversation about an item" }
func (chatCmd) Usage() string       { return "chat <item-id> <other-email>" }

func (chatCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	c, err := authClient(cfg)
	if err != nil {
		return err
	}
	var cv conversationView
	req := map[string]string{"item_id": args[0], "other_email": args[1]}
	if _, err := c.Do(ctx, http.MethodPost, "/api/chat/conversations", req, &cv); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Conversation %s (%s)\n", cv.ID, cv.state())
	return nil
}

type sendCmd struct{}

func (sendCmd) Name() string        { return "send" }
func (sendCmd) Description() string { return "Send a message" }
func (sendCmd) Usage() string       { return "send <conv-id> <text...>" }

func (sendCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	c, err := authClient(cfg)
	if err != nil {
		return err
	}
	var m messageView
	req := map[string]string{"content": strings.Join(args[1:], " ")}
	if _, err := c.Do(ctx, http.MethodPost, conversationPath(args[0], "messages"), req, &m); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Sent %s\n", m.ID)
	return nil
}

type messagesCmd struct{}

func (messagesCmd) Name() string        { return "messages" }
func (messagesCmd) Description() string { return "Show conversation history" }
func (messagesCmd) Usage() string       { return "messages <conv-id>" }

func (messagesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authClient(cfg)
	if err != nil {
		return err
	}
	var list []messageView
	if _, err := c.Do(ctx, http.MethodGet, conversationPath(args[0], "messages"), nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No messages")
		return nil
	}
	for _, m := range list {
		fmt.Fprintf(Out, "[%s] user %d: %s\n", m.SentAt.Local().Format("2006-01-02 15:04"), m.SenderID, m.Content)
	}
	return nil
}

// transitionCmd — approve / block / unblock.
type transitionCmd struct {
	action, desc, done string
}

func (t transitionCmd) Name() string        { return t.action }
func (t transitionCmd) Description() string { return t.desc }
func (t transitionCmd) Usage() string       { return t.action + " <conv-id>" }

func (t transitionCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := authClient(cfg)
	if err != nil {
		return err
	}
	var cv conversationView
	if _, err := c.Do(ctx, http.MethodPost, conversationPath(args[0], t.action), nil, &cv); err != nil {
		return err
	}
	fmt.Fprintf(Out, "%s: %s (%s)\n", t.done, cv.ID, cv.state())
	return nil
}

func init() {
	RegisterGroup(GroupChat,
		chatsCmd{},
		chatCmd{},
		sendCmd{},
		messagesCmd{},
		transitionCmd{action: "approve", desc: "Accept a pending conversation", done: "Approved"},
		transitionCmd{action: "block", desc: "Stop the other side from messaging you", done: "Blocked"},
		transitionCmd{action: "unblock", desc: "Allow the other side to message you again", done: "Unblocked"},
	)
}
