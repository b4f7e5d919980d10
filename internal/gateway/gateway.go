// Package gateway defines the messaging surface the bot runs on.
package gateway

import (
	"context"
	"time"
)

// Message is one inbound chat message.
type Message struct {
	ID        string
	AuthorID  string
	Author    string // username; the identity expenses and budgets are keyed by
	IsBot     bool
	Content   string
	ChannelID string
	Timestamp time.Time
}

// User returns the identity used for records: the username, or the
// platform id when the username is empty.
func (m Message) User() string {
	if m.Author != "" {
		return m.Author
	}
	return m.AuthorID
}

// Handler processes one message and returns at most one reply.
type Handler interface {
	Handle(ctx context.Context, m Message) (reply string, ok bool)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, m Message) (string, bool)

func (f HandlerFunc) Handle(ctx context.Context, m Message) (string, bool) {
	return f(ctx, m)
}

// Gateway connects to a chat platform and feeds messages to a Handler until
// ctx is cancelled or the connection fails.
type Gateway interface {
	Name() string
	Run(ctx context.Context, h Handler) error
}
