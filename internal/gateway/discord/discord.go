// Package discord runs the bot on a Discord gateway session.
package discord

import (
	"context"
	"errors"
	"fmt"

	"budgetbot/internal/gateway"
	"budgetbot/internal/log"

	"github.com/bwmarrin/discordgo"
)

// Intents the bot needs to see guild and direct message text.
const Intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// replier is the subset of *discordgo.Session used to answer a message.
type replier interface {
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Gateway struct {
	token  string
	logger *log.Logger
}

var _ gateway.Gateway = (*Gateway)(nil)

func New(token string, logger *log.Logger) (*Gateway, error) {
	if token == "" {
		return nil, errors.New("missing discord bot token")
	}
	if logger == nil {
		logger = log.Default(log.ComponentGateway)
	}
	return &Gateway{
		token:  token,
		logger: logger.WithComponent(log.ComponentGateway).With(log.FieldGateway, "discord"),
	}, nil
}

func (g *Gateway) Name() string { return "discord" }

// Run opens the session and blocks until ctx is done. Events are delivered
// synchronously, one message at a time.
func (g *Gateway) Run(ctx context.Context, h gateway.Handler) error {
	session, err := discordgo.New("Bot " + g.token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.SyncEvents = true

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.logger.InfoContext(ctx, "Logged in", "as", r.User.Username)
	})
	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		g.dispatch(ctx, s, h, m)
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	g.logger.InfoContext(ctx, "Discord gateway started", log.FieldOperation, log.OpStartup)

	<-ctx.Done()

	g.logger.InfoContext(ctx, "Discord gateway stopping", log.FieldOperation, log.OpShutdown)
	if err := session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	return nil
}

func (g *Gateway) dispatch(ctx context.Context, r replier, h gateway.Handler, m *discordgo.MessageCreate) {
	msg, ok := toMessage(m)
	if !ok {
		return
	}
	reply, ok := h.Handle(ctx, msg)
	if !ok {
		return
	}
	if _, err := r.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		g.logger.ErrorContext(ctx, "Failed to send reply",
			log.FieldChannel, m.ChannelID,
			log.FieldOperation, log.OpReply,
			log.FieldError, err)
	}
}

func toMessage(m *discordgo.MessageCreate) (gateway.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return gateway.Message{}, false
	}
	return gateway.Message{
		ID:        m.ID,
		AuthorID:  m.Author.ID,
		Author:    m.Author.Username,
		IsBot:     m.Author.Bot,
		Content:   m.Content,
		ChannelID: m.ChannelID,
		Timestamp: m.Timestamp,
	}, true
}
