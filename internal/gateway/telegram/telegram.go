// Package telegram runs the bot over Telegram long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"budgetbot/internal/gateway"
	"budgetbot/internal/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the subset of *tgbotapi.BotAPI used to answer a message.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Gateway struct {
	token       string
	pollTimeout int
	logger      *log.Logger
}

var _ gateway.Gateway = (*Gateway)(nil)

func New(token string, pollTimeout int, logger *log.Logger) (*Gateway, error) {
	if token == "" {
		return nil, errors.New("missing telegram bot token")
	}
	if pollTimeout <= 0 {
		pollTimeout = 60
	}
	if logger == nil {
		logger = log.Default(log.ComponentGateway)
	}
	return &Gateway{
		token:       token,
		pollTimeout: pollTimeout,
		logger:      logger.WithComponent(log.ComponentGateway).With(log.FieldGateway, "telegram"),
	}, nil
}

func (g *Gateway) Name() string { return "telegram" }

// Run polls for updates until ctx is done. Updates are handled one at a
// time in arrival order.
func (g *Gateway) Run(ctx context.Context, h gateway.Handler) error {
	bot, err := tgbotapi.NewBotAPI(g.token)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}
	g.logger.InfoContext(ctx, "Logged in", "as", bot.Self.UserName, log.FieldOperation, log.OpStartup)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = g.pollTimeout
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			g.logger.InfoContext(ctx, "Telegram gateway stopping", log.FieldOperation, log.OpShutdown)
			bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram update channel closed")
			}
			if update.Message != nil {
				g.dispatch(ctx, bot, bot.Self.UserName, h, update.Message)
			}
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, s sender, botName string, h gateway.Handler, m *tgbotapi.Message) {
	msg, ok := toMessage(m, botName)
	if !ok {
		return
	}
	reply, ok := h.Handle(ctx, msg)
	if !ok {
		return
	}
	out := tgbotapi.NewMessage(m.Chat.ID, reply)
	out.ReplyToMessageID = m.MessageID
	if _, err := s.Send(out); err != nil {
		g.logger.ErrorContext(ctx, "Failed to send reply",
			log.FieldChannel, msg.ChannelID,
			log.FieldOperation, log.OpReply,
			log.FieldError, err)
	}
}

// toMessage converts an update message. In groups, @mentions of the bot are
// stripped so commands still match.
func toMessage(m *tgbotapi.Message, botName string) (gateway.Message, bool) {
	if m == nil || m.From == nil || m.Chat == nil {
		return gateway.Message{}, false
	}
	text := m.Text
	if botName != "" && (m.Chat.IsGroup() || m.Chat.IsSuperGroup()) {
		text = strings.TrimSpace(strings.ReplaceAll(text, "@"+botName, ""))
	}
	return gateway.Message{
		ID:        strconv.Itoa(m.MessageID),
		AuthorID:  strconv.FormatInt(m.From.ID, 10),
		Author:    m.From.UserName,
		IsBot:     m.From.IsBot,
		Content:   text,
		ChannelID: strconv.FormatInt(m.Chat.ID, 10),
		Timestamp: m.Time(),
	}, true
}
