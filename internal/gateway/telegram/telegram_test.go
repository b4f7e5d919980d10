package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbot/internal/gateway"
	"budgetbot/internal/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if mc, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, mc)
	}
	return tgbotapi.Message{}, f.err
}

func newUpdateMessage(text, chatType string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: 42, UserName: "alice"},
		Chat:      &tgbotapi.Chat{ID: -100, Type: chatType},
		Date:      int(time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC).Unix()),
		Text:      text,
	}
}

func TestToMessage(t *testing.T) {
	msg, ok := toMessage(newUpdateMessage("200 swiggy", "private"), "budget_bot")
	require.True(t, ok)
	assert.Equal(t, "7", msg.ID)
	assert.Equal(t, "42", msg.AuthorID)
	assert.Equal(t, "alice", msg.Author)
	assert.Equal(t, "-100", msg.ChannelID)
	assert.Equal(t, "200 swiggy", msg.Content)
	assert.True(t, msg.Timestamp.Equal(time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)))

	t.Run("group mention is stripped", func(t *testing.T) {
		msg, ok := toMessage(newUpdateMessage("@budget_bot !summary", "supergroup"), "budget_bot")
		require.True(t, ok)
		assert.Equal(t, "!summary", msg.Content)
	})

	t.Run("username falls back to id", func(t *testing.T) {
		m := newUpdateMessage("!help", "private")
		m.From.UserName = ""
		msg, ok := toMessage(m, "")
		require.True(t, ok)
		assert.Equal(t, "42", msg.User())
	})

	t.Run("channel posts without sender are skipped", func(t *testing.T) {
		m := newUpdateMessage("!help", "channel")
		m.From = nil
		_, ok := toMessage(m, "")
		assert.False(t, ok)
	})
}

func TestDispatch(t *testing.T) {
	g, err := New("token", 0, log.Discard())
	require.NoError(t, err)

	s := &fakeSender{}
	h := gateway.HandlerFunc(func(_ context.Context, m gateway.Message) (string, bool) {
		if m.Content == "!help" {
			return "help text", true
		}
		return "", false
	})

	g.dispatch(context.Background(), s, "budget_bot", h, newUpdateMessage("hello", "private"))
	assert.Empty(t, s.sent)

	g.dispatch(context.Background(), s, "budget_bot", h, newUpdateMessage("!help", "private"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, int64(-100), s.sent[0].ChatID)
	assert.Equal(t, 7, s.sent[0].ReplyToMessageID)
	assert.Equal(t, "help text", s.sent[0].Text)
}

func TestDispatchSendFailure(t *testing.T) {
	g, err := New("token", 30, log.Discard())
	require.NoError(t, err)
	s := &fakeSender{err: errors.New("forbidden")}
	h := gateway.HandlerFunc(func(context.Context, gateway.Message) (string, bool) { return "hi", true })
	assert.NotPanics(t, func() {
		g.dispatch(context.Background(), s, "", h, newUpdateMessage("x", "private"))
	})
}

func TestNew(t *testing.T) {
	_, err := New("", 60, nil)
	assert.Error(t, err)

	g, err := New("token", -1, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, g.pollTimeout)
	assert.Equal(t, "telegram", g.Name())
}
