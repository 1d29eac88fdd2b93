// Package telegram exposes the chat engine over Telegram as an
// optional second transport.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"venbot/internal/engine"
)

// Bot wraps the Telegram client and routes incoming messages to the
// engine.
type Bot struct {
	bot    *tgbot.Bot
	logger *slog.Logger
}

// New creates the Telegram transport. The token must be non-empty.
func New(token string, eng *engine.Engine, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram")

	b := &Bot{logger: log}

	tb, err := tgbot.New(token, tgbot.WithDefaultHandler(b.handleMessage(eng)))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.bot = tb

	return b, nil
}

// Start begins long polling. It blocks until the context is
// cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.bot.Start(ctx)
}

// handleMessage replies to every text message with the engine's
// response. Telegram user and chat IDs become the session identity.
func (b *Bot) handleMessage(eng *engine.Engine) tgbot.HandlerFunc {
	return func(ctx context.Context, tb *tgbot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.Text == "" {
			return
		}

		msg := update.Message

		userID := ""
		if msg.From != nil {
			userID = strconv.FormatInt(msg.From.ID, 10)
		}
		chatID := strconv.FormatInt(msg.Chat.ID, 10)

		reply := eng.Respond(userID, chatID, msg.Text)

		if _, err := tb.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   reply.Text,
		}); err != nil {
			b.logger.ErrorContext(ctx, "failed to send telegram reply",
				"chat_id", msg.Chat.ID, "error", err)
		}
	}
}
