// Package telegram delivers chipwarden notifications and serves a small
// command bot over the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chipwarden/internal/ports"
)

// Notifier sends messages to a single configured chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// Send delivers text to the configured chat. formatted messages are sent as
// Markdown; plain messages carry no parse mode.
func (n *Notifier) Send(ctx context.Context, text string, formatted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if formatted {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// Bot exposes the underlying API client for the command bot.
func (n *Notifier) Bot() *tgbotapi.BotAPI {
	return n.bot
}
