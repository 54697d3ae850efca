// Package telegram adapts the Telegram Bot API to the dialog package: it runs
// the long-poll loop, converts updates into dialog events, and implements the
// outbound Replier interface.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/config"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/dialog"
)

// Handler consumes converted transport events one at a time.
type Handler interface {
	Handle(ctx context.Context, ev dialog.Event)
}

// Bot wraps an authorized Telegram bot connection.
type Bot struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
	logger      zerolog.Logger
}

// New authorizes against the Bot API with the configured token.
func New(cfg config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}

	return &Bot{api: api, pollTimeout: cfg.PollInterval, logger: logger}, nil
}

// Run consumes updates until the context is cancelled. Updates are handled
// serially: the next update is not read until the handler returns, which is
// what lets the dialogues get by without per-session locking.
func (b *Bot) Run(ctx context.Context, h Handler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info().Str("username", b.api.Self.UserName).Msg("telegram long polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info().Msg("telegram long polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := toEvent(update)
			if !ok {
				continue
			}
			h.Handle(ctx, ev)
		}
	}
}

// toEvent converts a raw update into a dialog event. Updates that carry
// neither a usable message nor a callback (edits, channel posts) are skipped.
func toEvent(u tgbotapi.Update) (dialog.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		ev := dialog.Event{
			UserID:   cq.From.ID,
			UserName: cq.From.FirstName,
			Callback: &dialog.Callback{ID: cq.ID, Data: cq.Data},
		}
		if cq.Message != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.Callback.MessageID = cq.Message.MessageID
		}
		return ev, true

	case u.Message != nil && u.Message.From != nil:
		m := u.Message
		ev := dialog.Event{
			UserID:   m.From.ID,
			ChatID:   m.Chat.ID,
			UserName: m.From.FirstName,
			Text:     m.Text,
		}
		if m.IsCommand() {
			ev.Command = m.Command()
			ev.Text = m.CommandArguments()
		}
		return ev, true
	}

	return dialog.Event{}, false
}

// Reply sends a plain text message.
func (b *Bot) Reply(_ context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// ReplyWithMarkup sends a text message with an inline keyboard attached.
func (b *Bot) ReplyWithMarkup(_ context.Context, chatID int64, text string, buttons [][]dialog.Button) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		keyboardRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		rows = append(rows, keyboardRow)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := b.api.Send(msg)
	return err
}

// EditMessage replaces the text of a previously sent message, dropping its
// keyboard in the process.
func (b *Bot) EditMessage(_ context.Context, chatID int64, messageID int, text string) error {
	_, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
func (b *Bot) AnswerCallback(_ context.Context, callbackID string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}
