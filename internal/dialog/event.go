// Package dialog implements the bot's two conversation state machines and the
// dispatcher that routes transport events between them. The messaging
// transport, spreadsheet backend, and search backend are all reached through
// the small interfaces below so the dialogues stay testable without Telegram
// or Google credentials.
package dialog

import (
	"context"

	searchmodel "github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/search"
)

// Callback data values carried by the inline keyboard buttons.
const (
	CallbackSubmit  = "submit_data"
	CallbackAddMore = "add_more_data"
	CallbackFinish  = "finish_submission"
	CallbackCancel  = "cancel_submission"
)

// Event is one inbound transport event: either a command, a plain text
// message, or a button press (Callback non-nil).
type Event struct {
	UserID   int64
	ChatID   int64
	UserName string
	Command  string
	Text     string
	Callback *Callback
}

// Callback describes a button press on a previously sent inline keyboard.
type Callback struct {
	ID        string
	Data      string
	MessageID int
}

// Button is one inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Replier abstracts the transport's outbound operations.
type Replier interface {
	Reply(ctx context.Context, chatID int64, text string) error
	ReplyWithMarkup(ctx context.Context, chatID int64, text string, buttons [][]Button) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// RowAppender abstracts the spreadsheet backend.
type RowAppender interface {
	Available() bool
	AppendRow(ctx context.Context, row []string) error
}

// Searcher abstracts the search backend.
type Searcher interface {
	Search(ctx context.Context, queries []string) ([]searchmodel.ResultSet, error)
}
