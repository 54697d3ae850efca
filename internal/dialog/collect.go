package dialog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/session"
)

// CollectDialog drives the data collection conversation: /start opens a
// session, each text message accumulates one entry, and the inline keyboard
// finishes or cancels the submission.
type CollectDialog struct {
	sessions session.Store
	rows     RowAppender
	replier  Replier
	logger   zerolog.Logger
}

// NewCollectDialog wires the collection dialogue to its collaborators.
func NewCollectDialog(sessions session.Store, rows RowAppender, replier Replier, logger zerolog.Logger) *CollectDialog {
	return &CollectDialog{
		sessions: sessions,
		rows:     rows,
		replier:  replier,
		logger:   logger,
	}
}

// Start handles /start: greets the user, resets pending entries, and presents
// the initial action keyboard. Any previous session for the user is replaced.
func (d *CollectDialog) Start(ctx context.Context, ev Event) error {
	d.sessions.Create(ev.UserID, session.StateCollecting)

	greeting := fmt.Sprintf(
		"Hi %s! I'm a bot to help you collect data for your AI model. "+
			"Send me the data you want to add to the dataset. Type /cancel to stop at any time.",
		ev.UserName,
	)
	if err := d.replier.Reply(ctx, ev.ChatID, greeting); err != nil {
		return err
	}

	return d.replier.ReplyWithMarkup(ctx, ev.ChatID, "Please select an action:", [][]Button{{
		{Label: "Submit Data Point", Data: CallbackSubmit},
		{Label: "Cancel", Data: CallbackCancel},
	}})
}

// HandleText appends one data point to the session and re-presents the action
// keyboard. The dialogue stays in the collecting state.
func (d *CollectDialog) HandleText(ctx context.Context, ev Event, s session.Session) error {
	s.PendingEntries = append(s.PendingEntries, ev.Text)
	d.sessions.Put(s)

	if err := d.replier.Reply(ctx, ev.ChatID, "Received your data point. Add another one or use the buttons."); err != nil {
		return err
	}

	return d.replier.ReplyWithMarkup(ctx, ev.ChatID, "What would you like to do next?", [][]Button{{
		{Label: "Add More Data", Data: CallbackAddMore},
		{Label: "Finish Submission", Data: CallbackFinish},
		{Label: "Cancel", Data: CallbackCancel},
	}})
}

// HandleCallback processes a button press. active reports whether the user has
// a live collecting session; a press on a stale keyboard (after finish/cancel)
// is acknowledged and answered with an expiry notice instead of guessing.
func (d *CollectDialog) HandleCallback(ctx context.Context, ev Event, s session.Session, active bool) error {
	if err := d.replier.AnswerCallback(ctx, ev.Callback.ID); err != nil {
		return err
	}

	if !active {
		return d.replier.Reply(ctx, ev.ChatID, "This session has expired. Send /start to begin a new submission.")
	}

	switch ev.Callback.Data {
	case CallbackSubmit, CallbackAddMore:
		return d.replier.EditMessage(ctx, ev.ChatID, ev.Callback.MessageID, "Okay, send me the data point.")

	case CallbackFinish:
		return d.finish(ctx, ev, s)

	case CallbackCancel:
		d.sessions.Delete(ev.UserID)
		return d.replier.EditMessage(ctx, ev.ChatID, ev.Callback.MessageID, "Data submission cancelled.")

	default:
		d.logger.Debug().Str("data", ev.Callback.Data).Int64("user_id", ev.UserID).Msg("ignoring unknown callback")
		return nil
	}
}

// finish commits the pending entries as one row. The session terminates on
// every branch; entries are discarded whether or not the append succeeded.
func (d *CollectDialog) finish(ctx context.Context, ev Event, s session.Session) error {
	d.sessions.Delete(ev.UserID)

	if len(s.PendingEntries) == 0 {
		return d.replier.EditMessage(ctx, ev.ChatID, ev.Callback.MessageID, "No data collected yet.")
	}

	if !d.rows.Available() {
		d.logger.Warn().Int64("user_id", ev.UserID).Msg("finish requested but sheets backend is unavailable")
		return d.replier.EditMessage(ctx, ev.ChatID, ev.Callback.MessageID,
			"Sorry, could not connect to Google Sheets. Data not saved.")
	}

	if err := d.rows.AppendRow(ctx, s.PendingEntries); err != nil {
		d.logger.Error().Err(err).Int64("user_id", ev.UserID).Msg("error appending data to sheet")
		return d.replier.EditMessage(ctx, ev.ChatID, ev.Callback.MessageID,
			"Sorry, there was an error adding data to the sheet.")
	}

	d.logger.Info().Int64("user_id", ev.UserID).Int("entries", len(s.PendingEntries)).Msg("data added to sheet")
	return d.replier.EditMessage(ctx, ev.ChatID, ev.Callback.MessageID, "Data successfully added to the dataset!")
}

// Cancel handles the /cancel command while collecting: pending entries are
// discarded and the session ends.
func (d *CollectDialog) Cancel(ctx context.Context, ev Event) error {
	d.sessions.Delete(ev.UserID)
	return d.replier.Reply(ctx, ev.ChatID, "Data submission cancelled. Bye!")
}
