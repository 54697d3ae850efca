package dialog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/session"
)

const usageHint = "Send /start to submit data points or /search to run a web search."

// Dispatcher owns the session store and routes each inbound event to the
// dialogue holding the user's current state. Users with no active session can
// only trigger the /start and /search entry points.
type Dispatcher struct {
	sessions session.Store
	collect  *CollectDialog
	search   *SearchDialog
	replier  Replier
	logger   zerolog.Logger
}

// NewDispatcher wires the dispatcher to both dialogues and the shared store.
func NewDispatcher(sessions session.Store, collect *CollectDialog, search *SearchDialog, replier Replier, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		collect:  collect,
		search:   search,
		replier:  replier,
		logger:   logger,
	}
}

// Handle routes one event. Reply failures are logged, never propagated: a lost
// outbound message must not take the poll loop down.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	var err error

	switch {
	case ev.Callback != nil:
		// Button presses belong to the collection dialogue only while it is
		// active; anything else is a stale keyboard.
		s, ok := d.sessions.Get(ev.UserID)
		active := ok && s.State == session.StateCollecting
		err = d.collect.HandleCallback(ctx, ev, s, active)

	case ev.Command == "start":
		err = d.collect.Start(ctx, ev)

	case ev.Command == "search":
		err = d.search.Start(ctx, ev)

	case ev.Command == "cancel":
		err = d.cancel(ctx, ev)

	case ev.Command != "":
		err = d.replier.Reply(ctx, ev.ChatID, usageHint)

	default:
		err = d.text(ctx, ev)
	}

	if err != nil {
		d.logger.Error().Err(err).Int64("user_id", ev.UserID).Msg("event handling failed")
	}
}

func (d *Dispatcher) cancel(ctx context.Context, ev Event) error {
	s, ok := d.sessions.Get(ev.UserID)
	switch {
	case ok && s.State == session.StateCollecting:
		return d.collect.Cancel(ctx, ev)
	case ok && s.State == session.StateAwaitingQuery:
		return d.search.Cancel(ctx, ev)
	default:
		return d.replier.Reply(ctx, ev.ChatID, "Nothing to cancel.")
	}
}

func (d *Dispatcher) text(ctx context.Context, ev Event) error {
	s, ok := d.sessions.Get(ev.UserID)
	switch {
	case ok && s.State == session.StateCollecting:
		return d.collect.HandleText(ctx, ev, s)
	case ok && s.State == session.StateAwaitingQuery:
		return d.search.HandleQuery(ctx, ev)
	default:
		return d.replier.Reply(ctx, ev.ChatID, usageHint)
	}
}
