package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	searchmodel "github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/search"
	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/session"
)

// SearchDialog drives the search conversation: /search prompts for a query,
// the next text message is the complete query, and the dialogue ends after one
// round trip to the search backend.
type SearchDialog struct {
	sessions session.Store
	searcher Searcher
	replier  Replier
	logger   zerolog.Logger
}

// NewSearchDialog wires the search dialogue to its collaborators. A nil
// searcher means the feature is not configured; queries get a short notice.
func NewSearchDialog(sessions session.Store, searcher Searcher, replier Replier, logger zerolog.Logger) *SearchDialog {
	return &SearchDialog{
		sessions: sessions,
		searcher: searcher,
		replier:  replier,
		logger:   logger,
	}
}

// Start handles /search: prompts for the query and opens a session.
func (d *SearchDialog) Start(ctx context.Context, ev Event) error {
	d.sessions.Create(ev.UserID, session.StateAwaitingQuery)
	return d.replier.Reply(ctx, ev.ChatID, "What would you like to search for?")
}

// HandleQuery treats the message as the complete query, runs the search, and
// renders the outcome. The session terminates regardless of the result.
func (d *SearchDialog) HandleQuery(ctx context.Context, ev Event) error {
	d.sessions.Delete(ev.UserID)

	if err := d.replier.Reply(ctx, ev.ChatID, fmt.Sprintf("Searching for '%s'...", ev.Text)); err != nil {
		return err
	}

	if d.searcher == nil {
		return d.replier.Reply(ctx, ev.ChatID, "Search is not configured on this bot.")
	}

	sets, err := d.searcher.Search(ctx, []string{ev.Text})
	if err != nil {
		d.logger.Error().Err(err).Str("query", ev.Text).Msg("error during search")
		return d.replier.Reply(ctx, ev.ChatID, "Sorry, an error occurred while performing the search.")
	}

	if len(sets) == 0 || len(sets[0].Results) == 0 {
		return d.replier.Reply(ctx, ev.ChatID, "No search results found.")
	}

	return d.replier.Reply(ctx, ev.ChatID, renderResults(sets[0].Results))
}

// Cancel handles /cancel while a query is pending.
func (d *SearchDialog) Cancel(ctx context.Context, ev Event) error {
	d.sessions.Delete(ev.UserID)
	return d.replier.Reply(ctx, ev.ChatID, "Search cancelled.")
}

// renderResults formats results in input order, one blank line between
// records, with "N/A" standing in for missing fields.
func renderResults(results []searchmodel.Result) string {
	var b strings.Builder
	b.WriteString("Search Results:\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "Title: %s\n", orNA(r.SourceTitle))
		fmt.Fprintf(&b, "URL: %s\n", orNA(r.URL))
		fmt.Fprintf(&b, "Snippet: %s\n\n", orNA(r.Snippet))
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
