package dialog

import (
	"context"

	searchmodel "github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/search"
)

// fakeReplier records every outbound call so tests can assert on message
// content and ordering.
type fakeReplier struct {
	replies     []string
	markupTexts []string
	lastButtons [][]Button
	edits       []string
	answered    []string
}

func (f *fakeReplier) Reply(_ context.Context, _ int64, text string) error {
	f.replies = append(f.replies, text)
	return nil
}

func (f *fakeReplier) ReplyWithMarkup(_ context.Context, _ int64, text string, buttons [][]Button) error {
	f.markupTexts = append(f.markupTexts, text)
	f.lastButtons = buttons
	return nil
}

func (f *fakeReplier) EditMessage(_ context.Context, _ int64, _ int, text string) error {
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeReplier) AnswerCallback(_ context.Context, callbackID string) error {
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeReplier) lastReply() string {
	if len(f.replies) == 0 {
		return ""
	}
	return f.replies[len(f.replies)-1]
}

func (f *fakeReplier) lastEdit() string {
	if len(f.edits) == 0 {
		return ""
	}
	return f.edits[len(f.edits)-1]
}

type fakeAppender struct {
	available bool
	err       error
	rows      [][]string
	calls     int
}

func (f *fakeAppender) Available() bool { return f.available }

func (f *fakeAppender) AppendRow(_ context.Context, row []string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, append([]string(nil), row...))
	return nil
}

type fakeSearcher struct {
	sets    []searchmodel.ResultSet
	err     error
	queries [][]string
}

func (f *fakeSearcher) Search(_ context.Context, queries []string) ([]searchmodel.ResultSet, error) {
	f.queries = append(f.queries, append([]string(nil), queries...))
	if f.err != nil {
		return nil, f.err
	}
	return f.sets, nil
}
