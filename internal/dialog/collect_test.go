package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/model/session"
)

func newCollectFixture(appender *fakeAppender) (*CollectDialog, *Dispatcher, *fakeReplier, session.Store) {
	replier := &fakeReplier{}
	sessions := session.NewMemoryStore()
	logger := zerolog.Nop()

	collect := NewCollectDialog(sessions, appender, replier, logger)
	search := NewSearchDialog(sessions, nil, replier, logger)
	dispatcher := NewDispatcher(sessions, collect, search, replier, logger)
	return collect, dispatcher, replier, sessions
}

func textEvent(userID int64, text string) Event {
	return Event{UserID: userID, ChatID: userID, UserName: "Ada", Text: text}
}

func commandEvent(userID int64, command string) Event {
	return Event{UserID: userID, ChatID: userID, UserName: "Ada", Command: command}
}

func callbackEvent(userID int64, data string) Event {
	return Event{
		UserID:   userID,
		ChatID:   userID,
		UserName: "Ada",
		Callback: &Callback{ID: "cb-1", Data: data, MessageID: 42},
	}
}

func TestFinishAppendsEntriesInOrder(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, textEvent(1, "first"))
	dispatcher.Handle(ctx, textEvent(1, "second"))
	dispatcher.Handle(ctx, textEvent(1, "third"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))

	require.Equal(t, 1, appender.calls)
	require.Equal(t, [][]string{{"first", "second", "third"}}, appender.rows)
	require.Equal(t, "Data successfully added to the dataset!", replier.lastEdit())

	_, ok := sessions.Get(1)
	require.False(t, ok, "session should be evicted after finish")
}

func TestFinishWithNoEntries(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))

	require.Zero(t, appender.calls, "no append should happen for an empty submission")
	require.Equal(t, "No data collected yet.", replier.lastEdit())

	_, ok := sessions.Get(1)
	require.False(t, ok)
}

func TestFinishWhenBackendUnavailable(t *testing.T) {
	appender := &fakeAppender{available: false}
	_, dispatcher, replier, _ := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, textEvent(1, "entry"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))

	require.Zero(t, appender.calls, "unavailable backend must never receive an append")
	require.Equal(t, "Sorry, could not connect to Google Sheets. Data not saved.", replier.lastEdit())
}

func TestFinishWhenAppendFails(t *testing.T) {
	appender := &fakeAppender{available: true, err: errors.New("quota exceeded")}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, textEvent(1, "entry"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))

	require.Equal(t, 1, appender.calls)
	require.Equal(t, "Sorry, there was an error adding data to the sheet.", replier.lastEdit())

	_, ok := sessions.Get(1)
	require.False(t, ok, "dialogue terminates even when the append fails")
}

func TestSubmitButtonPromptsForData(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackSubmit))

	require.Equal(t, "Okay, send me the data point.", replier.lastEdit())
	require.Equal(t, []string{"cb-1"}, replier.answered)

	s, ok := sessions.Get(1)
	require.True(t, ok)
	require.Equal(t, session.StateCollecting, s.State)
}

func TestCancelCommandDiscardsEntries(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, textEvent(1, "entry"))
	dispatcher.Handle(ctx, commandEvent(1, "cancel"))

	require.Equal(t, "Data submission cancelled. Bye!", replier.lastReply())
	_, ok := sessions.Get(1)
	require.False(t, ok)

	// A fresh /start begins with empty pending entries.
	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))
	require.Equal(t, "No data collected yet.", replier.lastEdit())
	require.Zero(t, appender.calls)
}

func TestCancelButtonDiscardsEntries(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, textEvent(1, "entry"))
	dispatcher.Handle(ctx, callbackEvent(1, CallbackCancel))

	require.Equal(t, "Data submission cancelled.", replier.lastEdit())
	_, ok := sessions.Get(1)
	require.False(t, ok)
	require.Zero(t, appender.calls)
}

func TestStaleCallbackGetsExpiryNotice(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, _ := newCollectFixture(appender)
	ctx := context.Background()

	// No /start first: the keyboard this callback came from is long gone.
	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))

	require.Equal(t, []string{"cb-1"}, replier.answered, "stale callbacks still get acknowledged")
	require.Equal(t, "This session has expired. Send /start to begin a new submission.", replier.lastReply())
	require.Zero(t, appender.calls)
}

func TestUnknownCallbackIsIgnored(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, sessions := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, callbackEvent(1, "bogus_action"))

	require.Empty(t, replier.edits)
	s, ok := sessions.Get(1)
	require.True(t, ok)
	require.Equal(t, session.StateCollecting, s.State)
}

func TestTwoUsersDoNotShareEntries(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, _, _ := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, commandEvent(2, "start"))
	dispatcher.Handle(ctx, textEvent(1, "alpha"))
	dispatcher.Handle(ctx, textEvent(2, "beta"))
	dispatcher.Handle(ctx, textEvent(1, "gamma"))

	dispatcher.Handle(ctx, callbackEvent(1, CallbackFinish))
	dispatcher.Handle(ctx, callbackEvent(2, CallbackFinish))

	require.Equal(t, [][]string{{"alpha", "gamma"}, {"beta"}}, appender.rows)
}

func TestStartPresentsInitialKeyboard(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, _ := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(7, "start"))

	require.Len(t, replier.replies, 1)
	require.Contains(t, replier.replies[0], "Hi Ada!")
	require.Equal(t, []string{"Please select an action:"}, replier.markupTexts)
	require.Equal(t, [][]Button{{
		{Label: "Submit Data Point", Data: CallbackSubmit},
		{Label: "Cancel", Data: CallbackCancel},
	}}, replier.lastButtons)
}

func TestTextWhileCollectingRepresentsKeyboard(t *testing.T) {
	appender := &fakeAppender{available: true}
	_, dispatcher, replier, _ := newCollectFixture(appender)
	ctx := context.Background()

	dispatcher.Handle(ctx, commandEvent(1, "start"))
	dispatcher.Handle(ctx, textEvent(1, "entry"))

	require.Equal(t, "Received your data point. Add another one or use the buttons.", replier.lastReply())
	require.Equal(t, "What would you like to do next?", replier.markupTexts[len(replier.markupTexts)-1])
	require.Equal(t, [][]Button{{
		{Label: "Add More Data", Data: CallbackAddMore},
		{Label: "Finish Submission", Data: CallbackFinish},
		{Label: "Cancel", Data: CallbackCancel},
	}}, replier.lastButtons)
}
