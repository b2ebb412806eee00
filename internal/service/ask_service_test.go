package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"askgov-sg/internal/constant"
	"askgov-sg/internal/repository/memory"
	"askgov-sg/pkg/answer"
	"askgov-sg/pkg/events"
	"askgov-sg/pkg/search"
	"askgov-sg/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cpfResults = []search.SearchResult{
	{Title: "CPF LIFE", Snippet: "Monthly payouts", URL: "https://www.cpf.gov.sg/life"},
	{Title: "Retirement Sum", Snippet: "BRS, FRS, ERS", URL: "https://www.cpf.gov.sg/rs"},
}

func newAskFixture(searcher *fakeSearcher, composer *fakeComposer) (IAskService, *recordingPublisher, *recordingLogger) {
	pub := &recordingPublisher{}
	log := &recordingLogger{}
	svc := NewAskService(searcher, composer, passthroughRenderer{}, memory.NewSessionRepository(time.Hour), pub, log)
	return svc, pub, log
}

func TestAskService_EmptyQueryIsIdle(t *testing.T) {
	searcher := &fakeSearcher{results: cpfResults}
	composer := &fakeComposer{reply: "x"}
	svc, pub, _ := newAskFixture(searcher, composer)

	res := svc.Ask(context.Background(), store.NewSession("sid"), "   \t ")

	assert.Equal(t, constant.AskStateIdle, res.State)
	assert.Equal(t, constant.MsgEmptyQuery, res.Warning)
	assert.Zero(t, searcher.calls)
	assert.Zero(t, composer.calls)
	assert.Empty(t, pub.published)
}

func TestAskService_Answered(t *testing.T) {
	searcher := &fakeSearcher{results: cpfResults}
	composer := &fakeComposer{reply: "You can withdraw from 55."}
	svc, pub, _ := newAskFixture(searcher, composer)
	s := store.NewSession("sid")

	res := svc.Ask(context.Background(), s, "  When can I withdraw my CPF?  ")

	assert.Equal(t, constant.AskStateAnswered, res.State)
	assert.Equal(t, "When can I withdraw my CPF?", res.Query)
	assert.Equal(t, constant.MsgAnswerReady, res.Notice)
	assert.Equal(t, "You can withdraw from 55.", res.Answer)
	assert.Equal(t, "<p>You can withdraw from 55.</p>", res.AnswerHTML)
	assert.Empty(t, res.Error)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "https://www.cpf.gov.sg/life", res.Sources[0].URL)
	assert.Equal(t, 1, composer.calls)
	assert.Equal(t, store.DefaultQueryContext(), composer.qctx)

	require.Len(t, pub.published, 1)
	evt, ok := pub.published[0].(events.QueryCompleted)
	require.True(t, ok)
	assert.Equal(t, "sid", evt.SessionID)
	assert.Equal(t, constant.AskStateAnswered, evt.State)
	assert.Equal(t, 2, evt.SourceCount)
	assert.Equal(t, len("When can I withdraw my CPF?"), evt.QueryLength)
}

func TestAskService_NoResultsSkipsComposer(t *testing.T) {
	searcher := &fakeSearcher{results: []search.SearchResult{}}
	composer := &fakeComposer{reply: "should not be used"}
	svc, pub, _ := newAskFixture(searcher, composer)

	res := svc.Ask(context.Background(), store.NewSession("sid"), "asdfghjkl")

	assert.Equal(t, constant.AskStateNoResults, res.State)
	assert.Equal(t, constant.MsgNoResults, res.Warning)
	assert.Empty(t, res.Error)
	assert.Empty(t, res.Sources)
	assert.Zero(t, composer.calls)
	require.Len(t, pub.published, 1)
}

func TestAskService_SearchFailureDegradesToNoResults(t *testing.T) {
	searcher := &fakeSearcher{results: []search.SearchResult{}, err: fmt.Errorf("%w: status 500", search.ErrSearchUnavailable)}
	composer := &fakeComposer{}
	svc, _, log := newAskFixture(searcher, composer)

	res := svc.Ask(context.Background(), store.NewSession("sid"), "When can I withdraw my CPF?")

	assert.Equal(t, constant.AskStateNoResults, res.State)
	assert.Contains(t, res.Error, "Error fetching search results")
	assert.Contains(t, res.Error, "status 500")
	assert.Zero(t, composer.calls)

	var warned bool
	for _, e := range log.snapshot() {
		if e.level == "warn" && e.module == "ASK" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestAskService_ComposerFailure(t *testing.T) {
	searcher := &fakeSearcher{results: cpfResults}
	composer := &fakeComposer{err: errors.Join(answer.ErrAnswerUnavailable, errors.New("boom"))}
	svc, pub, _ := newAskFixture(searcher, composer)

	res := svc.Ask(context.Background(), store.NewSession("sid"), "When can I withdraw my CPF?")

	assert.Equal(t, constant.AskStateError, res.State)
	assert.Equal(t, constant.MsgAnswerUnavailable, res.Error)
	assert.Empty(t, res.Answer)
	assert.Len(t, res.Sources, 2)
	require.Len(t, pub.published, 1)
	assert.Equal(t, constant.AskStateError, pub.published[0].(events.QueryCompleted).State)
}

func TestAskService_UsesSessionContext(t *testing.T) {
	searcher := &fakeSearcher{results: cpfResults}
	composer := &fakeComposer{reply: "ok"}
	svc, _, _ := newAskFixture(searcher, composer)
	s := store.NewSession("sid")
	require.NoError(t, svc.UpdateContext(context.Background(), s, store.QueryContext{Location: store.LocationOthers, Need: store.NeedCPF}))

	res := svc.Ask(context.Background(), s, "Can foreigners open CPF?")

	assert.Equal(t, string(store.LocationOthers), res.Location)
	assert.Equal(t, store.LocationOthers, composer.qctx.Location)
}

func TestAskService_UpdateContextPersists(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	svc := NewAskService(&fakeSearcher{}, &fakeComposer{}, passthroughRenderer{}, repo, nil, &recordingLogger{})
	s := store.NewSession("sid")

	err := svc.UpdateContext(context.Background(), s, store.QueryContext{Location: store.LocationOthers, Need: store.NeedCPF})
	require.NoError(t, err)

	saved, ok, err := repo.Get(context.Background(), "sid")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, store.LocationOthers, saved.Location)
}
