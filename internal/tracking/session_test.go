package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSearcher serves fixed pages per query and records every call.
type pagedSearcher struct {
	pages map[string][][]Parcel
	fail  map[int]error
	calls []Request
}

func (p *pagedSearcher) SearchParcels(_ context.Context, query string, page int) ([]Parcel, error) {
	p.calls = append(p.calls, Request{Query: query, Page: page})
	if err := p.fail[page]; err != nil {
		return nil, err
	}
	pages := p.pages[query]
	if page < 1 || page > len(pages) {
		return nil, nil
	}
	return pages[page-1], nil
}

// run executes req against the searcher and feeds the result back, following
// any deferred request the controller hands out.
func run(t *testing.T, s *Session, src Searcher, req Request) Outcome {
	t.Helper()
	var outcome Outcome
	for {
		items, err := src.SearchParcels(context.Background(), req.Query, req.Page)
		var next Request
		var ok bool
		outcome, next, ok = s.Complete(req, items, err)
		if !ok {
			return outcome
		}
		req = next
	}
}

func typeAndCommit(t *testing.T, s *Session, text string) (Request, Admission) {
	t.Helper()
	req, adm, committed := s.Commit(s.Input(text))
	require.True(t, committed)
	return req, adm
}

func bottom() ScrollSample { return ScrollSample{Offset: 100, Viewport: 20, Content: 120} }

func TestSession_CommitResetsBeforeFirstFetch(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{
		"017": {{parcelA, parcelB}, {parcelC}},
		"018": {{parcelD}},
	}}
	s := NewSession(Options{})

	req, adm := typeAndCommit(t, s, "017")
	require.Equal(t, Dispatched, adm)
	run(t, s, src, req)
	req, adm = s.Scrolled(bottom())
	require.Equal(t, Dispatched, adm)
	run(t, s, src, req)
	require.Equal(t, 2, s.State().Page)

	ticket := s.Input("018")
	req, adm, _ = s.Commit(ticket)

	// Reset happened before page 1 of the new query was issued.
	assert.Equal(t, Dispatched, adm)
	assert.Equal(t, Request{Query: "018", Page: 1, Generation: s.Controller().Generation()}, req)
	assert.Empty(t, s.Items())
	assert.Equal(t, PagingState{Page: 1, HasMore: true, Loading: true}, s.State())
}

func TestSession_BurstCommitsOnlyLastValue(t *testing.T) {
	s := NewSession(Options{})

	var tickets []uint64
	for _, text := range []string{"0", "01", "017"} {
		tickets = append(tickets, s.Input(text))
	}

	var committed []Request
	for _, tk := range tickets {
		if req, adm, ok := s.Commit(tk); ok {
			require.Equal(t, Dispatched, adm)
			committed = append(committed, req)
		}
	}

	require.Len(t, committed, 1)
	assert.Equal(t, "017", committed[0].Query)
	assert.Equal(t, "017", s.Committed())
}

func TestSession_EmptyQuerySuppressesFetch(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{"017": {{parcelA}}}}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)
	require.Equal(t, 1, s.Len())

	_, adm := typeAndCommit(t, s, "")

	assert.Equal(t, Dropped, adm)
	assert.Empty(t, s.Items())
	assert.Equal(t, InitialState(), s.State())
	assert.Len(t, src.calls, 1, "empty query must not reach the searcher")

	_, adm = s.Scrolled(bottom())
	assert.Equal(t, Dropped, adm)
}

func TestSession_ScrollFetchesPagesInOrder(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{
		"017": {{parcelA, parcelB}, {parcelC, parcelD}},
	}}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)

	// Not near the bottom yet.
	_, adm := s.Scrolled(ScrollSample{Offset: 0, Viewport: 10, Content: 100})
	assert.Equal(t, Dropped, adm)

	req, adm = s.Scrolled(bottom())
	require.Equal(t, Dispatched, adm)
	assert.Equal(t, 2, req.Page)

	// A second tick while page 2 loads is ignored.
	_, adm = s.Scrolled(bottom())
	assert.Equal(t, Dropped, adm)

	run(t, s, src, req)
	assert.Equal(t, []Parcel{parcelA, parcelB, parcelC, parcelD}, s.Items())

	// Page 3 is empty, after which scrolling stops asking.
	req, adm = s.Scrolled(bottom())
	require.Equal(t, Dispatched, adm)
	assert.Equal(t, EndOfData, run(t, s, src, req))

	_, adm = s.Scrolled(bottom())
	assert.Equal(t, Dropped, adm)
	assert.Len(t, src.calls, 3)
}

func TestSession_EmptyFirstPageStopsScrolling(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{}}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "999")
	assert.Equal(t, EndOfData, run(t, s, src, req))

	assert.False(t, s.State().HasMore)
	assert.Empty(t, s.Items())

	_, adm := s.Scrolled(bottom())
	assert.Equal(t, Dropped, adm)
	assert.Len(t, src.calls, 1)
}

func TestSession_NewQueryReplacesList(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{
		"017": {{parcelA, parcelB}, {parcelC}},
		"018": {{parcelD}},
	}}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)
	require.Equal(t, []Parcel{parcelA, parcelB}, s.Items())

	req, _ = typeAndCommit(t, s, "018")
	run(t, s, src, req)

	assert.Equal(t, []Parcel{parcelD}, s.Items())
}

func TestSession_NewQueryWhileFetchOutstanding(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{
		"017": {{parcelA, parcelB}},
		"018": {{parcelD}},
	}}
	s := NewSession(Options{})

	old, adm := typeAndCommit(t, s, "017")
	require.Equal(t, Dispatched, adm)

	// The user keeps typing before page 1 of "017" has returned.
	_, adm = typeAndCommit(t, s, "018")
	require.Equal(t, Deferred, adm)

	items, err := src.SearchParcels(context.Background(), old.Query, old.Page)
	require.NoError(t, err)
	outcome, next, ok := s.Complete(old, items, err)
	require.Equal(t, Stale, outcome)
	require.True(t, ok)
	assert.Empty(t, s.Items())

	run(t, s, src, next)
	assert.Equal(t, []Parcel{parcelD}, s.Items())
}

func TestSession_ScrollUsesCommittedQuery(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{
		"017": {{parcelA}, {parcelB}},
	}}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)

	// Typed but not yet committed.
	s.Input("0179")
	req, adm := s.Scrolled(bottom())
	require.Equal(t, Dispatched, adm)
	assert.Equal(t, "017", req.Query)
}

func TestSession_FailureThenRetryByScrolling(t *testing.T) {
	src := &pagedSearcher{
		pages: map[string][][]Parcel{"017": {{parcelA}, {parcelB}}},
		fail:  map[int]error{2: errors.New("bad gateway")},
	}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)

	req, _ = s.Scrolled(bottom())
	assert.Equal(t, Failed, run(t, s, src, req))
	assert.Equal(t, []Parcel{parcelA}, s.Items())
	assert.Equal(t, PagingState{Page: 1, HasMore: true}, s.State())

	delete(src.fail, 2)
	req, adm := s.Scrolled(bottom())
	require.Equal(t, Dispatched, adm)
	assert.Equal(t, 2, req.Page)
	run(t, s, src, req)
	assert.Equal(t, []Parcel{parcelA, parcelB}, s.Items())
}

func TestSession_BlurResetsEverything(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{
		"017": {{parcelA}, {parcelB}, {parcelC}},
	}}
	s := NewSession(Options{})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)
	req, _ = s.Scrolled(bottom())
	run(t, s, src, req)
	require.Equal(t, 2, s.State().Page)
	require.Len(t, s.Items(), 2)

	s.Blur()

	assert.Equal(t, "", s.Query())
	assert.Equal(t, "", s.Committed())
	assert.Empty(t, s.Items())
	assert.Equal(t, PagingState{Page: 1, HasMore: true, Loading: false}, s.State())
}

func TestSession_BlurCancelsPendingDebounce(t *testing.T) {
	s := NewSession(Options{})

	ticket := s.Input("017")
	s.Blur()

	_, _, committed := s.Commit(ticket)
	assert.False(t, committed)
	assert.Empty(t, s.Items())
}

func TestSession_CustomSlack(t *testing.T) {
	src := &pagedSearcher{pages: map[string][][]Parcel{"017": {{parcelA}, {parcelB}}}}
	s := NewSession(Options{ScrollSlack: 2})

	req, _ := typeAndCommit(t, s, "017")
	run(t, s, src, req)

	_, adm := s.Scrolled(ScrollSample{Offset: 0, Viewport: 10, Content: 15})
	assert.Equal(t, Dropped, adm)

	_, adm = s.Scrolled(ScrollSample{Offset: 3, Viewport: 10, Content: 15})
	assert.Equal(t, Dispatched, adm)
}
