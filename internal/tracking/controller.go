package tracking

import (
	"slices"

	"github.com/pders01/shopr/internal/debuglog"
)

// Request identifies one page fetch. Generation is the session generation the
// request was issued under; a reset bumps it so late responses can be told apart.
type Request struct {
	Query      string
	Page       int
	Generation uint64
}

// Admission says what RequestPage did with a request.
type Admission int

const (
	// Dropped: a fetch is already loading or the end of data was reached.
	Dropped Admission = iota
	// Dispatched: the caller must run the returned request now.
	Dispatched
	// Deferred: accepted, but a fetch from an earlier generation is still
	// outstanding. Complete hands the request back once that one settles.
	Deferred
)

func (a Admission) String() string {
	switch a {
	case Dropped:
		return "dropped"
	case Dispatched:
		return "dispatched"
	case Deferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Outcome describes how a completed fetch changed the result list.
type Outcome int

const (
	Replaced Outcome = iota
	Appended
	EndOfData
	Failed
	// Stale: the response belonged to an earlier generation and was dropped.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Replaced:
		return "replaced"
	case Appended:
		return "appended"
	case EndOfData:
		return "end-of-data"
	case Failed:
		return "failed"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Controller owns the result list and paging state of a search session.
// At most one network fetch is outstanding at any time, across resets too.
// It is not safe for concurrent use; the TUI drives it from Update only.
type Controller struct {
	state      PagingState
	items      []Parcel
	generation uint64
	settled    int // last page whose response arrived
	inFlight   *Request
	queued     *Request
	applyStale bool
}

// NewController returns a controller in the initial state. With applyStale
// set, responses from a previous generation are merged into the current list
// instead of being dropped.
func NewController(applyStale bool) *Controller {
	return &Controller{
		state:      InitialState(),
		settled:    1,
		applyStale: applyStale,
	}
}

func (c *Controller) State() PagingState { return c.state }

func (c *Controller) Generation() uint64 { return c.generation }

// Items returns a copy of the accumulated result list.
func (c *Controller) Items() []Parcel { return slices.Clone(c.items) }

func (c *Controller) Len() int { return len(c.items) }

// InFlight reports whether a network fetch is outstanding, whatever its generation.
func (c *Controller) InFlight() bool { return c.inFlight != nil }

// RequestPage admits a fetch of page for query. A request made while loading
// or after the end of data is dropped without touching any state.
func (c *Controller) RequestPage(query string, page int) (Request, Admission) {
	if c.state.Loading || !c.state.HasMore {
		return Request{}, Dropped
	}
	if page < 1 {
		page = 1
	}

	req := Request{Query: query, Page: page, Generation: c.generation}
	c.state.Loading = true
	c.state.Page = page

	if c.inFlight != nil {
		c.queued = &req
		return req, Deferred
	}
	c.inFlight = &req
	return req, Dispatched
}

// Complete applies the response to req. When a deferred request becomes
// runnable it is returned with ok set and the caller must dispatch it.
func (c *Controller) Complete(req Request, items []Parcel, err error) (outcome Outcome, next Request, ok bool) {
	if c.inFlight == nil || *c.inFlight != req {
		return Stale, Request{}, false
	}
	c.inFlight = nil

	if c.queued != nil {
		next, ok = *c.queued, true
		c.queued = nil
		c.inFlight = &next
	}

	if req.Generation != c.generation {
		outcome = Stale
		if c.applyStale && err == nil {
			c.merge(req.Page, items)
		}
		c.state.Loading = ok
		debuglog.WithFields(debuglog.Fields{"query": req.Query, "page": req.Page}).
			Debugf("late response for generation %d (current %d)", req.Generation, c.generation)
		return outcome, next, ok
	}

	c.state.Loading = false

	if err != nil {
		debuglog.WithFields(debuglog.Fields{"query": req.Query, "page": req.Page}).
			Errorf("fetching tracking data: %v", err)
		// Step back to the last page that arrived so the next scroll asks for
		// the failed page again.
		c.state.Page = c.settled
		return Failed, next, ok
	}

	c.settled = req.Page
	return c.merge(req.Page, items), next, ok
}

func (c *Controller) merge(page int, items []Parcel) Outcome {
	if len(items) == 0 {
		c.state.HasMore = false
		return EndOfData
	}
	if page == 1 {
		c.items = slices.Clone(items)
		return Replaced
	}
	c.items = append(c.items, items...)
	return Appended
}

// Reset empties the list and returns the paging state to its initial value.
// A fetch still outstanding keeps its slot; its response will be stale.
func (c *Controller) Reset() {
	c.generation++
	c.items = nil
	c.state = InitialState()
	c.settled = 1
	c.queued = nil
}
