package tracking

// Options tune a Session. ScrollSlack is passed to the scroll monitor as is;
// callers normally use DefaultScrollSlack.
type Options struct {
	ScrollSlack int
	ApplyStale  bool
}

// Session ties the debouncer, the paged controller and the scroll monitor
// together for one tracking screen instance.
type Session struct {
	query     string
	committed string
	debounce  Debouncer
	ctrl      *Controller
	monitor   ScrollMonitor
}

func NewSession(opts Options) *Session {
	return &Session{
		ctrl:    NewController(opts.ApplyStale),
		monitor: NewScrollMonitor(opts.ScrollSlack),
	}
}

// Query is the current input text; empty means no active search.
func (s *Session) Query() string { return s.query }

// Committed is the query the current result list belongs to.
func (s *Session) Committed() string { return s.committed }

func (s *Session) State() PagingState { return s.ctrl.State() }

func (s *Session) Items() []Parcel { return s.ctrl.Items() }

func (s *Session) Len() int { return s.ctrl.Len() }

func (s *Session) Controller() *Controller { return s.ctrl }

// Input records a text change and returns the debounce ticket to fire once
// the quiet interval has passed.
func (s *Session) Input(text string) uint64 {
	s.query = text
	return s.debounce.Bump(text)
}

// Commit fires a debounce ticket. When the ticket is current the list and
// paging state are reset and, for a non-empty query, page 1 is requested.
// committed is false for superseded tickets.
func (s *Session) Commit(ticket uint64) (req Request, adm Admission, committed bool) {
	query, ok := s.debounce.Fire(ticket)
	if !ok {
		return Request{}, Dropped, false
	}

	s.committed = query
	s.ctrl.Reset()
	if query == "" {
		return Request{}, Dropped, true
	}
	req, adm = s.ctrl.RequestPage(query, 1)
	return req, adm, true
}

// Scrolled feeds one scroll sample. Near the bottom, with more data and
// nothing loading, the next page of the committed query is requested.
func (s *Session) Scrolled(sample ScrollSample) (Request, Admission) {
	st := s.ctrl.State()
	if s.committed == "" || s.ctrl.Len() == 0 || !st.HasMore || st.Loading {
		return Request{}, Dropped
	}
	if !s.monitor.NearBottom(sample) {
		return Request{}, Dropped
	}
	return s.ctrl.RequestPage(s.committed, st.Page+1)
}

func (s *Session) Complete(req Request, items []Parcel, err error) (Outcome, Request, bool) {
	return s.ctrl.Complete(req, items, err)
}

// Blur resets the query, the list and the paging state. A pending debounce
// is cancelled so it cannot commit after the screen was left.
func (s *Session) Blur() {
	s.query = ""
	s.committed = ""
	s.debounce.Cancel()
	s.ctrl.Reset()
}
