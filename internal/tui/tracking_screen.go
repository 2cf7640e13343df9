package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/shopr/internal/config"
	"github.com/pders01/shopr/internal/debuglog"
	"github.com/pders01/shopr/internal/tracking"
	"github.com/pders01/shopr/internal/validation"
)

// Every card renders to exactly this many lines: four fields plus the
// top and bottom border.
const cardLines = 6

const inputLines = 3

type trackingScreen struct {
	theme    Theme
	keys     KeyMap
	searcher tracking.Searcher
	session  *tracking.Session
	debounce time.Duration
	timeout  time.Duration
	maxQuery int

	input   textinput.Model
	results viewport.Model
	detail  viewport.Model
	spinner spinner.Model

	cursor     int
	showDetail bool
	detailFor  string

	renderer      *glamour.TermRenderer
	rendererWidth int
	width         int
	height        int
}

func newTrackingScreen(cfg *config.Config, theme Theme, keys KeyMap, searcher tracking.Searcher) *trackingScreen {
	ti := textinput.New()
	ti.Placeholder = MsgSearchPlaceholder
	ti.CharLimit = cfg.Search.MaxQueryLength
	ti.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return &trackingScreen{
		theme:    theme,
		keys:     keys,
		searcher: searcher,
		session: tracking.NewSession(tracking.Options{
			ScrollSlack: cfg.Search.ScrollSlack,
			ApplyStale:  !cfg.Search.DiscardStale,
		}),
		debounce: cfg.Search.Debounce,
		timeout:  cfg.API.Timeout,
		maxQuery: cfg.Search.MaxQueryLength,
		input:    ti,
		results:  viewport.New(0, 0),
		detail:   viewport.New(0, 0),
		spinner:  sp,
	}
}

func (s *trackingScreen) focus() tea.Cmd {
	return s.input.Focus()
}

// blur resets the search session, the input and the result view.
func (s *trackingScreen) blur() {
	s.session.Blur()
	s.input.Reset()
	s.input.Blur()
	s.cursor = 0
	s.closeDetail()
	s.results.GotoTop()
	s.refresh()
}

func (s *trackingScreen) setSize(width, height int) {
	s.width = width
	s.height = height

	s.input.Width = max(width-8, 10)
	s.results.Width = width
	s.results.Height = max(height-inputLines, 1)
	s.detail.Width = width
	s.detail.Height = max(height-inputLines, 1)
	s.refresh()
}

func (s *trackingScreen) closeDetail() {
	s.showDetail = false
	s.detailFor = ""
	s.detail.SetContent("")
}

func (s *trackingScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.showDetail {
		if key.Matches(msg, s.keys.Up, s.keys.Down, s.keys.PageUp, s.keys.PageDown) {
			var cmd tea.Cmd
			s.detail, cmd = s.detail.Update(msg)
			return cmd
		}
		return nil
	}

	switch {
	case key.Matches(msg, s.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
		s.ensureVisible()
		return s.sample()
	case key.Matches(msg, s.keys.Down):
		if s.cursor < s.session.Len()-1 {
			s.cursor++
		}
		s.ensureVisible()
		return s.sample()
	case key.Matches(msg, s.keys.PageUp, s.keys.PageDown):
		s.results, _ = s.results.Update(msg)
		return s.sample()
	case key.Matches(msg, s.keys.Open):
		return s.openDetail()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return tea.Batch(cmd, s.onInput())
}

func (s *trackingScreen) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if s.showDetail {
		var cmd tea.Cmd
		s.detail, cmd = s.detail.Update(msg)
		return cmd
	}
	s.results, _ = s.results.Update(msg)
	return s.sample()
}

// onInput feeds the sanitized text to the debouncer when it changed.
func (s *trackingScreen) onInput() tea.Cmd {
	q := validation.SanitizeQuery(s.input.Value(), s.maxQuery)
	if q == s.session.Query() {
		return nil
	}
	ticket := s.session.Input(q)
	return debounceCmd(s.debounce, ticket)
}

// sample reports the current scroll position to the session, which may ask
// for the next page.
func (s *trackingScreen) sample() tea.Cmd {
	req, adm := s.session.Scrolled(tracking.ScrollSample{
		Offset:   s.results.YOffset,
		Viewport: s.results.Height,
		Content:  s.results.TotalLineCount(),
	})
	cmd := s.dispatch(req, adm)
	s.refresh()
	return cmd
}

func (s *trackingScreen) dispatch(req tracking.Request, adm tracking.Admission) tea.Cmd {
	switch adm {
	case tracking.Dispatched:
		return tea.Batch(fetchPage(s.searcher, s.timeout, req), s.spinner.Tick)
	case tracking.Deferred:
		return s.spinner.Tick
	default:
		return nil
	}
}

func (s *trackingScreen) ensureVisible() {
	top := s.cursor * cardLines
	bottom := top + cardLines
	switch {
	case top < s.results.YOffset:
		s.results.SetYOffset(top)
	case bottom > s.results.YOffset+s.results.Height:
		s.results.SetYOffset(bottom - s.results.Height)
	}
}

func (s *trackingScreen) openDetail() tea.Cmd {
	items := s.session.Items()
	if s.cursor >= len(items) {
		return nil
	}
	p := items[s.cursor]
	s.showDetail = true
	s.detailFor = p.InvoiceNumber
	s.detail.SetContent(s.theme.MutedText.Render("Loading…"))
	return s.renderDetail(p)
}

func (s *trackingScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case trackingDebounceMsg:
		req, adm, committed := s.session.Commit(msg.ticket)
		if !committed {
			return nil
		}
		s.cursor = 0
		s.closeDetail()
		s.results.GotoTop()
		cmd := s.dispatch(req, adm)
		s.refresh()
		return cmd

	case parcelsPageMsg:
		outcome, next, ok := s.session.Complete(msg.req, msg.items, msg.err)
		debuglog.WithFields(debuglog.Fields{"query": msg.req.Query, "page": msg.req.Page}).
			Debugf("tracking page %s", outcome)
		if n := s.session.Len(); s.cursor >= n {
			s.cursor = max(n-1, 0)
		}
		s.refresh()
		if ok {
			return s.dispatch(next, tracking.Dispatched)
		}
		return nil

	case parcelDetailMsg:
		if s.showDetail && s.detailFor == msg.invoice {
			s.detail.SetContent(msg.content)
			s.detail.GotoTop()
		}
		return nil

	case spinner.TickMsg:
		if !s.session.State().Loading {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		s.refresh()
		return cmd
	}
	return nil
}

func (s *trackingScreen) refresh() {
	s.results.SetContent(s.renderResults())
}

func (s *trackingScreen) renderResults() string {
	items := s.session.Items()
	if len(items) == 0 {
		return ""
	}

	cards := make([]string, 0, len(items)+1)
	for i, p := range items {
		cards = append(cards, s.renderCard(p, i == s.cursor))
	}
	if s.session.State().Loading {
		cards = append(cards, s.spinner.View()+" "+s.theme.MutedText.Render(MsgLoadingMore))
	}
	return strings.Join(cards, "\n")
}

func (s *trackingScreen) renderCard(p tracking.Parcel, selected bool) string {
	style := s.theme.Card
	if selected {
		style = s.theme.CardSelected
	}
	width := max(s.width-2, 24)
	inner := width - 4

	row := func(label, value string) string {
		l := s.theme.Label.Render(label + ": ")
		return l + s.theme.Value.Render(truncateEnd(value, inner-lipgloss.Width(l)))
	}

	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		row("Invoice", p.InvoiceNumber),
		row("Phone Number", p.PhoneNumber),
		row("Delivery Status", p.DeliveryStatus),
		row("Address", p.Address),
	))
}

func (s *trackingScreen) getRenderer() (*glamour.TermRenderer, error) {
	wrap := min(max((s.width*9)/10, 40), 120)
	if s.width < 50 {
		wrap = max(s.width-4, 20)
	}

	if s.renderer == nil || s.rendererWidth != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return nil, err
		}
		s.renderer = r
		s.rendererWidth = wrap
	}
	return s.renderer, nil
}

func (s *trackingScreen) View() string {
	input := renderInputFrame(s.theme, s.input.View(), s.input.Focused(), s.input.Width)
	bodyHeight := max(s.height-inputLines, 1)

	var body string
	st := s.session.State()
	switch {
	case s.showDetail:
		body = s.detail.View()
	case s.session.Committed() == "":
		// The list is hidden until a query is committed.
		body = ""
	case s.session.Len() == 0 && st.Loading:
		body = renderCentered(s.width, bodyHeight, s.spinner.View()+" Loading…")
	case s.session.Len() == 0:
		body = renderCentered(s.width, bodyHeight, s.theme.MutedText.Render(MsgNoParcel))
	default:
		body = s.results.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, input, body)
}

func (s *trackingScreen) statusLine() string {
	if s.session.Committed() == "" || s.session.Len() == 0 {
		return ""
	}
	return fmt.Sprintf("%s • page %d", MsgItemsCount(s.session.Len()), s.session.State().Page)
}
