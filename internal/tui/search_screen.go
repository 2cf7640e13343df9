package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/validation"
)

// productSearchScreen looks up products by title. It is opened from the
// header with a search_query parameter that seeds the input.
type productSearchScreen struct {
	theme    Theme
	svc      CartService
	timeout  time.Duration
	maxQuery int

	input    textinput.Model
	pending  string
	searched string
	results  []cart.Entry
	status   status
	width    int
	height   int
}

func newProductSearchScreen(theme Theme, svc CartService, timeout time.Duration, maxQuery int) *productSearchScreen {
	ti := textinput.New()
	ti.Placeholder = MsgProductPlaceholder
	ti.CharLimit = maxQuery
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &productSearchScreen{
		theme:    theme,
		svc:      svc,
		timeout:  timeout,
		maxQuery: maxQuery,
		input:    ti,
	}
}

// focus opens the screen with query as its search_query parameter.
func (p *productSearchScreen) focus(query string) tea.Cmd {
	p.input.SetValue(query)
	p.input.CursorEnd()
	p.pending = ""
	p.searched = ""
	p.results = nil
	p.status = status{}
	return p.input.Focus()
}

func (p *productSearchScreen) blur() {
	p.input.Blur()
}

func (p *productSearchScreen) Query() string { return p.input.Value() }

func (p *productSearchScreen) setSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(width-8, 10)
}

func (p *productSearchScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEnter {
		q := validation.SanitizeQuery(p.input.Value(), p.maxQuery)
		if q == "" {
			return nil
		}
		p.pending = q
		return searchProducts(p.svc, p.timeout, q)
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *productSearchScreen) update(msg productResultsMsg) {
	if msg.query != p.pending {
		return
	}
	p.searched = msg.query
	if msg.err != nil {
		p.status = status{text: msg.err.Error(), kind: StatusError}
		p.results = nil
		return
	}
	p.status = status{}
	p.results = msg.entries
}

func (p *productSearchScreen) View() string {
	input := renderInputFrame(p.theme, p.input.View(), p.input.Focused(), p.input.Width)

	var body string
	switch {
	case p.searched == "":
		body = p.theme.MutedText.Render("Press enter to search")
	case len(p.results) == 0:
		body = p.theme.MutedText.Render(MsgNoProducts)
	default:
		rows := make([]string, 0, len(p.results))
		for _, e := range p.results {
			rows = append(rows, fmt.Sprintf("%s  %s",
				p.theme.Value.Render(truncateEnd(e.Title, max(p.width-20, 10))),
				p.theme.Label.Render("৳ "+formatAmount(e.Price))))
		}
		body = strings.Join(rows, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, input, "", body)
}
