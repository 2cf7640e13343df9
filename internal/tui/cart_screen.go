package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/debuglog"
)

// CartService is the backend the cart screen talks to.
type CartService interface {
	Cart(ctx context.Context) ([]cart.Entry, error)
	IncreaseQuantity(ctx context.Context, productID string) error
	DecreaseQuantity(ctx context.Context, productID string) error
	RemoveEntry(ctx context.Context, entryID string) error
}

const (
	opIncrease = "increasing quantity"
	opDecrease = "decreasing quantity"
	opRemove   = "removing item"
)

// Each cart line renders to three rows plus the border.
const cartLines = 5

// cartDispatcher implements cart.Actions by queueing commands that call the
// service. The screen flushes the queue into its Update result.
type cartDispatcher struct {
	svc     CartService
	timeout time.Duration
	pending []tea.Cmd
}

func (d *cartDispatcher) IncreaseQuantity(productID string) {
	d.pending = append(d.pending, mutateCart(opIncrease, d.timeout, func(ctx context.Context) error {
		return d.svc.IncreaseQuantity(ctx, productID)
	}))
}

func (d *cartDispatcher) DecreaseQuantity(productID string) {
	d.pending = append(d.pending, mutateCart(opDecrease, d.timeout, func(ctx context.Context) error {
		return d.svc.DecreaseQuantity(ctx, productID)
	}))
}

func (d *cartDispatcher) RemoveItem(entryID string) {
	d.pending = append(d.pending, mutateCart(opRemove, d.timeout, func(ctx context.Context) error {
		return d.svc.RemoveEntry(ctx, entryID)
	}))
}

func (d *cartDispatcher) flush() tea.Cmd {
	cmds := d.pending
	d.pending = nil
	return tea.Batch(cmds...)
}

type cartScreen struct {
	theme    Theme
	keys     KeyMap
	svc      CartService
	opener   ImageOpener
	timeout  time.Duration
	adjuster *cart.Adjuster
	actions  *cartDispatcher

	entries []cart.Entry
	cursor  int
	loading bool
	loadSeq uint64
	status  status

	list    viewport.Model
	spinner spinner.Model
	width   int
	height  int
}

func newCartScreen(theme Theme, keys KeyMap, svc CartService, opener ImageOpener, timeout time.Duration, confirm cart.Confirmer) *cartScreen {
	actions := &cartDispatcher{svc: svc, timeout: timeout}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return &cartScreen{
		theme:    theme,
		keys:     keys,
		svc:      svc,
		opener:   opener,
		timeout:  timeout,
		adjuster: cart.NewAdjuster(actions, confirm),
		actions:  actions,
		list:     viewport.New(0, 0),
		spinner:  sp,
	}
}

func (c *cartScreen) focus() tea.Cmd {
	c.status = status{}
	return c.reload()
}

func (c *cartScreen) blur() {
	c.status = status{}
}

func (c *cartScreen) setSize(width, height int) {
	c.width = width
	c.height = height
	c.list.Width = width
	c.list.Height = max(height, 1)
	c.refresh()
}

// reload fetches the cart. Only the newest load is applied.
func (c *cartScreen) reload() tea.Cmd {
	c.loadSeq++
	c.loading = true
	return tea.Batch(loadCart(c.svc, c.timeout, c.loadSeq), c.spinner.Tick)
}

func (c *cartScreen) selected() (cart.Entry, bool) {
	if c.cursor < 0 || c.cursor >= len(c.entries) {
		return cart.Entry{}, false
	}
	return c.entries[c.cursor], true
}

func (c *cartScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
		c.ensureVisible()
	case key.Matches(msg, c.keys.Down):
		if c.cursor < len(c.entries)-1 {
			c.cursor++
		}
		c.ensureVisible()
	case key.Matches(msg, c.keys.Increase):
		if e, ok := c.selected(); ok && c.adjuster.Increase(e) {
			return c.actions.flush()
		}
	case key.Matches(msg, c.keys.Decrease):
		if e, ok := c.selected(); ok && c.adjuster.Decrease(e) {
			return c.actions.flush()
		}
	case key.Matches(msg, c.keys.Remove):
		if e, ok := c.selected(); ok {
			c.adjuster.AskRemove(e)
		}
	case key.Matches(msg, c.keys.OpenImage):
		e, ok := c.selected()
		if !ok {
			return nil
		}
		if e.Image == "" {
			c.status = status{text: MsgNoPhoto, kind: StatusInfo}
			return nil
		}
		return openImage(c.opener, e.Image)
	}
	c.refresh()
	return nil
}

// resolve answers a pending removal confirmation.
func (c *cartScreen) resolve(entryID string, granted bool) tea.Cmd {
	if !c.adjuster.Resolve(entryID, granted) {
		return nil
	}
	return c.actions.flush()
}

func (c *cartScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case cartLoadedMsg:
		if msg.seq != c.loadSeq {
			return nil
		}
		c.loading = false
		if msg.err != nil {
			debuglog.Errorf("%v", msg.err)
			c.status = status{text: msg.err.Error(), kind: StatusError}
			c.refresh()
			return nil
		}
		c.entries = msg.entries
		if c.cursor >= len(c.entries) {
			c.cursor = max(len(c.entries)-1, 0)
		}
		c.refresh()
		return nil

	case cartMutatedMsg:
		if msg.err != nil {
			debuglog.Errorf("%v", msg.err)
			c.status = status{text: msg.err.Error(), kind: StatusError}
		} else if msg.op == opRemove {
			c.status = status{text: MsgRemoved, kind: StatusSuccess}
		}
		return c.reload()

	case spinner.TickMsg:
		if !c.loading {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (c *cartScreen) ensureVisible() {
	top := c.cursor * cartLines
	bottom := top + cartLines
	switch {
	case top < c.list.YOffset:
		c.list.SetYOffset(top)
	case bottom > c.list.YOffset+c.list.Height:
		c.list.SetYOffset(bottom - c.list.Height)
	}
}

func (c *cartScreen) refresh() {
	lines := make([]string, 0, len(c.entries))
	for i, e := range c.entries {
		lines = append(lines, c.renderEntry(e, i == c.cursor))
	}
	c.list.SetContent(strings.Join(lines, "\n"))
}

func (c *cartScreen) renderEntry(e cart.Entry, selected bool) string {
	style := c.theme.Card
	if selected {
		style = c.theme.CardSelected
	}
	width := max(c.width-2, 30)
	inner := width - 4

	title := c.theme.Value.Render(truncateEnd(e.Title, inner))
	price := c.theme.Label.Render(fmt.Sprintf("৳ : %s x %d = %s",
		formatAmount(e.Price), e.Quantity, formatAmount(e.Total)))

	minus := c.theme.Control.Render("[-]")
	if !e.CanDecrease() {
		minus = c.theme.Disabled.Render("[-]")
	}
	plus := c.theme.Control.Render("[+]")
	if !e.CanIncrease() {
		plus = c.theme.Disabled.Render("[+]")
	}
	photo := c.theme.MutedText.Render("photo")
	if e.Image == "" {
		photo = c.theme.Disabled.Render(MsgNoPhoto)
	}
	controls := fmt.Sprintf("%s %d %s   %s   %s", minus, e.Quantity, plus, c.theme.MutedText.Render("🗑"), photo)

	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, price, controls))
}

func (c *cartScreen) View() string {
	switch {
	case c.loading && len(c.entries) == 0:
		return renderCentered(c.width, c.height, c.spinner.View()+" "+MsgLoadingCart)
	case len(c.entries) == 0:
		return renderCentered(c.width, c.height, c.theme.MutedText.Render(MsgCartEmpty))
	default:
		return c.list.View()
	}
}

func (c *cartScreen) statusLine() string {
	if len(c.entries) == 0 {
		return ""
	}
	var total float64
	for _, e := range c.entries {
		total += e.Total
	}
	total = math.Round(total*100) / 100
	return fmt.Sprintf("%s • ৳ %s", MsgItemsCount(len(c.entries)), formatAmount(total))
}
