package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/config"
	"github.com/pders01/shopr/internal/tracking"
)

var (
	parcelA = tracking.Parcel{InvoiceNumber: "INV-A", PhoneNumber: "01711000001", DeliveryStatus: "Pending", Address: "Dhaka"}
	parcelB = tracking.Parcel{InvoiceNumber: "INV-B", PhoneNumber: "01711000002", DeliveryStatus: "Shipped", Address: "Khulna"}
	parcelC = tracking.Parcel{InvoiceNumber: "INV-C", PhoneNumber: "01711000003", DeliveryStatus: "Delivered", Address: "Sylhet"}
	parcelD = tracking.Parcel{InvoiceNumber: "INV-D", PhoneNumber: "01711000004", DeliveryStatus: "Returned", Address: "Rajshahi"}
)

type searchCall struct {
	query string
	page  int
}

type fakeSearcher struct {
	mu    sync.Mutex
	pages map[string][][]tracking.Parcel
	fail  error
	calls []searchCall
}

func (f *fakeSearcher) SearchParcels(_ context.Context, query string, page int) ([]tracking.Parcel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{query, page})
	if f.fail != nil {
		return nil, f.fail
	}
	pages := f.pages[query]
	if page < 1 || page > len(pages) {
		return []tracking.Parcel{}, nil
	}
	return pages[page-1], nil
}

func (f *fakeSearcher) Calls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.calls...)
}

// fakeCart serves a cart.Book and records every mutation.
type fakeCart struct {
	mu      sync.Mutex
	book    *cart.Book
	calls   []string
	failure error
}

func newFakeCart(products ...cart.Product) *fakeCart {
	return &fakeCart{book: cart.NewBook(products...)}
}

func (f *fakeCart) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failure
}

func (f *fakeCart) Cart(context.Context) ([]cart.Entry, error) {
	return f.book.Entries(), nil
}

func (f *fakeCart) IncreaseQuantity(_ context.Context, productID string) error {
	if err := f.record("increase:" + productID); err != nil {
		return err
	}
	_, err := f.book.Increase(productID)
	return err
}

func (f *fakeCart) DecreaseQuantity(_ context.Context, productID string) error {
	if err := f.record("decrease:" + productID); err != nil {
		return err
	}
	_, err := f.book.Decrease(productID)
	return err
}

func (f *fakeCart) RemoveEntry(_ context.Context, entryID string) error {
	if err := f.record("remove:" + entryID); err != nil {
		return err
	}
	return f.book.Remove(entryID)
}

func (f *fakeCart) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

var errBoom = errors.New("boom")

type harness struct {
	app      *App
	searcher *fakeSearcher
	cart     *fakeCart
	opener   *fakeOpener
}

func newTestApp(t *testing.T) *harness {
	t.Helper()
	f := &harness{
		searcher: &fakeSearcher{pages: map[string][][]tracking.Parcel{}},
		cart: newFakeCart(
			cart.Product{ID: "p1", Title: "Assam Tea", Price: 320, Quantity: 1, Image: "https://example.com/tea.png"},
			cart.Product{ID: "p2", Title: "Basmati Rice", Price: 990, Quantity: cart.MaxQuantity},
		),
		opener: &fakeOpener{},
	}
	f.app = NewApp(config.TestConfig(), Services{Parcels: f.searcher, Cart: f.cart, Opener: f.opener})
	f.run(t, f.app.Init())
	f.send(t, tea.WindowSizeMsg{Width: 80, Height: 40})
	return f
}

// collect executes cmd and returns the messages it produced, flattening
// batches. Nothing is fed back into the app.
func collect(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			out = append(out, m)
		}
	}
	return out
}

// run executes cmd and feeds every resulting message back into the app until
// no work is left. Spinner ticks are dropped so animation cannot loop.
func (f *harness) run(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch m := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			seen = append(seen, m)
			_, next := f.app.Update(m)
			queue = append(queue, next)
		}
	}
	return seen
}

func (f *harness) send(t *testing.T, msg tea.Msg) []tea.Msg {
	t.Helper()
	_, cmd := f.app.Update(msg)
	return f.run(t, cmd)
}

// sendOnly delivers msg and returns its command unexecuted.
func (f *harness) sendOnly(msg tea.Msg) tea.Cmd {
	_, cmd := f.app.Update(msg)
	return cmd
}

// typeText delivers the keystrokes as one burst, then lets the debounce
// timers fire.
func (f *harness) typeText(t *testing.T, text string) {
	t.Helper()
	var cmds []tea.Cmd
	for _, r := range text {
		cmds = append(cmds, f.sendOnly(runes(string(r))))
	}
	f.run(t, tea.Batch(cmds...))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func isQuit(cmd tea.Cmd) bool {
	for _, m := range collect(cmd) {
		if _, ok := m.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}
