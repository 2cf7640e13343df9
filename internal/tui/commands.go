package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/tracking"
)

type trackingDebounceMsg struct {
	ticket uint64
}

type parcelsPageMsg struct {
	req   tracking.Request
	items []tracking.Parcel
	err   error
}

type parcelDetailMsg struct {
	invoice string
	content string
}

type cartLoadedMsg struct {
	seq     uint64
	entries []cart.Entry
	err     error
}

type cartMutatedMsg struct {
	op  string
	err error
}

type productResultsMsg struct {
	query   string
	entries []cart.Entry
	err     error
}

type errorMsg struct {
	err error
}

func debounceCmd(wait time.Duration, ticket uint64) tea.Cmd {
	return tea.Tick(wait, func(time.Time) tea.Msg {
		return trackingDebounceMsg{ticket: ticket}
	})
}

func fetchPage(src tracking.Searcher, timeout time.Duration, req tracking.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextFor(timeout)
		defer cancel()
		items, err := src.SearchParcels(ctx, req.Query, req.Page)
		return parcelsPageMsg{req: req, items: items, err: err}
	}
}

// renderDetail builds the renderer on the Update goroutine and renders the
// markdown in the command.
func (s *trackingScreen) renderDetail(p tracking.Parcel) tea.Cmd {
	r, rerr := s.getRenderer()
	return func() tea.Msg {
		var md strings.Builder
		md.WriteString(fmt.Sprintf("# Invoice %s\n\n", p.InvoiceNumber))
		md.WriteString(fmt.Sprintf("- **Phone Number:** %s\n", p.PhoneNumber))
		md.WriteString(fmt.Sprintf("- **Delivery Status:** %s\n", p.DeliveryStatus))
		md.WriteString(fmt.Sprintf("- **Address:** %s\n", p.Address))
		md.WriteString("\n---\n\n*Press esc to return to the results.*\n")

		if rerr != nil {
			return parcelDetailMsg{invoice: p.InvoiceNumber, content: "Error initializing renderer: " + rerr.Error()}
		}
		out, err := r.Render(md.String())
		if err != nil {
			return parcelDetailMsg{invoice: p.InvoiceNumber, content: md.String()}
		}
		return parcelDetailMsg{invoice: p.InvoiceNumber, content: out}
	}
}

func loadCart(svc CartService, timeout time.Duration, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextFor(timeout)
		defer cancel()
		entries, err := svc.Cart(ctx)
		return cartLoadedMsg{seq: seq, entries: entries, err: wrapErr("loading cart", err)}
	}
}

func mutateCart(op string, timeout time.Duration, call func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextFor(timeout)
		defer cancel()
		return cartMutatedMsg{op: op, err: wrapErr(op, call(ctx))}
	}
}

func searchProducts(svc CartService, timeout time.Duration, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := contextFor(timeout)
		defer cancel()
		entries, err := svc.Cart(ctx)
		if err != nil {
			return productResultsMsg{query: query, err: wrapErr("searching products", err)}
		}
		needle := strings.ToLower(query)
		var hits []cart.Entry
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Title), needle) {
				hits = append(hits, e)
			}
		}
		return productResultsMsg{query: query, entries: hits}
	}
}

func openImage(o ImageOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := o.Open(url); err != nil {
			return errorMsg{err: wrapErr("opening image", err)}
		}
		return nil
	}
}

func contextFor(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
