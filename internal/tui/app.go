// Package tui is the terminal front end: a stack navigator with a header
// over the tracking, cart, product search and profile screens.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/shopr/internal/config"
	"github.com/pders01/shopr/internal/debuglog"
	"github.com/pders01/shopr/internal/tracking"
)

// ImageOpener shows a product image outside the terminal.
type ImageOpener interface {
	Open(url string) error
}

// Services are the backends the screens talk to.
type Services struct {
	Parcels tracking.Searcher
	Cart    CartService
	Opener  ImageOpener
}

type confirmPrompt struct {
	title   string
	message string
	entryID string
}

const (
	headerLines = 1
	footerLines = 2
)

type App struct {
	config     *config.Config
	theme      Theme
	keys       KeyMap
	keyHandler *KeyHandler
	help       help.Model
	nav        *Navigator

	tracking *trackingScreen
	cart     *cartScreen
	search   *productSearchScreen

	confirm *confirmPrompt
	status  status
	width   int
	height  int
}

func NewApp(cfg *config.Config, svc Services) *App {
	theme := NewTheme(cfg.UI.Colors)
	keys := NewKeyMap(cfg)

	a := &App{
		config: cfg,
		theme:  theme,
		keys:   keys,
		help:   help.New(),
		nav:    NewNavigator(ViewTracking),
	}
	a.tracking = newTrackingScreen(cfg, theme, keys, svc.Parcels)
	a.cart = newCartScreen(theme, keys, svc.Cart, svc.Opener, cfg.API.Timeout, a)
	a.search = newProductSearchScreen(theme, svc.Cart, cfg.API.Timeout, cfg.Search.MaxQueryLength)
	a.keyHandler = NewKeyHandler(a, keys)
	return a
}

// Confirm implements cart.Confirmer with a modal over the current screen.
func (a *App) Confirm(title, message, entryID string) {
	a.confirm = &confirmPrompt{title: title, message: message, entryID: entryID}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.tracking.focus(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		body := max(msg.Height-headerLines-footerLines, 1)
		a.tracking.setSize(msg.Width, body)
		a.cart.setSize(msg.Width, body)
		a.search.setSize(msg.Width, body)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.confirm == nil && a.nav.Top() == ViewTracking {
			return a, a.tracking.handleMouse(msg)
		}
		return a, nil

	case trackingDebounceMsg, parcelsPageMsg, parcelDetailMsg:
		return a, a.tracking.update(msg)

	case cartLoadedMsg, cartMutatedMsg:
		return a, a.cart.update(msg)

	case productResultsMsg:
		a.search.update(msg)
		return a, nil

	case spinner.TickMsg:
		// Spinners drop ticks that carry another spinner's id.
		return a, tea.Batch(a.tracking.update(msg), a.cart.update(msg))

	case errorMsg:
		debuglog.Warnf("%v", msg.err)
		a.status = status{text: msg.err.Error(), kind: StatusError}
		return a, nil
	}
	return a, nil
}

// navigate applies focus transitions from the navigator to the screens.
func (a *App) navigate(events []transition) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		if ev.change == blurred {
			a.status = status{}
			switch ev.view {
			case ViewTracking:
				a.tracking.blur()
			case ViewCart:
				a.cart.blur()
			case ViewProductSearch:
				a.search.blur()
			}
			continue
		}
		switch ev.view {
		case ViewTracking:
			cmds = append(cmds, a.tracking.focus())
		case ViewCart:
			cmds = append(cmds, a.cart.focus())
		case ViewProductSearch:
			cmds = append(cmds, a.search.focus(""))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) View() string {
	top := a.nav.Top()
	header := renderHeader(a.theme, top.Title(), a.nav.CanGoBack(), a.width)
	bodyHeight := max(a.height-headerLines-footerLines, 1)

	var body string
	switch {
	case a.confirm != nil:
		body = renderCentered(a.width, bodyHeight,
			renderModal(a.theme, a.confirm.title, a.confirm.message, a.width))
	case top == ViewTracking:
		body = a.tracking.View()
	case top == ViewCart:
		body = a.cart.View()
	case top == ViewProductSearch:
		body = a.search.View()
	case top == ViewProfile:
		body = renderProfile(a.theme, a.config, a.width)
	}
	body = lipgloss.NewStyle().Width(a.width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.statusBar(), a.helpLine())
}

func (a *App) currentStatus() status {
	if !a.status.empty() {
		return a.status
	}
	switch a.nav.Top() {
	case ViewCart:
		if !a.cart.status.empty() {
			return a.cart.status
		}
		return status{text: a.cart.statusLine()}
	case ViewProductSearch:
		return a.search.status
	case ViewTracking:
		return status{text: a.tracking.statusLine()}
	}
	return status{}
}

func (a *App) statusBar() string {
	st := a.currentStatus()
	style := a.theme.StatusInfo
	prefix := ""
	switch st.kind {
	case StatusSuccess:
		style = a.theme.StatusOK
		prefix = "✓ "
	case StatusError:
		style = a.theme.StatusError
		prefix = "✗ "
	}
	if st.empty() {
		return ""
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(style.Render(fmt.Sprintf("%s%s", prefix, truncateEnd(st.text, max(a.width-4, 1)))))
}

func (a *App) helpLine() string {
	return lipgloss.NewStyle().Padding(0, 1).Render(
		a.help.ShortHelpView(a.keys.helpFor(a.nav.Top(), a.confirm != nil)))
}
