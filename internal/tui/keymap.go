package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/shopr/internal/config"
)

// KeyMap holds every binding the app reacts to, built from [keys] config.
type KeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Back      key.Binding
	Search    key.Binding
	Profile   key.Binding
	Tracking  key.Binding
	Cart      key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding

	Increase  key.Binding
	Decrease  key.Binding
	Remove    key.Binding
	OpenImage key.Binding

	Confirm key.Binding
	Decline key.Binding
}

func NewKeyMap(cfg *config.Config) KeyMap {
	mod := cfg.Keys.Modifier + "+"
	b := cfg.Keys.Bindings

	return KeyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:      key.NewBinding(key.WithKeys(b.Quit), key.WithHelp(b.Quit, "quit")),
		Back:      key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Search:    key.NewBinding(key.WithKeys(mod+b.Search), key.WithHelp(mod+b.Search, "search")),
		Profile:   key.NewBinding(key.WithKeys(mod+b.Profile), key.WithHelp(mod+b.Profile, "profile")),
		Tracking:  key.NewBinding(key.WithKeys(mod+b.Tracking), key.WithHelp(mod+b.Tracking, "track")),
		Cart:      key.NewBinding(key.WithKeys(mod+b.Cart), key.WithHelp(mod+b.Cart, "cart")),

		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),

		Increase:  key.NewBinding(key.WithKeys(b.Increase, "="), key.WithHelp(b.Increase, "more")),
		Decrease:  key.NewBinding(key.WithKeys(b.Decrease), key.WithHelp(b.Decrease, "less")),
		Remove:    key.NewBinding(key.WithKeys(b.Remove), key.WithHelp(b.Remove, "remove")),
		OpenImage: key.NewBinding(key.WithKeys(mod+b.OpenImage), key.WithHelp(mod+b.OpenImage, "photo")),

		Confirm: key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "yes")),
		Decline: key.NewBinding(key.WithKeys("esc", "n"), key.WithHelp("esc", "no")),
	}
}

// helpKeyMap adapts the bindings of one screen to help.KeyMap.
type helpKeyMap []key.Binding

func (h helpKeyMap) ShortHelp() []key.Binding { return h }

func (h helpKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (k KeyMap) helpFor(v View, confirming bool) helpKeyMap {
	if confirming {
		return helpKeyMap{k.Confirm, k.Decline}
	}
	nav := []key.Binding{k.Back, k.Search, k.Profile}
	switch v {
	case ViewTracking:
		return append(helpKeyMap{k.Up, k.Down, k.Open, k.Cart}, nav...)
	case ViewCart:
		return append(helpKeyMap{k.Decrease, k.Increase, k.Remove, k.OpenImage, k.Tracking}, nav...)
	case ViewProductSearch:
		return helpKeyMap{k.Back, k.Profile, k.Cart}
	default:
		return append(helpKeyMap{k.Tracking, k.Cart, k.Quit}, nav...)
	}
}
