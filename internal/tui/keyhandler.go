package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyHandler struct {
	app  *App
	keys KeyMap
}

func NewKeyHandler(app *App, keys KeyMap) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.ForceQuit) {
		return kh.app, tea.Quit
	}

	if kh.app.confirm != nil {
		return kh.handleConfirmKeys(msg)
	}

	if model, cmd, handled := kh.handleGlobalKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToScreen(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.nav.Top() {
	case ViewTracking:
		return kh.app.tracking.input.Focused()
	case ViewProductSearch:
		return kh.app.search.input.Focused()
	default:
		return false
	}
}

// handleConfirmKeys answers the removal modal; other keys are swallowed.
func (kh *KeyHandler) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prompt := kh.app.confirm
	switch {
	case key.Matches(msg, kh.keys.Confirm):
		kh.app.confirm = nil
		return kh.app, kh.app.cart.resolve(prompt.entryID, true)
	case key.Matches(msg, kh.keys.Decline):
		kh.app.confirm = nil
		return kh.app, kh.app.cart.resolve(prompt.entryID, false)
	}
	return kh.app, nil
}

func (kh *KeyHandler) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	app := kh.app
	switch {
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, kh.keys.Search):
		return app, app.navigate(app.nav.Navigate(ViewProductSearch)), true
	case key.Matches(msg, kh.keys.Profile):
		return app, app.navigate(app.nav.Navigate(ViewProfile)), true
	case key.Matches(msg, kh.keys.Tracking):
		return app, app.navigate(app.nav.Navigate(ViewTracking)), true
	case key.Matches(msg, kh.keys.Cart):
		return app, app.navigate(app.nav.Navigate(ViewCart)), true
	case key.Matches(msg, kh.keys.Quit) && !kh.isInTextInputMode():
		return app, tea.Quit, true
	}
	return app, nil, false
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	app := kh.app
	app.status = status{}

	if app.nav.Top() == ViewTracking && app.tracking.showDetail {
		app.tracking.closeDetail()
		return app, nil
	}

	events, ok := app.nav.Pop()
	if !ok {
		return app, tea.Quit
	}
	return app, app.navigate(events)
}

func (kh *KeyHandler) delegateToScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	switch app.nav.Top() {
	case ViewTracking:
		return app, app.tracking.handleKey(msg)
	case ViewCart:
		return app, app.cart.handleKey(msg)
	case ViewProductSearch:
		return app, app.search.handleKey(msg)
	default:
		return app, nil
	}
}
