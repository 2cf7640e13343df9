// Package cart models cart lines and the quantity controls on them. The
// package holds no quantity state for the screen; it decides which controls
// are enabled and dispatches to the capabilities it was built with.
package cart

import "errors"

const (
	MinQuantity = 1
	MaxQuantity = 10
)

const (
	RemoveTitle   = "Confirm"
	RemoveMessage = "Are you sure you want to remove this item?"
)

var ErrNotFound = errors.New("cart entry not found")

// Entry is one line of the cart as the backend reports it.
type Entry struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	Image     string  `json:"image,omitempty"`
}

func (e Entry) CanDecrease() bool { return e.Quantity > MinQuantity }
func (e Entry) CanIncrease() bool { return e.Quantity < MaxQuantity }

// Actions are the cart mutations. Calls are fire and forget; the caller
// reloads the cart to see their effect.
type Actions interface {
	IncreaseQuantity(productID string)
	DecreaseQuantity(productID string)
	RemoveItem(entryID string)
}

// Confirmer asks the user a yes/no question about entryID. The answer comes
// back through Adjuster.Resolve.
type Confirmer interface {
	Confirm(title, message, entryID string)
}

type Adjuster struct {
	actions Actions
	confirm Confirmer
}

func NewAdjuster(actions Actions, confirm Confirmer) *Adjuster {
	return &Adjuster{actions: actions, confirm: confirm}
}

// Increase dispatches an increment unless the entry is at MaxQuantity.
func (a *Adjuster) Increase(e Entry) bool {
	if !e.CanIncrease() {
		return false
	}
	a.actions.IncreaseQuantity(e.ProductID)
	return true
}

// Decrease dispatches a decrement unless the entry is at MinQuantity.
func (a *Adjuster) Decrease(e Entry) bool {
	if !e.CanDecrease() {
		return false
	}
	a.actions.DecreaseQuantity(e.ProductID)
	return true
}

// AskRemove starts the confirmation step for removing e.
func (a *Adjuster) AskRemove(e Entry) {
	a.confirm.Confirm(RemoveTitle, RemoveMessage, e.ID)
}

// Resolve finishes a confirmation. Removal happens only when granted.
func (a *Adjuster) Resolve(entryID string, granted bool) bool {
	if !granted || entryID == "" {
		return false
	}
	a.actions.RemoveItem(entryID)
	return true
}
