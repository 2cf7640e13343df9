package cart

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
)

// Product is a catalogue item that can be put in a Book.
type Product struct {
	ID       string  `toml:"id"`
	Title    string  `toml:"title"`
	Price    float64 `toml:"price"`
	Quantity int     `toml:"quantity"`
	Image    string  `toml:"image"`
}

// Book is an in-memory cart. The fixture server uses it to back the cart
// endpoints. Safe for concurrent use.
type Book struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewBook(products ...Product) *Book {
	b := &Book{}
	for _, p := range products {
		b.Add(p)
	}
	return b
}

// Add puts p in the cart with its quantity clamped to [MinQuantity, MaxQuantity].
func (b *Book) Add(p Product) Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := Entry{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  clamp(p.Quantity),
		Image:     p.Image,
	}
	e.Total = lineTotal(e.Price, e.Quantity)
	b.entries = append(b.entries, e)
	return e
}

func (b *Book) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Book) Increase(productID string) (Entry, error) {
	return b.adjust(productID, 1)
}

func (b *Book) Decrease(productID string) (Entry, error) {
	return b.adjust(productID, -1)
}

func (b *Book) adjust(productID string, delta int) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.entries {
		if b.entries[i].ProductID != productID {
			continue
		}
		e := &b.entries[i]
		e.Quantity = clamp(e.Quantity + delta)
		e.Total = lineTotal(e.Price, e.Quantity)
		return *e, nil
	}
	return Entry{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
}

func (b *Book) Remove(entryID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.entries {
		if b.entries[i].ID == entryID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
}

func clamp(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

func lineTotal(price float64, qty int) float64 {
	return math.Round(price*float64(qty)*100) / 100
}
