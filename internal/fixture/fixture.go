// Package fixture serves a development backend for the shop client: a paged
// parcel search over a bleve in-memory index and a cart held in memory.
package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/tracking"
)

//go:embed fixture.toml
var defaultFixture []byte

var ErrInvalidFixture = errors.New("invalid fixture")

type ParcelRow struct {
	InvoiceNumber  string `toml:"invoice_number"`
	PhoneNumber    string `toml:"phone_number"`
	DeliveryStatus string `toml:"delivery_conformations"`
	Address        string `toml:"user_address"`
}

func (r ParcelRow) Parcel() tracking.Parcel {
	return tracking.Parcel{
		InvoiceNumber:  r.InvoiceNumber,
		PhoneNumber:    r.PhoneNumber,
		DeliveryStatus: r.DeliveryStatus,
		Address:        r.Address,
	}
}

// Data is the decoded fixture file.
type Data struct {
	Parcels  []ParcelRow    `toml:"parcels"`
	Products []cart.Product `toml:"products"`
}

// Default returns the fixture compiled into the binary.
func Default() (*Data, error) {
	return Parse(defaultFixture)
}

// Load reads a fixture file; an empty path means the embedded default.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := toml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) validate() error {
	invoices := make(map[string]struct{}, len(d.Parcels))
	for i, p := range d.Parcels {
		inv := strings.TrimSpace(p.InvoiceNumber)
		if inv == "" {
			return fmt.Errorf("%w: parcel %d has no invoice_number", ErrInvalidFixture, i)
		}
		if _, dup := invoices[inv]; dup {
			return fmt.Errorf("%w: duplicate invoice_number %q", ErrInvalidFixture, inv)
		}
		invoices[inv] = struct{}{}
	}

	products := make(map[string]struct{}, len(d.Products))
	for i, p := range d.Products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: product %d has no id", ErrInvalidFixture, i)
		}
		if _, dup := products[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product id %q", ErrInvalidFixture, p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: product %q has a negative price", ErrInvalidFixture, p.ID)
		}
		products[p.ID] = struct{}{}
	}
	return nil
}
