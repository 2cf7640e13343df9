package api

import (
	"github.com/pders01/shopr/internal/cart"
	"github.com/pders01/shopr/internal/tracking"
)

// ParcelRecord is a tracking row as the backend encodes it.
type ParcelRecord struct {
	InvoiceNumber  string `json:"invoice_number"`
	PhoneNumber    string `json:"phone_number"`
	DeliveryStatus string `json:"delivery_conformations"`
	Address        string `json:"user_address"`
}

// ParcelPage is the body of the tracking search endpoint.
type ParcelPage struct {
	Results *ParcelResults `json:"results,omitempty"`
}

type ParcelResults struct {
	Data []ParcelRecord `json:"data"`
}

// CartPayload is the body of the cart endpoint.
type CartPayload struct {
	Entries []cart.Entry `json:"entries"`
}

// QuantityRequest is posted to the increase and decrease endpoints.
type QuantityRequest struct {
	ProductID string `json:"product_id"`
}

// ErrorBody is returned by the fixture server on failures.
type ErrorBody struct {
	Error string `json:"error"`
}

func (r ParcelRecord) Parcel() tracking.Parcel {
	return tracking.Parcel{
		InvoiceNumber:  r.InvoiceNumber,
		PhoneNumber:    r.PhoneNumber,
		DeliveryStatus: r.DeliveryStatus,
		Address:        r.Address,
	}
}

func RecordFromParcel(p tracking.Parcel) ParcelRecord {
	return ParcelRecord{
		InvoiceNumber:  p.InvoiceNumber,
		PhoneNumber:    p.PhoneNumber,
		DeliveryStatus: p.DeliveryStatus,
		Address:        p.Address,
	}
}

// Parcels returns the page items; a missing results object is an empty page.
func (p ParcelPage) Parcels() []tracking.Parcel {
	if p.Results == nil {
		return []tracking.Parcel{}
	}
	out := make([]tracking.Parcel, 0, len(p.Results.Data))
	for _, r := range p.Results.Data {
		out = append(out, r.Parcel())
	}
	return out
}
