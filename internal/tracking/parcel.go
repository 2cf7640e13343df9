// Package tracking holds the parcel search session behind the tracking
// screen: keystroke debouncing, one-at-a-time paged fetching and the scroll
// trigger for the next page. It has no UI or network code of its own.
package tracking

import "context"

// Parcel is one row of a search result page. Values are display strings
// exactly as the backend returns them.
type Parcel struct {
	InvoiceNumber  string
	PhoneNumber    string
	DeliveryStatus string
	Address        string
}

// Searcher is the remote paged search. Pages are 1-based and an empty page
// marks the end of the data.
type Searcher interface {
	SearchParcels(ctx context.Context, query string, page int) ([]Parcel, error)
}

// PagingState is the observable paging position of a session.
type PagingState struct {
	Page    int
	HasMore bool
	Loading bool
}

// InitialState is the state a session starts in and returns to on reset.
func InitialState() PagingState {
	return PagingState{Page: 1, HasMore: true}
}
