package tui

import (
	"fmt"
	"strings"
)

// StatusKind indicates severity for status bar messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgSearchPlaceholder  = "Search by contact number"
	MsgNoParcel           = "No matching parcel found"
	MsgLoadingMore        = "Loading more…"
	MsgLoadingCart        = "Loading cart…"
	MsgCartEmpty          = "Your cart is empty"
	MsgNoPhoto            = "no photo"
	MsgRemoved            = "Item removed"
	MsgProductPlaceholder = "Search products…"
	MsgNoProducts         = "No matching products"
)

func MsgItemsCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

type status struct {
	text string
	kind StatusKind
}

func (s status) empty() bool { return strings.TrimSpace(s.text) == "" }

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
