// Package quote - Draft quote oracle interface
package quote

import (
	"context"

	"github.com/shopspring/decimal"

	"workorder-pricing/core/types"
)

// AbsorbedAmount is a charge amount folded into its parent item's draft line.
// The oracle adds the amount into the line's total and echoes the marker back
// with the line.
type AbsorbedAmount struct {
	// Ref identifies the absorbed charge
	Ref LineMarker `json:"ref"`

	// Amount is the charge's undiscounted amount
	Amount decimal.Decimal `json:"amount"`
}

// DraftLine is one line of a draft quote request
type DraftLine struct {
	// Ref is the opaque marker correlating this line to a domain entity
	Ref LineMarker `json:"ref"`

	// Quantity is the number of units on the line
	Quantity int `json:"quantity"`

	// UnitPriceOverride replaces the oracle's own unit price, when set.
	// Charge lines always carry one; the oracle has no price for labour.
	UnitPriceOverride *decimal.Decimal `json:"unit_price_override,omitempty"`

	// Title is a human-readable line label
	Title string `json:"title,omitempty"`

	// Absorbed lists charge amounts folded into this line
	Absorbed []AbsorbedAmount `json:"absorbed,omitempty"`
}

// QuotedLine is one line of a draft quote response
type QuotedLine struct {
	// Ref is the marker from the request line, echoed back untouched
	Ref LineMarker `json:"ref"`

	// OriginalTotal is the line total before the order discount
	OriginalTotal decimal.Decimal `json:"original_total"`

	// DiscountedTotal is the line total after the order discount
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
}

// UserError is a caller-facing validation error returned by the oracle
type UserError struct {
	// Field names the offending request field, if known
	Field string `json:"field,omitempty"`

	// Message describes the problem
	Message string `json:"message"`
}

// DraftQuote is a priced draft order returned by the oracle
type DraftQuote struct {
	// Lines holds one priced line per request line
	Lines []QuotedLine `json:"lines"`

	// Subtotal is the post-discount, pre-tax total
	Subtotal decimal.Decimal `json:"subtotal"`

	// Tax is the computed tax
	Tax decimal.Decimal `json:"tax"`

	// Total is the post-discount, taxed total
	Total decimal.Decimal `json:"total"`

	// UserErrors holds validation errors; non-empty means the quote failed
	UserErrors []UserError `json:"user_errors,omitempty"`
}

// Oracle prices a set of not-yet-ordered lines as if creating a draft order
// right now. Retry and timeout policy belong to the implementation, not to
// the engine.
type Oracle interface {
	// PriceDraft computes a draft quote for the given lines and discount
	PriceDraft(ctx context.Context, lines []DraftLine, discount *types.Discount) (*DraftQuote, error)
}
