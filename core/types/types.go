// Package types contains the work order pricing domain model.
package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRef is an opaque reference to a commercial order line. A nil LineRef
// means the entity has not been placed on any order yet.
type LineRef struct {
	// Order is the owning order name
	Order string `json:"order"`

	// Line identifies the line within the order
	Line string `json:"line"`

	// Draft marks a draft-only line; draft lines do not make an entity placed
	Draft bool `json:"draft,omitempty"`
}

// Real reports whether the reference points at a real (non-draft) order line.
// Placed entities take their prices from the ledger, never from the oracle.
func (r *LineRef) Real() bool {
	return r != nil && !r.Draft
}

// Key returns a stable map key for the referenced line
func (r LineRef) Key() string {
	return r.Order + "/" + r.Line
}

// Item is a sellable unit on a work order
type Item struct {
	// UUID uniquely identifies the item within the work order
	UUID uuid.UUID `json:"uuid"`

	// ProductRef identifies the product being sold
	ProductRef string `json:"product_ref"`

	// Name is a human-readable label
	Name string `json:"name,omitempty"`

	// Quantity is the number of units (always > 0)
	Quantity int `json:"quantity"`

	// AbsorbCharges folds attached charge prices into this item's displayed
	// price instead of listing them as separate lines
	AbsorbCharges bool `json:"absorb_charges,omitempty"`

	// LineRef links the item to a commercial order line, if placed
	LineRef *LineRef `json:"line_ref,omitempty"`
}

// ChargeKind discriminates charge variants
type ChargeKind string

const (
	// ChargeHourly is a labour charge billed as rate times hours
	ChargeHourly ChargeKind = "hourly"

	// ChargeFixed is a flat-amount charge
	ChargeFixed ChargeKind = "fixed"
)

// Charge is implemented by HourlyCharge and FixedCharge
type Charge interface {
	// ChargeUUID uniquely identifies the charge
	ChargeUUID() uuid.UUID

	// Kind returns the charge variant
	Kind() ChargeKind

	// ParentItem returns the owning item, or nil for an order-level charge
	ParentItem() *uuid.UUID

	// OrderLine returns the commercial line the charge is placed on, if any
	OrderLine() *LineRef

	// BaseAmount is the undiscounted charge amount
	BaseAmount() decimal.Decimal
}

// HourlyCharge is a labour charge billed as rate times hours
type HourlyCharge struct {
	// UUID uniquely identifies the charge
	UUID uuid.UUID `json:"uuid"`

	// Name is a human-readable label
	Name string `json:"name,omitempty"`

	// Rate is the hourly rate
	Rate decimal.Decimal `json:"rate"`

	// Hours is the number of hours billed
	Hours decimal.Decimal `json:"hours"`

	// ParentItemUUID links the charge to an item (nil = whole order)
	ParentItemUUID *uuid.UUID `json:"parent_item_uuid,omitempty"`

	// LineRef links the charge to a commercial order line, if placed
	LineRef *LineRef `json:"line_ref,omitempty"`
}

// ChargeUUID implements Charge
func (c HourlyCharge) ChargeUUID() uuid.UUID { return c.UUID }

// Kind implements Charge
func (c HourlyCharge) Kind() ChargeKind { return ChargeHourly }

// ParentItem implements Charge
func (c HourlyCharge) ParentItem() *uuid.UUID { return c.ParentItemUUID }

// OrderLine implements Charge
func (c HourlyCharge) OrderLine() *LineRef { return c.LineRef }

// BaseAmount implements Charge
func (c HourlyCharge) BaseAmount() decimal.Decimal { return c.Rate.Mul(c.Hours) }

// FixedCharge is a flat-amount charge
type FixedCharge struct {
	// UUID uniquely identifies the charge
	UUID uuid.UUID `json:"uuid"`

	// Name is a human-readable label
	Name string `json:"name,omitempty"`

	// Amount is the charge amount
	Amount decimal.Decimal `json:"amount"`

	// ParentItemUUID links the charge to an item (nil = whole order)
	ParentItemUUID *uuid.UUID `json:"parent_item_uuid,omitempty"`

	// LineRef links the charge to a commercial order line, if placed
	LineRef *LineRef `json:"line_ref,omitempty"`
}

// ChargeUUID implements Charge
func (c FixedCharge) ChargeUUID() uuid.UUID { return c.UUID }

// Kind implements Charge
func (c FixedCharge) Kind() ChargeKind { return ChargeFixed }

// ParentItem implements Charge
func (c FixedCharge) ParentItem() *uuid.UUID { return c.ParentItemUUID }

// OrderLine implements Charge
func (c FixedCharge) OrderLine() *LineRef { return c.LineRef }

// BaseAmount implements Charge
func (c FixedCharge) BaseAmount() decimal.Decimal { return c.Amount }

// DiscountType identifies how a discount value is interpreted
type DiscountType string

const (
	// DiscountFixedAmount is an absolute amount off the order
	DiscountFixedAmount DiscountType = "fixed_amount"

	// DiscountPercentage is a percentage off the order
	DiscountPercentage DiscountType = "percentage"
)

// Discount is an order-level discount
type Discount struct {
	// Type identifies how Value is interpreted
	Type DiscountType `json:"type"`

	// Value is the discount amount or percentage
	Value decimal.Decimal `json:"value"`
}
