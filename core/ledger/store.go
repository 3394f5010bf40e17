// Package ledger - Read-only store of already-placed orders
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"workorder-pricing/core/types"
)

// OrderLine is one stored commercial order line
type OrderLine struct {
	// Ref identifies the order and line
	Ref types.LineRef `json:"ref"`

	// UnitPrice is the pre-discount unit price
	UnitPrice decimal.Decimal `json:"unit_price"`

	// DiscountedUnitPrice is the post-discount unit price
	DiscountedUnitPrice decimal.Decimal `json:"discounted_unit_price"`

	// Quantity is the number of units on the line
	Quantity int `json:"quantity"`

	// TotalTax is the tax recorded against the line
	TotalTax decimal.Decimal `json:"total_tax"`
}

// Order is the stored payment state of a placed order
type Order struct {
	// Name identifies the order
	Name string `json:"name"`

	// Total is the order's taxed, discounted total
	Total decimal.Decimal `json:"total"`

	// Outstanding is the unpaid portion of Total
	Outstanding decimal.Decimal `json:"outstanding"`
}

// Entities are the stored items and charges of a work order, keyed by the
// same uuids the caller uses in requests
type Entities struct {
	// Items are the stored item records
	Items []types.Item `json:"items"`

	// HourlyCharges are the stored hourly charge records
	HourlyCharges []types.HourlyCharge `json:"hourly_charges"`

	// FixedCharges are the stored fixed charge records
	FixedCharges []types.FixedCharge `json:"fixed_charges"`
}

// Charges returns all charges as the shared Charge interface
func (e *Entities) Charges() []types.Charge {
	charges := make([]types.Charge, 0, len(e.HourlyCharges)+len(e.FixedCharges))
	for _, c := range e.HourlyCharges {
		charges = append(charges, c)
	}
	for _, c := range e.FixedCharges {
		charges = append(charges, c)
	}
	return charges
}

// Store provides read-only access to placed orders and their decomposition
// records. Implementations must return a NOT_FOUND error from
// OrderLinesForWorkOrder when the work order name is unknown.
type Store interface {
	// OrderLinesForWorkOrder returns the commercial lines backing a work order
	OrderLinesForWorkOrder(ctx context.Context, name string) ([]OrderLine, error)

	// Order returns the payment state of an order
	Order(ctx context.Context, orderName string) (*Order, error)

	// ItemsAndCharges returns the stored items and charges of a work order
	ItemsAndCharges(ctx context.Context, name string) (*Entities, error)
}
