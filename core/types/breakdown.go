// Package types - Price breakdown output
package types

import (
	"github.com/google/uuid"

	"workorder-pricing/internal/errors"
)

// PriceBreakdown is the per-entity price decomposition of a work order. It is
// computed fresh on every call and never persisted.
type PriceBreakdown struct {
	// Subtotal is the post-discount, pre-tax total
	Subtotal Money `json:"subtotal"`

	// Tax is the summed externally-supplied tax
	Tax Money `json:"tax"`

	// Discount is the summed discount adjustment (discounted minus original,
	// so zero or negative)
	Discount Money `json:"discount"`

	// Total is the post-discount, pre-payment total (Subtotal + Tax)
	Total Money `json:"total"`

	// Paid is the portion of Total already paid
	Paid Money `json:"paid"`

	// Outstanding is Total - Paid
	Outstanding Money `json:"outstanding"`

	// ItemPrices maps item uuid to its displayed price
	ItemPrices map[uuid.UUID]Money `json:"item_prices"`

	// HourlyChargePrices maps hourly charge uuid to its price
	HourlyChargePrices map[uuid.UUID]Money `json:"hourly_charge_prices"`

	// FixedChargePrices maps fixed charge uuid to its price
	FixedChargePrices map[uuid.UUID]Money `json:"fixed_charge_prices"`
}

// NewPriceBreakdown returns an all-zero breakdown in the given currency
func NewPriceBreakdown(currency Currency) *PriceBreakdown {
	return &PriceBreakdown{
		Subtotal:           Zero(currency),
		Tax:                Zero(currency),
		Discount:           Zero(currency),
		Total:              Zero(currency),
		Paid:               Zero(currency),
		Outstanding:        Zero(currency),
		ItemPrices:         make(map[uuid.UUID]Money),
		HourlyChargePrices: make(map[uuid.UUID]Money),
		FixedChargePrices:  make(map[uuid.UUID]Money),
	}
}

// SetChargePrice records a charge price in the map matching the charge kind
func (b *PriceBreakdown) SetChargePrice(charge Charge, price Money) {
	switch charge.Kind() {
	case ChargeHourly:
		b.HourlyChargePrices[charge.ChargeUUID()] = price
	case ChargeFixed:
		b.FixedChargePrices[charge.ChargeUUID()] = price
	}
}

// Merge adds another breakdown into this one. The two computation paths price
// disjoint entity sets, so overlapping map keys indicate a bug upstream and
// fail loudly instead of silently overwriting a price.
func (b *PriceBreakdown) Merge(other *PriceBreakdown) error {
	b.Subtotal = b.Subtotal.Add(other.Subtotal)
	b.Tax = b.Tax.Add(other.Tax)
	b.Discount = b.Discount.Add(other.Discount)
	b.Total = b.Total.Add(other.Total)
	b.Paid = b.Paid.Add(other.Paid)
	b.Outstanding = b.Outstanding.Add(other.Outstanding)

	for id, price := range other.ItemPrices {
		if _, exists := b.ItemPrices[id]; exists {
			return errors.Consistencyf("item %s priced by both computation paths", id)
		}
		b.ItemPrices[id] = price
	}
	for id, price := range other.HourlyChargePrices {
		if _, exists := b.HourlyChargePrices[id]; exists {
			return errors.Consistencyf("hourly charge %s priced by both computation paths", id)
		}
		b.HourlyChargePrices[id] = price
	}
	for id, price := range other.FixedChargePrices {
		if _, exists := b.FixedChargePrices[id]; exists {
			return errors.Consistencyf("fixed charge %s priced by both computation paths", id)
		}
		b.FixedChargePrices[id] = price
	}

	return nil
}

// Validate checks the breakdown's arithmetic invariants
func (b *PriceBreakdown) Validate() error {
	if !b.Subtotal.Add(b.Tax).Equal(b.Total) {
		return errors.Consistencyf("subtotal %s + tax %s != total %s", b.Subtotal, b.Tax, b.Total)
	}
	if !b.Paid.Add(b.Outstanding).Equal(b.Total) {
		return errors.Consistencyf("paid %s + outstanding %s != total %s", b.Paid, b.Outstanding, b.Total)
	}
	return nil
}
