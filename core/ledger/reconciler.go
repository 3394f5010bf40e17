// Package ledger - Reconciler
//
// Decomposes already-placed order totals, discounts, taxes and payments back
// down to item and charge granularity. Placed entities' prices are fixed by
// history; the oracle is never consulted for them.
package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"workorder-pricing/core/types"
)

// Reconciler derives price, paid and outstanding contributions for placed
// entities purely from stored records
type Reconciler struct {
	store    Store
	currency types.Currency
}

// NewReconciler creates a reconciler over the given store
func NewReconciler(store Store, currency types.Currency) *Reconciler {
	return &Reconciler{store: store, currency: currency}
}

// Compute decomposes the placed portion of the named work order into a price
// breakdown. All lookups complete before decomposition begins; there are no
// partial results.
func (r *Reconciler) Compute(ctx context.Context, name string) (*types.PriceBreakdown, error) {
	var (
		lines    []OrderLine
		entities *Entities
		linesErr error
		entErr   error
		wg       sync.WaitGroup
	)

	// Line and entity lookups read disjoint data and can run concurrently.
	wg.Add(2)
	go func() {
		defer wg.Done()
		lines, linesErr = r.store.OrderLinesForWorkOrder(ctx, name)
	}()
	go func() {
		defer wg.Done()
		entities, entErr = r.store.ItemsAndCharges(ctx, name)
	}()
	wg.Wait()

	if linesErr != nil {
		return nil, linesErr
	}
	if entErr != nil {
		return nil, entErr
	}

	orders, err := r.fetchOrders(ctx, lines)
	if err != nil {
		return nil, err
	}

	return r.decompose(lines, entities, orders)
}

// fetchOrders loads the payment state of every distinct order behind the
// given lines
func (r *Reconciler) fetchOrders(ctx context.Context, lines []OrderLine) (map[string]*Order, error) {
	orders := make(map[string]*Order)
	for _, line := range lines {
		if line.Ref.Draft {
			continue
		}
		if _, ok := orders[line.Ref.Order]; ok {
			continue
		}
		order, err := r.store.Order(ctx, line.Ref.Order)
		if err != nil {
			return nil, err
		}
		orders[line.Ref.Order] = order
	}
	return orders, nil
}

func (r *Reconciler) decompose(lines []OrderLine, entities *Entities, orders map[string]*Order) (*types.PriceBreakdown, error) {
	minor := r.currency.MinorUnits()
	breakdown := types.NewPriceBreakdown(r.currency)

	itemsByLine := make(map[string][]types.Item)
	for _, item := range entities.Items {
		if item.LineRef.Real() {
			key := item.LineRef.Key()
			itemsByLine[key] = append(itemsByLine[key], item)
		}
	}
	chargesByLine := make(map[string][]types.Charge)
	for _, charge := range entities.Charges() {
		if charge.OrderLine().Real() {
			key := charge.OrderLine().Key()
			chargesByLine[key] = append(chargesByLine[key], charge)
		}
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero
	paid := decimal.Zero

	for _, line := range lines {
		if line.Ref.Draft {
			continue
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		originalTotal := line.UnitPrice.Mul(qty)
		discountedTotal := line.DiscountedUnitPrice.Mul(qty)
		discountedTaxedTotal := discountedTotal.Add(line.TotalTax)

		subtotal = subtotal.Add(discountedTotal)
		tax = tax.Add(line.TotalTax)
		discount = discount.Add(discountedTotal.Sub(originalTotal))

		if order := orders[line.Ref.Order]; order != nil {
			fraction := types.PaidFraction(order.Total, order.Outstanding)
			paid = paid.Add(discountedTaxedTotal.Mul(fraction))
		}

		key := line.Ref.Key()
		factor := types.SafeRatio(discountedTotal, originalTotal)

		// Charges attached to the line come out first, each ceiling-rounded
		// once; the item price is the exact remainder.
		itemPrice := discountedTotal
		for _, charge := range chargesByLine[key] {
			chargePrice := charge.BaseAmount().Mul(factor).RoundCeil(minor)
			breakdown.SetChargePrice(charge, types.NewMoney(chargePrice, r.currency))
			itemPrice = itemPrice.Sub(chargePrice)
		}
		if itemPrice.IsNegative() {
			itemPrice = decimal.Zero
		}
		itemPrice = itemPrice.RoundCeil(minor)

		r.distribute(breakdown, itemsByLine[key], line.Quantity, itemPrice)
	}

	// Aggregates round once at the boundary: stored sub-minor-unit unit
	// prices must not leak extra precision into the final breakdown.
	breakdown.Subtotal = types.NewMoney(subtotal.RoundCeil(minor), r.currency)
	breakdown.Tax = types.NewMoney(tax.RoundCeil(minor), r.currency)
	breakdown.Total = breakdown.Subtotal.Add(breakdown.Tax)
	breakdown.Discount = types.NewMoney(discount.Round(minor), r.currency)
	breakdown.Paid = types.NewMoney(paid.Round(minor), r.currency)
	// Outstanding is derived once over the whole aggregate so per-line
	// rounding cannot compound.
	breakdown.Outstanding = breakdown.Total.Sub(breakdown.Paid)

	return breakdown, nil
}

// distribute spreads a line's remaining item price over its constituent item
// records. Each record takes the ceiling of its proportional share and the
// undistributed quantity counts down, so the first record takes any ceiling
// remainder and the last absorbs the exact balance: no residual cent is lost.
func (r *Reconciler) distribute(breakdown *types.PriceBreakdown, items []types.Item, lineQuantity int, remaining decimal.Decimal) {
	minor := r.currency.MinorUnits()
	remainingQty := lineQuantity

	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		div := remainingQty
		if div <= 0 {
			// Non-quantity-bearing service line: fall back to a uniform
			// divisor of 1.
			div = 1
			qty = 1
		}
		share := remaining.
			Mul(decimal.NewFromInt(int64(qty))).
			Div(decimal.NewFromInt(int64(div))).
			RoundCeil(minor)
		if share.GreaterThan(remaining) {
			share = remaining
		}
		breakdown.ItemPrices[item.UUID] = types.NewMoney(share, r.currency)
		remaining = remaining.Sub(share)
		remainingQty -= qty
	}
}
