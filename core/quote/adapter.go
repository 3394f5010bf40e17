// Package quote - Oracle adapter
//
// Turns unordered items and charges into a priced quote via the external
// oracle and demultiplexes the tagged response back onto domain entities.
package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
)

// Adapter prices not-yet-ordered entities through a draft quote oracle
type Adapter struct {
	oracle   Oracle
	currency types.Currency
}

// NewAdapter creates an adapter over the given oracle
func NewAdapter(oracle Oracle, currency types.Currency) *Adapter {
	return &Adapter{oracle: oracle, currency: currency}
}

// Compute prices the given items and charges as a draft order with the given
// order-level discount. An empty input short-circuits to an all-zero
// breakdown: an empty order cannot be priced.
func (a *Adapter) Compute(ctx context.Context, items []types.Item, charges []types.Charge, discount *types.Discount) (*types.PriceBreakdown, error) {
	breakdown := types.NewPriceBreakdown(a.currency)
	if len(items) == 0 && len(charges) == 0 {
		return breakdown, nil
	}

	itemIndex := types.ItemIndex(items)

	// Absorbed charges ride on their parent item's line; the rest get lines
	// of their own.
	absorbedByItem := make(map[uuid.UUID][]types.Charge)
	var standalone []types.Charge
	for _, charge := range charges {
		if parent := types.AbsorbedParent(charge, itemIndex); parent != nil {
			absorbedByItem[parent.UUID] = append(absorbedByItem[parent.UUID], charge)
		} else {
			standalone = append(standalone, charge)
		}
	}

	lines := make([]DraftLine, 0, len(items)+len(standalone))
	for _, item := range items {
		line := DraftLine{
			Ref:      ItemMarker(item.UUID),
			Quantity: item.Quantity,
			Title:    item.Name,
		}
		for _, charge := range absorbedByItem[item.UUID] {
			line.Absorbed = append(line.Absorbed, AbsorbedAmount{
				Ref:    MarkerFor(charge),
				Amount: charge.BaseAmount(),
			})
		}
		lines = append(lines, line)
	}
	for _, charge := range standalone {
		base := charge.BaseAmount()
		lines = append(lines, DraftLine{
			Ref:               MarkerFor(charge),
			Quantity:          1,
			UnitPriceOverride: &base,
			Title:             chargeTitle(charge),
		})
	}

	result, err := a.oracle.PriceDraft(ctx, lines, discount)
	if err != nil {
		return nil, errors.Calculation("draft quote failed", err)
	}
	if result == nil {
		return nil, errors.Calculation("draft quote returned no result", nil)
	}
	if len(result.UserErrors) > 0 {
		return nil, errors.Calculation(fmt.Sprintf("draft quote rejected: %s", result.UserErrors[0].Message), nil).
			WithContext("user_errors", result.UserErrors)
	}

	quoted, err := indexQuotedLines(result.Lines)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		line, ok := quoted[ItemMarker(item.UUID)]
		if !ok {
			return nil, errors.Consistencyf("oracle echoed no line for item %s", item.UUID)
		}

		factor := types.SafeRatio(line.DiscountedTotal, line.OriginalTotal)
		price := types.NewMoney(line.DiscountedTotal, a.currency)
		for _, charge := range absorbedByItem[item.UUID] {
			share := types.NewMoney(charge.BaseAmount().Mul(factor), a.currency).Ceil()
			breakdown.SetChargePrice(charge, share)
			price = price.Sub(share)
		}
		breakdown.ItemPrices[item.UUID] = price.ClampZero().Ceil()
		breakdown.Discount = breakdown.Discount.Add(
			types.NewMoney(line.DiscountedTotal.Sub(line.OriginalTotal), a.currency))
	}

	for _, charge := range standalone {
		line, ok := quoted[MarkerFor(charge)]
		if !ok {
			return nil, errors.Consistencyf("oracle echoed no line for charge %s", charge.ChargeUUID())
		}
		breakdown.SetChargePrice(charge, types.NewMoney(line.DiscountedTotal, a.currency).Ceil())
		breakdown.Discount = breakdown.Discount.Add(
			types.NewMoney(line.DiscountedTotal.Sub(line.OriginalTotal), a.currency))
	}

	// Aggregates round once at the boundary: a quote carrying sub-minor-unit
	// amounts must not leak extra precision into the final breakdown.
	breakdown.Subtotal = types.NewMoney(result.Subtotal, a.currency).Ceil()
	breakdown.Tax = types.NewMoney(result.Tax, a.currency).Ceil()
	breakdown.Total = breakdown.Subtotal.Add(breakdown.Tax)
	breakdown.Discount = types.NewMoney(breakdown.Discount.Amount.Round(a.currency.MinorUnits()), a.currency)
	// Nothing here is ordered yet, so nothing is paid.
	breakdown.Outstanding = breakdown.Total

	return breakdown, nil
}

// indexQuotedLines indexes the response by marker. More than one line for the
// same marker is a fatal integration bug; unknown extra markers are tolerated
// and ignored.
func indexQuotedLines(lines []QuotedLine) (map[LineMarker]QuotedLine, error) {
	index := make(map[LineMarker]QuotedLine, len(lines))
	for _, line := range lines {
		if _, isItem := ParseItemMarker(line.Ref); !isItem {
			if _, _, isCharge := ParseChargeMarker(line.Ref); !isCharge {
				continue
			}
		}
		if _, dup := index[line.Ref]; dup {
			return nil, errors.Consistencyf("oracle echoed marker %q on more than one line", line.Ref)
		}
		index[line.Ref] = line
	}
	return index, nil
}

func chargeTitle(charge types.Charge) string {
	switch c := charge.(type) {
	case types.HourlyCharge:
		return c.Name
	case types.FixedCharge:
		return c.Name
	default:
		return string(charge.Kind()) + " charge"
	}
}
