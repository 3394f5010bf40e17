// Package quote - Static oracle
package quote

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"workorder-pricing/core/types"
)

// StaticOracle prices draft lines from a fixed unit-price table. It backs
// tests and demo setups where no external quote service is available; the
// production transport lives in adapters/oracle.
type StaticOracle struct {
	// Prices maps markers to unit prices for lines without an override
	Prices map[LineMarker]decimal.Decimal

	// TaxRate is applied to the discounted subtotal (e.g. 0.08)
	TaxRate decimal.Decimal
}

// PriceDraft implements Oracle
func (o *StaticOracle) PriceDraft(ctx context.Context, lines []DraftLine, discount *types.Discount) (*DraftQuote, error) {
	result := &DraftQuote{}

	originals := make([]decimal.Decimal, len(lines))
	originalSum := decimal.Zero
	for i, line := range lines {
		unit := decimal.Zero
		if line.UnitPriceOverride != nil {
			unit = *line.UnitPriceOverride
		} else if price, ok := o.Prices[line.Ref]; ok {
			unit = price
		} else {
			result.UserErrors = append(result.UserErrors, UserError{
				Field:   string(line.Ref),
				Message: fmt.Sprintf("no price for line %s", line.Ref),
			})
			continue
		}

		total := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		for _, absorbed := range line.Absorbed {
			total = total.Add(absorbed.Amount)
		}
		originals[i] = total
		originalSum = originalSum.Add(total)
	}
	if len(result.UserErrors) > 0 {
		return result, nil
	}

	subtotal := decimal.Zero
	for i, line := range lines {
		discounted := applyDiscount(originals[i], originalSum, discount)
		result.Lines = append(result.Lines, QuotedLine{
			Ref:             line.Ref,
			OriginalTotal:   originals[i],
			DiscountedTotal: discounted,
		})
		subtotal = subtotal.Add(discounted)
	}

	result.Subtotal = subtotal
	result.Tax = subtotal.Mul(o.TaxRate).Round(2)
	result.Total = result.Subtotal.Add(result.Tax)
	return result, nil
}

// applyDiscount applies an order-level discount to one line. Percentage
// discounts scale every line; fixed amounts come off proportionally to the
// line's share of the original total.
func applyDiscount(original, originalSum decimal.Decimal, discount *types.Discount) decimal.Decimal {
	if discount == nil || originalSum.IsZero() {
		return original
	}
	switch discount.Type {
	case types.DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(discount.Value.Div(decimal.NewFromInt(100)))
		return original.Mul(factor).Round(2)
	case types.DiscountFixedAmount:
		share := discount.Value.Mul(original).Div(originalSum).Round(2)
		discounted := original.Sub(share)
		if discounted.IsNegative() {
			return decimal.Zero
		}
		return discounted
	default:
		return original
	}
}
