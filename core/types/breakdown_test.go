package types

import (
	"testing"

	"github.com/google/uuid"

	"workorder-pricing/internal/errors"
)

func TestMergeIsDisjointUnion(t *testing.T) {
	left := NewPriceBreakdown(CurrencyUSD)
	right := NewPriceBreakdown(CurrencyUSD)

	itemA := uuid.New()
	itemB := uuid.New()
	chargeA := uuid.New()

	left.Subtotal = NewMoney(dec("40.00"), CurrencyUSD)
	left.Total = NewMoney(dec("40.00"), CurrencyUSD)
	left.Paid = NewMoney(dec("30.00"), CurrencyUSD)
	left.ItemPrices[itemA] = NewMoney(dec("40.00"), CurrencyUSD)

	right.Subtotal = NewMoney(dec("25.00"), CurrencyUSD)
	right.Total = NewMoney(dec("25.00"), CurrencyUSD)
	right.ItemPrices[itemB] = NewMoney(dec("20.00"), CurrencyUSD)
	right.FixedChargePrices[chargeA] = NewMoney(dec("5.00"), CurrencyUSD)

	if err := left.Merge(right); err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}

	if !left.Subtotal.Amount.Equal(dec("65.00")) {
		t.Errorf("merged subtotal = %s, want 65.00", left.Subtotal.Amount)
	}
	if !left.Paid.Amount.Equal(dec("30.00")) {
		t.Errorf("merged paid = %s, want 30.00", left.Paid.Amount)
	}
	if len(left.ItemPrices) != 2 {
		t.Errorf("merged item map has %d keys, want 2", len(left.ItemPrices))
	}
	if len(left.FixedChargePrices) != 1 {
		t.Errorf("merged fixed charge map has %d keys, want 1", len(left.FixedChargePrices))
	}
}

func TestMergeRejectsOverlappingKeys(t *testing.T) {
	shared := uuid.New()

	left := NewPriceBreakdown(CurrencyUSD)
	left.ItemPrices[shared] = NewMoney(dec("10.00"), CurrencyUSD)

	right := NewPriceBreakdown(CurrencyUSD)
	right.ItemPrices[shared] = NewMoney(dec("20.00"), CurrencyUSD)

	err := left.Merge(right)
	if err == nil {
		t.Fatal("expected merge of overlapping keys to fail")
	}
	if !errors.IsType(err, errors.TypeConsistency) {
		t.Errorf("expected CONSISTENCY_ERROR, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	b := NewPriceBreakdown(CurrencyUSD)
	b.Subtotal = NewMoney(dec("40.00"), CurrencyUSD)
	b.Tax = NewMoney(dec("3.20"), CurrencyUSD)
	b.Total = NewMoney(dec("43.20"), CurrencyUSD)
	b.Paid = NewMoney(dec("43.20"), CurrencyUSD)
	b.Outstanding = NewMoney(dec("0"), CurrencyUSD)

	if err := b.Validate(); err != nil {
		t.Errorf("valid breakdown rejected: %v", err)
	}

	b.Tax = NewMoney(dec("3.00"), CurrencyUSD)
	if err := b.Validate(); err == nil {
		t.Error("expected subtotal+tax!=total to be rejected")
	}
}

func TestSetChargePriceRoutesOnKind(t *testing.T) {
	b := NewPriceBreakdown(CurrencyUSD)

	hourly := HourlyCharge{UUID: uuid.New(), Rate: dec("50"), Hours: dec("2")}
	fixed := FixedCharge{UUID: uuid.New(), Amount: dec("5")}

	b.SetChargePrice(hourly, NewMoney(dec("100.00"), CurrencyUSD))
	b.SetChargePrice(fixed, NewMoney(dec("5.00"), CurrencyUSD))

	if _, ok := b.HourlyChargePrices[hourly.UUID]; !ok {
		t.Error("hourly charge missing from hourly map")
	}
	if _, ok := b.FixedChargePrices[fixed.UUID]; !ok {
		t.Error("fixed charge missing from fixed map")
	}
	if len(b.HourlyChargePrices) != 1 || len(b.FixedChargePrices) != 1 {
		t.Error("charge prices routed to the wrong map")
	}
}
