package breakdown

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"workorder-pricing/core/ledger"
	"workorder-pricing/core/quote"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeStore struct {
	lines    map[string][]ledger.OrderLine
	orders   map[string]*ledger.Order
	entities map[string]*ledger.Entities
}

func (s *fakeStore) OrderLinesForWorkOrder(ctx context.Context, name string) ([]ledger.OrderLine, error) {
	lines, ok := s.lines[name]
	if !ok {
		return nil, errors.NotFound("work order", name)
	}
	return lines, nil
}

func (s *fakeStore) Order(ctx context.Context, orderName string) (*ledger.Order, error) {
	order, ok := s.orders[orderName]
	if !ok {
		return nil, errors.NotFound("order", orderName)
	}
	return order, nil
}

func (s *fakeStore) ItemsAndCharges(ctx context.Context, name string) (*ledger.Entities, error) {
	entities, ok := s.entities[name]
	if !ok {
		return nil, errors.NotFound("work order", name)
	}
	return entities, nil
}

type failingOracle struct{}

func (failingOracle) PriceDraft(ctx context.Context, lines []quote.DraftLine, discount *types.Discount) (*quote.DraftQuote, error) {
	return nil, fmt.Errorf("quote service unavailable")
}

func TestComputeMergesLedgerAndOracle(t *testing.T) {
	ref := &types.LineRef{Order: "ORD-1", Line: "L1"}
	placedA := types.Item{UUID: uuid.New(), Quantity: 1, LineRef: ref}
	placedB := types.Item{UUID: uuid.New(), Quantity: 1, LineRef: ref}
	newA := types.Item{UUID: uuid.New(), Quantity: 1}
	newB := types.Item{UUID: uuid.New(), Quantity: 1}
	newC := types.Item{UUID: uuid.New(), Quantity: 1}

	store := &fakeStore{
		lines: map[string][]ledger.OrderLine{
			"WO-1": {{Ref: *ref, UnitPrice: dec("10.00"), DiscountedUnitPrice: dec("10.00"), Quantity: 2, TotalTax: dec("0")}},
		},
		orders: map[string]*ledger.Order{
			"ORD-1": {Name: "ORD-1", Total: dec("20.00"), Outstanding: dec("20.00")},
		},
		entities: map[string]*ledger.Entities{
			"WO-1": {Items: []types.Item{placedA, placedB}},
		},
	}
	oracle := &quote.StaticOracle{Prices: map[quote.LineMarker]decimal.Decimal{
		quote.ItemMarker(newA.UUID): dec("5.00"),
		quote.ItemMarker(newB.UUID): dec("5.00"),
		quote.ItemMarker(newC.UUID): dec("5.00"),
	}}

	name := "WO-1"
	calc := NewCalculator(oracle, store, types.CurrencyUSD)
	result, err := calc.Compute(context.Background(), &Request{
		Name:  &name,
		Items: []types.Item{placedA, placedB, newA, newB, newC},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.ItemPrices) != 5 {
		t.Fatalf("merged breakdown holds %d items, want 5", len(result.ItemPrices))
	}
	for _, placed := range []types.Item{placedA, placedB} {
		if got := result.ItemPrices[placed.UUID]; !got.Amount.Equal(dec("10.00")) {
			t.Errorf("placed item price = %s, want the ledger's 10.00", got.Amount)
		}
	}
	for _, fresh := range []types.Item{newA, newB, newC} {
		if got := result.ItemPrices[fresh.UUID]; !got.Amount.Equal(dec("5.00")) {
			t.Errorf("new item price = %s, want the quoted 5.00", got.Amount)
		}
	}
	if !result.Subtotal.Amount.Equal(dec("35.00")) {
		t.Errorf("subtotal = %s, want 35.00", result.Subtotal.Amount)
	}
	if !result.Outstanding.Amount.Equal(dec("35.00")) {
		t.Errorf("outstanding = %s, want 35.00", result.Outstanding.Amount)
	}
	if err := result.Validate(); err != nil {
		t.Errorf("merged breakdown failed validation: %v", err)
	}
}

func TestComputeWithoutWorkOrderName(t *testing.T) {
	item := types.Item{UUID: uuid.New(), Quantity: 1}
	oracle := &quote.StaticOracle{Prices: map[quote.LineMarker]decimal.Decimal{
		quote.ItemMarker(item.UUID): dec("12.00"),
	}}

	// The store must never be consulted when no name is given.
	calc := NewCalculator(oracle, &fakeStore{}, types.CurrencyUSD)
	result, err := calc.Compute(context.Background(), &Request{Items: []types.Item{item}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.ItemPrices[item.UUID]; !got.Amount.Equal(dec("12.00")) {
		t.Errorf("item price = %s, want 12.00", got.Amount)
	}
	if !result.Paid.IsZero() {
		t.Errorf("paid = %s, want 0 with nothing placed", result.Paid.Amount)
	}
	if !result.Outstanding.Equal(result.Total) {
		t.Errorf("outstanding %s != total %s", result.Outstanding.Amount, result.Total.Amount)
	}
}

func TestComputeMergedOutstanding(t *testing.T) {
	// A 75%-paid placed line plus a fresh quoted item: outstanding is derived
	// once over the merged aggregate.
	ref := &types.LineRef{Order: "ORD-2", Line: "L1"}
	placed := types.Item{UUID: uuid.New(), Quantity: 1, LineRef: ref}
	fresh := types.Item{UUID: uuid.New(), Quantity: 1}

	store := &fakeStore{
		lines: map[string][]ledger.OrderLine{
			"WO-2": {{Ref: *ref, UnitPrice: dec("20.00"), DiscountedUnitPrice: dec("20.00"), Quantity: 1, TotalTax: dec("0")}},
		},
		orders: map[string]*ledger.Order{
			"ORD-2": {Name: "ORD-2", Total: dec("20.00"), Outstanding: dec("5.00")},
		},
		entities: map[string]*ledger.Entities{
			"WO-2": {Items: []types.Item{placed}},
		},
	}
	oracle := &quote.StaticOracle{Prices: map[quote.LineMarker]decimal.Decimal{
		quote.ItemMarker(fresh.UUID): dec("10.00"),
	}}

	name := "WO-2"
	calc := NewCalculator(oracle, store, types.CurrencyUSD)
	result, err := calc.Compute(context.Background(), &Request{
		Name:  &name,
		Items: []types.Item{placed, fresh},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Total.Amount.Equal(dec("30.00")) {
		t.Errorf("total = %s, want 30.00", result.Total.Amount)
	}
	if !result.Paid.Amount.Equal(dec("15.00")) {
		t.Errorf("paid = %s, want 15.00", result.Paid.Amount)
	}
	if !result.Outstanding.Amount.Equal(dec("15.00")) {
		t.Errorf("outstanding = %s, want 15.00", result.Outstanding.Amount)
	}
}

func TestComputeAbsorptionMatchesAcrossPaths(t *testing.T) {
	// The same absorbing item + charge pair decomposes to identical prices
	// whether priced through the oracle or reconciled from the ledger.
	itemID := uuid.New()
	chargeID := uuid.New()

	quotedItem := types.Item{UUID: itemID, Quantity: 1, AbsorbCharges: true}
	quotedCharge := types.FixedCharge{UUID: chargeID, Amount: dec("5.00"), ParentItemUUID: &itemID}
	oracle := &quote.StaticOracle{Prices: map[quote.LineMarker]decimal.Decimal{
		quote.ItemMarker(itemID): dec("15.00"),
	}}

	calc := NewCalculator(oracle, &fakeStore{}, types.CurrencyUSD)
	viaOracle, err := calc.Compute(context.Background(), &Request{
		Items:        []types.Item{quotedItem},
		FixedCharges: []types.FixedCharge{quotedCharge},
	})
	if err != nil {
		t.Fatalf("oracle path failed: %v", err)
	}

	// The same entities after placement: one 20.00 line holding both.
	ref := &types.LineRef{Order: "ORD-9", Line: "L1"}
	placedItem := quotedItem
	placedItem.LineRef = ref
	placedCharge := quotedCharge
	placedCharge.LineRef = ref

	store := &fakeStore{
		lines: map[string][]ledger.OrderLine{
			"WO-9": {{Ref: *ref, UnitPrice: dec("20.00"), DiscountedUnitPrice: dec("20.00"), Quantity: 1, TotalTax: dec("0")}},
		},
		orders: map[string]*ledger.Order{
			"ORD-9": {Name: "ORD-9", Total: dec("20.00"), Outstanding: dec("20.00")},
		},
		entities: map[string]*ledger.Entities{
			"WO-9": {Items: []types.Item{placedItem}, FixedCharges: []types.FixedCharge{placedCharge}},
		},
	}
	name := "WO-9"
	calc = NewCalculator(oracle, store, types.CurrencyUSD)
	viaLedger, err := calc.Compute(context.Background(), &Request{
		Name:         &name,
		Items:        []types.Item{placedItem},
		FixedCharges: []types.FixedCharge{placedCharge},
	})
	if err != nil {
		t.Fatalf("ledger path failed: %v", err)
	}

	if a, b := viaOracle.ItemPrices[itemID], viaLedger.ItemPrices[itemID]; !a.Equal(b) {
		t.Errorf("item price diverges across paths: %s vs %s", a.Amount, b.Amount)
	}
	if a, b := viaOracle.FixedChargePrices[chargeID], viaLedger.FixedChargePrices[chargeID]; !a.Equal(b) {
		t.Errorf("charge price diverges across paths: %s vs %s", a.Amount, b.Amount)
	}
}

func TestComputeOracleFailureYieldsNoPartialResult(t *testing.T) {
	ref := &types.LineRef{Order: "ORD-4", Line: "L1"}
	placed := types.Item{UUID: uuid.New(), Quantity: 1, LineRef: ref}
	fresh := types.Item{UUID: uuid.New(), Quantity: 1}

	store := &fakeStore{
		lines: map[string][]ledger.OrderLine{
			"WO-4": {{Ref: *ref, UnitPrice: dec("10.00"), DiscountedUnitPrice: dec("10.00"), Quantity: 1, TotalTax: dec("0")}},
		},
		orders: map[string]*ledger.Order{
			"ORD-4": {Name: "ORD-4", Total: dec("10.00"), Outstanding: dec("10.00")},
		},
		entities: map[string]*ledger.Entities{
			"WO-4": {Items: []types.Item{placed}},
		},
	}

	name := "WO-4"
	calc := NewCalculator(failingOracle{}, store, types.CurrencyUSD)
	result, err := calc.Compute(context.Background(), &Request{
		Name:  &name,
		Items: []types.Item{placed, fresh},
	})
	if result != nil {
		t.Error("got a partial breakdown despite an oracle failure")
	}
	if !errors.IsType(err, errors.TypeCalculation) {
		t.Errorf("expected CALCULATION_FAILURE, got %v", err)
	}
}

func TestComputeUnknownWorkOrder(t *testing.T) {
	name := "WO-MISSING"
	calc := NewCalculator(&quote.StaticOracle{}, &fakeStore{}, types.CurrencyUSD)

	result, err := calc.Compute(context.Background(), &Request{Name: &name})
	if result != nil {
		t.Error("got a breakdown for an unknown work order")
	}
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
