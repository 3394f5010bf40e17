// Package breakdown - Allocation orchestrator
//
// The single entry point of the pricing engine. Splits the requested entity
// set into already-ordered and not-yet-ordered subsets, prices the first from
// the ledger and the second through the draft quote oracle, and merges both
// into one breakdown. The engine performs no writes; a breakdown is a pure
// function of the request and the externally-owned state read at call time.
package breakdown

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"workorder-pricing/core/ledger"
	"workorder-pricing/core/quote"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/logging"
)

// Request is the full set of entities to price
type Request struct {
	// Name is the work order name, or nil when nothing has been placed yet
	Name *string `json:"name"`

	// Items are the work order's items
	Items []types.Item `json:"items"`

	// HourlyCharges are the work order's hourly labour charges
	HourlyCharges []types.HourlyCharge `json:"hourly_charges"`

	// FixedCharges are the work order's fixed charges
	FixedCharges []types.FixedCharge `json:"fixed_charges"`

	// Discount is the order-level discount, if any
	Discount *types.Discount `json:"discount,omitempty"`
}

// Charges returns all requested charges as the shared Charge interface
func (r *Request) Charges() []types.Charge {
	charges := make([]types.Charge, 0, len(r.HourlyCharges)+len(r.FixedCharges))
	for _, c := range r.HourlyCharges {
		charges = append(charges, c)
	}
	for _, c := range r.FixedCharges {
		charges = append(charges, c)
	}
	return charges
}

// Calculator computes price breakdowns
type Calculator struct {
	quote    *quote.Adapter
	ledger   *ledger.Reconciler
	currency types.Currency
}

// NewCalculator creates a calculator over the given oracle and ledger store
func NewCalculator(oracle quote.Oracle, store ledger.Store, currency types.Currency) *Calculator {
	return &Calculator{
		quote:    quote.NewAdapter(oracle, currency),
		ledger:   ledger.NewReconciler(store, currency),
		currency: currency,
	}
}

// Compute prices the full requested entity set. Placed entities are priced
// from the ledger, the rest through the oracle; the two paths run
// concurrently and the request fails as a whole on the first failure. No
// partial breakdown is ever returned.
func (c *Calculator) Compute(ctx context.Context, req *Request) (*types.PriceBreakdown, error) {
	unplacedItems, unplacedCharges := partition(req)

	var (
		ledgerResult *types.PriceBreakdown
		oracleResult *types.PriceBreakdown
		ledgerErr    error
		oracleErr    error
		wg           sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if req.Name == nil {
			ledgerResult = types.NewPriceBreakdown(c.currency)
			return
		}
		ledgerResult, ledgerErr = c.ledger.Compute(ctx, *req.Name)
	}()
	go func() {
		defer wg.Done()
		oracleResult, oracleErr = c.quote.Compute(ctx, unplacedItems, unplacedCharges, req.Discount)
	}()
	wg.Wait()

	if ledgerErr != nil {
		return nil, ledgerErr
	}
	if oracleErr != nil {
		return nil, oracleErr
	}

	// The two paths price disjoint entity sets, so the merge is a union.
	merged := ledgerResult
	if err := merged.Merge(oracleResult); err != nil {
		return nil, err
	}
	merged.Outstanding = merged.Total.Sub(merged.Paid)

	logging.Debug("breakdown computed",
		zap.Int("items", len(merged.ItemPrices)),
		zap.Int("hourly_charges", len(merged.HourlyChargePrices)),
		zap.Int("fixed_charges", len(merged.FixedChargePrices)),
		zap.String("total", merged.Total.String()),
	)

	return merged, nil
}

// partition selects the not-yet-ordered subset of a request. Entities on a
// real order line are priced only from the ledger.
func partition(req *Request) ([]types.Item, []types.Charge) {
	var items []types.Item
	for _, item := range req.Items {
		if !item.LineRef.Real() {
			items = append(items, item)
		}
	}
	var charges []types.Charge
	for _, charge := range req.Charges() {
		if !charge.OrderLine().Real() {
			charges = append(charges, charge)
		}
	}
	return items, charges
}
