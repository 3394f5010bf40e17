// Package api - Request/response types and validation
package api

import (
	"time"

	"workorder-pricing/core/breakdown"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
)

// BreakdownRequest is the wire form of a breakdown computation request
type BreakdownRequest struct {
	breakdown.Request
}

// BreakdownResponse wraps a computed breakdown with request metadata
type BreakdownResponse struct {
	// RequestID correlates the response with server logs
	RequestID string `json:"request_id"`

	// Timestamp is when the computation finished
	Timestamp time.Time `json:"timestamp"`

	// Breakdown is the computed result
	Breakdown *types.PriceBreakdown `json:"breakdown"`
}

// ErrorResponse is the wire form of a failed request
type ErrorResponse struct {
	// RequestID correlates the response with server logs
	RequestID string `json:"request_id"`

	// Code is the machine-readable error type
	Code string `json:"code"`

	// Message describes the failure
	Message string `json:"message"`
}

// validateRequest rejects structurally invalid input before it reaches the
// engine
func validateRequest(req *BreakdownRequest) error {
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return errors.Newf(errors.TypeInput, "item %s has non-positive quantity %d", item.UUID, item.Quantity)
		}
	}
	for _, charge := range req.HourlyCharges {
		if charge.Rate.IsNegative() || charge.Hours.IsNegative() {
			return errors.Newf(errors.TypeInput, "hourly charge %s has negative rate or hours", charge.UUID)
		}
	}
	for _, charge := range req.FixedCharges {
		if charge.Amount.IsNegative() {
			return errors.Newf(errors.TypeInput, "fixed charge %s has negative amount", charge.UUID)
		}
	}
	if req.Discount != nil {
		switch req.Discount.Type {
		case types.DiscountFixedAmount, types.DiscountPercentage:
		default:
			return errors.Newf(errors.TypeInput, "unknown discount type %q", req.Discount.Type)
		}
		if req.Discount.Value.IsNegative() {
			return errors.Input("discount value must not be negative")
		}
	}
	return nil
}
