// Package output provides output formatting for price breakdowns.
// This package produces human and machine-readable renderings only; it never
// computes prices.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable text rendering
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the breakdown to w
	Render(w io.Writer, breakdown *types.PriceBreakdown) error
}

// NewFormatter returns a formatter for the given format
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatCLI:
		return &cliFormatter{}, nil
	case FormatJSON:
		return &jsonFormatter{}, nil
	default:
		return nil, errors.Newf(errors.TypeInput, "unknown output format: %s", format)
	}
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format() Format { return FormatJSON }

func (f *jsonFormatter) Render(w io.Writer, breakdown *types.PriceBreakdown) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(breakdown)
}

type cliFormatter struct{}

func (f *cliFormatter) Format() Format { return FormatCLI }

func (f *cliFormatter) Render(w io.Writer, breakdown *types.PriceBreakdown) error {
	if len(breakdown.ItemPrices) > 0 {
		fmt.Fprintln(w, "Items")
		renderPriceMap(w, breakdown.ItemPrices)
	}
	if len(breakdown.HourlyChargePrices) > 0 {
		fmt.Fprintln(w, "Hourly charges")
		renderPriceMap(w, breakdown.HourlyChargePrices)
	}
	if len(breakdown.FixedChargePrices) > 0 {
		fmt.Fprintln(w, "Fixed charges")
		renderPriceMap(w, breakdown.FixedChargePrices)
	}

	fmt.Fprintf(w, "%-14s %s\n", "Subtotal", breakdown.Subtotal)
	fmt.Fprintf(w, "%-14s %s\n", "Discount", breakdown.Discount)
	fmt.Fprintf(w, "%-14s %s\n", "Tax", breakdown.Tax)
	fmt.Fprintf(w, "%-14s %s\n", "Total", breakdown.Total)
	fmt.Fprintf(w, "%-14s %s\n", "Paid", breakdown.Paid)
	fmt.Fprintf(w, "%-14s %s\n", "Outstanding", breakdown.Outstanding)
	return nil
}

// renderPriceMap prints a price map in stable uuid order
func renderPriceMap(w io.Writer, prices map[uuid.UUID]types.Money) {
	ids := make([]uuid.UUID, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		fmt.Fprintf(w, "  %s  %s\n", id, prices[id])
	}
	fmt.Fprintln(w)
}
