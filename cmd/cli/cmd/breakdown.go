// Package cmd - breakdown command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	corebreakdown "workorder-pricing/core/breakdown"
	"workorder-pricing/core/output"
	"workorder-pricing/internal/config"
	"workorder-pricing/internal/logging"
)

var outputFormat string

// breakdownCmd represents the breakdown command
var breakdownCmd = &cobra.Command{
	Use:   "breakdown <request.json>",
	Short: "Compute a price breakdown for a work order request",
	Long: `Read a breakdown request from a JSON file, price it against the
configured ledger store and draft quote oracle, and print the result.

The request carries the work order name (if any), items, hourly and fixed
charges, and an optional order-level discount.

Examples:
  workorder-pricing breakdown request.json
  workorder-pricing breakdown --format json request.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

func init() {
	breakdownCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	start := time.Now()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	var req corebreakdown.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}

	calculator, cleanup, err := buildCalculator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := calculator.Compute(context.Background(), &req)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.Format(outputFormat))
	if err != nil {
		return err
	}
	if err := formatter.Render(os.Stdout, result); err != nil {
		return err
	}

	logging.Sugar.Debugf("breakdown finished in %s", time.Since(start))
	return nil
}
