// Package cmd - serve command
package cmd

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workorder-pricing/adapters/ledgerstore"
	"workorder-pricing/adapters/oracle"
	"workorder-pricing/api"
	"workorder-pricing/core/breakdown"
	"workorder-pricing/core/ledger"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/config"
	"workorder-pricing/internal/errors"
	"workorder-pricing/internal/logging"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the breakdown HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	calculator, cleanup, err := buildCalculator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := cfg.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(calculator, Version),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	logging.Info("server listening", zap.String("addr", addr))
	return server.ListenAndServe()
}

// buildCalculator wires the engine from configuration
func buildCalculator(cfg *config.Config) (*breakdown.Calculator, func(), error) {
	oracleClient := oracle.NewClient(&oracle.Config{
		URL:              cfg.Oracle.URL,
		Token:            cfg.Oracle.Token,
		Timeout:          time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second,
		MaxResponseBytes: 4 * 1024 * 1024,
	})

	var (
		store   ledger.Store
		cleanup = func() {}
	)
	switch cfg.Ledger.Backend {
	case "", "memory":
		store = ledgerstore.NewMemoryStore()
	case "postgres":
		pg, err := ledgerstore.NewPostgresStore(cfg.Ledger.DSN)
		if err != nil {
			return nil, nil, err
		}
		store = pg
		cleanup = func() { _ = pg.Close() }
	default:
		return nil, nil, errors.Newf(errors.TypeConfig, "unknown ledger backend: %s", cfg.Ledger.Backend)
	}

	calculator := breakdown.NewCalculator(oracleClient, store, types.Currency(cfg.Currency))
	return calculator, cleanup, nil
}
