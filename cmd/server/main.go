// Package main - Entry point for the workorder-pricing server
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"workorder-pricing/adapters/ledgerstore"
	"workorder-pricing/adapters/oracle"
	"workorder-pricing/api"
	"workorder-pricing/core/breakdown"
	"workorder-pricing/core/ledger"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/config"
	"workorder-pricing/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	oracleClient := oracle.NewClient(&oracle.Config{
		URL:              cfg.Oracle.URL,
		Token:            cfg.Oracle.Token,
		Timeout:          time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second,
		MaxResponseBytes: 4 * 1024 * 1024,
	})

	var store ledger.Store
	switch cfg.Ledger.Backend {
	case "", "memory":
		store = ledgerstore.NewMemoryStore()
	case "postgres":
		pg, err := ledgerstore.NewPostgresStore(cfg.Ledger.DSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening ledger store: %v\n", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	default:
		fmt.Fprintf(os.Stderr, "Unknown ledger backend: %s\n", cfg.Ledger.Backend)
		os.Exit(1)
	}

	calculator := breakdown.NewCalculator(oracleClient, store, types.Currency(cfg.Currency))

	listenAddr := cfg.Server.Address
	if *addr != "" {
		listenAddr = *addr
	}

	server := &http.Server{
		Addr:         listenAddr,
		Handler:      api.NewServer(calculator, version),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	fmt.Printf("workorder-pricing server v%s listening on %s\n", version, listenAddr)
	if err := server.ListenAndServe(); err != nil {
		logging.Sugar.Fatalf("server failed: %v", err)
	}
}
