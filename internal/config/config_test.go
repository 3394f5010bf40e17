package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Currency != "USD" {
		t.Errorf("currency = %q, want the USD default", cfg.Currency)
	}
	if cfg.Ledger.Backend != "memory" {
		t.Errorf("ledger backend = %q, want the memory default", cfg.Ledger.Backend)
	}
}

func TestLoadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.hcl")
	content := `
version  = "1.0"
currency = "EUR"

oracle {
  url             = "https://quotes.example.com/draft"
  token           = "tok"
  timeout_seconds = 10
}

ledger {
  backend = "postgres"
  dsn     = "postgres://localhost/pricing"
}

server {
  address = ":9000"
}

logging {
  level  = "debug"
  format = "json"
  output = "stdout"
}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", cfg.Currency)
	}
	if cfg.Oracle.URL != "https://quotes.example.com/draft" || cfg.Oracle.TimeoutSeconds != 10 {
		t.Errorf("oracle config = %+v", cfg.Oracle)
	}
	if cfg.Ledger.Backend != "postgres" || cfg.Ledger.DSN != "postgres://localhost/pricing" {
		t.Errorf("ledger config = %+v", cfg.Ledger)
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("server address = %q, want :9000", cfg.Server.Address)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
}

func TestSaveAndLoadJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Currency = "GBP"
	cfg.Oracle.URL = "https://quotes.example.com/draft"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Currency != "GBP" {
		t.Errorf("currency = %q, want GBP", loaded.Currency)
	}
	if loaded.Oracle.URL != cfg.Oracle.URL {
		t.Errorf("oracle url = %q, want %q", loaded.Oracle.URL, cfg.Oracle.URL)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed config loaded without error")
	}
}
