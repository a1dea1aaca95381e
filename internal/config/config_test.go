package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/carebridge")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.DefaultTenant != "default" {
		t.Errorf("expected default tenant, got %q", cfg.DefaultTenant)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestValidate_DevModeAlwaysPasses(t *testing.T) {
	cfg := &Config{Env: "development"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("dev config should validate: %v", err)
	}
}

func TestValidate_ProductionRequiresAuth(t *testing.T) {
	cfg := &Config{Env: "production", RequestTimeout: 30, DBMaxConns: 20, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for production config without auth source")
	}
	cfg.AuthIssuer = "https://auth.example.com/realms/carebridge"
	if err := cfg.Validate(); err != nil {
		t.Errorf("config with issuer should validate: %v", err)
	}
}

func TestValidate_SigningKeySuffices(t *testing.T) {
	cfg := &Config{Env: "staging", AuthSigningKey: "secret", RequestTimeout: 30, DBMaxConns: 10, DBMinConns: 2}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config with signing key should validate: %v", err)
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := &Config{Env: "production", AuthSigningKey: "secret", RequestTimeout: 30, DBMaxConns: 5, DBMinConns: 10}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when min conns exceed max conns")
	}
}

func TestValidate_Timeout(t *testing.T) {
	cfg := &Config{Env: "production", AuthSigningKey: "secret", DBMaxConns: 10, DBMinConns: 2}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive request timeout")
	}
}
