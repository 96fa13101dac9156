package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".orglens.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EmailDomain != "redhat.com" {
		t.Errorf("email_domain = %q, want redhat.com", cfg.EmailDomain)
	}
	if cfg.UserSearchCap != 20 {
		t.Errorf("user_search_cap = %d, want 20", cfg.UserSearchCap)
	}
	if cfg.ApproverLookback != 5 {
		t.Errorf("approver_lookback = %d, want 5", cfg.ApproverLookback)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".orglens.yml")
	content := "org_name: Acme\nemail_domain: acme.example\napprover_lookback: 8\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OrgName != "Acme" {
		t.Errorf("org_name = %q, want Acme", cfg.OrgName)
	}
	if cfg.EmailDomain != "acme.example" {
		t.Errorf("email_domain = %q, want acme.example", cfg.EmailDomain)
	}
	if cfg.ApproverLookback != 8 {
		t.Errorf("approver_lookback = %d, want 8", cfg.ApproverLookback)
	}
	// Untouched keys keep their defaults.
	if cfg.UserSearchCap != 20 {
		t.Errorf("user_search_cap = %d, want default 20", cfg.UserSearchCap)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ORGLENS_EMAIL_DOMAIN", "env.example")
	cfg, err := Load(filepath.Join(t.TempDir(), ".orglens.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EmailDomain != "env.example" {
		t.Errorf("email_domain = %q, want env.example", cfg.EmailDomain)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing domain", func(c *Config) { c.EmailDomain = "" }, true},
		{"domain with at-sign", func(c *Config) { c.EmailDomain = "@redhat.com" }, true},
		{"missing org name", func(c *Config) { c.OrgName = "" }, true},
		{"negative cap", func(c *Config) { c.UserSearchCap = -1 }, true},
		{"zero search limit", func(c *Config) { c.UserSearchLimit = 0 }, true},
		{"zero lookback", func(c *Config) { c.ApproverLookback = 0 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".orglens.yml")
	cfg := DefaultConfig()
	cfg.OrgName = "Acme"
	cfg.MaxConcurrency = 9
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.OrgName != "Acme" || got.MaxConcurrency != 9 {
		t.Errorf("round trip lost values: %+v", got)
	}
}
