package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ORGLENS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: ORGLENS_EMAIL_DOMAIN -> email_domain, etc.
	if err := k.Load(env.Provider("ORGLENS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ORGLENS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.EmailDomain == "" {
		return fmt.Errorf("email_domain is required")
	}
	if strings.Contains(c.EmailDomain, "@") {
		return fmt.Errorf("email_domain %q must not include the @ sign", c.EmailDomain)
	}
	if c.OrgName == "" {
		return fmt.Errorf("org_name is required")
	}
	if c.UserSearchCap < 0 {
		return fmt.Errorf("user_search_cap must be non-negative")
	}
	if c.UserSearchLimit < 1 {
		return fmt.Errorf("user_search_limit must be at least 1")
	}
	if c.ApproverLookback < 1 {
		return fmt.Errorf("approver_lookback must be at least 1")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}
	if c.RequestTimeout < 1 {
		return fmt.Errorf("request_timeout_seconds must be at least 1")
	}
	return nil
}
