package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .orglens.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to orglens! Let's configure your organization.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Organization name, used as the affiliation signal in user search.
	namePrompt := promptui.Prompt{
		Label:   "Organization name",
		Default: cfg.OrgName,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("organization name cannot be empty")
			}
			return nil
		},
	}
	orgName, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("organization name: %w", err)
	}
	cfg.OrgName = strings.TrimSpace(orgName)

	// 2. Email domain, the primary join key for identity resolution.
	domainPrompt := promptui.Prompt{
		Label:   "Email domain (without @)",
		Default: cfg.EmailDomain,
		Validate: func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return fmt.Errorf("email domain cannot be empty")
			}
			if strings.Contains(s, "@") {
				return fmt.Errorf("enter the domain only, without the @ sign")
			}
			return nil
		},
	}
	domain, err := domainPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("email domain: %w", err)
	}
	cfg.EmailDomain = strings.ToLower(strings.TrimSpace(domain))

	// 3. Concurrency for platform queries.
	concPrompt := promptui.Prompt{
		Label:   "Max concurrent platform queries",
		Default: strconv.Itoa(cfg.MaxConcurrency),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	concStr, err := concPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("concurrency: %w", err)
	}
	cfg.MaxConcurrency, _ = strconv.Atoi(concStr)

	// 4. Log level.
	levelPrompt := promptui.Select{
		Label: "Log level",
		Items: []string{"debug", "info", "warn", "error"},
	}
	_, level, err := levelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log level selection: %w", err)
	}
	cfg.LogLevel = level

	if err := cfg.Save(".orglens.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .orglens.yml")
	return cfg, nil
}
