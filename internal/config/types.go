package config

// Config is the top-level orglens configuration, corresponding to .orglens.yml.
type Config struct {
	OrgName          string   `yaml:"org_name" koanf:"org_name"`
	EmailDomain      string   `yaml:"email_domain" koanf:"email_domain"`
	BotAccounts      []string `yaml:"bot_accounts" koanf:"bot_accounts"`
	BotSuffix        string   `yaml:"bot_suffix" koanf:"bot_suffix"`
	UserSearchCap    int      `yaml:"user_search_cap" koanf:"user_search_cap"`
	UserSearchLimit  int      `yaml:"user_search_limit" koanf:"user_search_limit"`
	ApproverLookback int      `yaml:"approver_lookback" koanf:"approver_lookback"`
	MaxConcurrency   int      `yaml:"max_concurrency" koanf:"max_concurrency"`
	RequestTimeout   int      `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
	Include          []string `yaml:"include" koanf:"include"`
	Exclude          []string `yaml:"exclude" koanf:"exclude"`
	LogLevel         string   `yaml:"log_level" koanf:"log_level"`
}
