package config

// DefaultBotAccounts are merge and dependency bots whose activity is never
// attributed to a person, regardless of the [bot] suffix.
var DefaultBotAccounts = []string{
	"pytorchmergebot",
	"pytorchupdatebot",
	"facebook-github-bot",
	"github-actions",
	"dependabot",
	"renovate",
	"mergify",
}

// DefaultExcludes are glob patterns skipped when scanning a repository tree
// for governance files.
var DefaultExcludes = []string{
	"vendor/**",
	"node_modules/**",
	"third_party/**",
	"**/testdata/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OrgName:          "Red Hat",
		EmailDomain:      "redhat.com",
		BotAccounts:      DefaultBotAccounts,
		BotSuffix:        "[bot]",
		UserSearchCap:    20,
		UserSearchLimit:  5,
		ApproverLookback: 5,
		MaxConcurrency:   4,
		RequestTimeout:   30,
		Include:          []string{"**"},
		Exclude:          DefaultExcludes,
		LogLevel:         "info",
	}
}
