package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "orglens",
	Short: "Attribute code-platform activity to an organization roster",
	Long: `Orglens resolves an organization's employee roster to platform
usernames using tiered evidence, attributes pull-request activity to the
roster under workflow variations that hide true authorship, and infers
governance roles from ownership files.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".orglens.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
