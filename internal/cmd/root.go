package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groupctl/internal/config"
	"github.com/felixgeelhaar/groupctl/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "groupctl",
	Short: "Group membership actions for Boundary-compatible IAM services",
	Long: `groupctl runs group membership actions against a Boundary-compatible
identity and access management API. Each invocation is a single sequential
run; retries are the responsibility of the invoking job framework, guided by
the retryable/fatal classification in the exit code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		levelFlag, _ := cmd.Flags().GetString("log-level")
		formatFlag, _ := cmd.Flags().GetString("log-format")

		cfg := log.DefaultConfig()
		cfg.Level = log.ParseLevel(levelFlag)
		cfg.Format = log.ParseFormat(formatFlag)
		log.SetDefaultLogger(log.New(cfg))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellation context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("addr", "", "base address of the IAM API (overrides "+config.EnvAddr+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("format", "json", "output format for result documents (json, yaml, text)")
}
