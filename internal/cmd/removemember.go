package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groupctl/internal/action"
	"github.com/felixgeelhaar/groupctl/internal/boundary"
	"github.com/felixgeelhaar/groupctl/internal/config"
	"github.com/felixgeelhaar/groupctl/internal/log"
	"github.com/felixgeelhaar/groupctl/internal/ux"
)

var (
	removeGroupID      string
	removeUserID       string
	removeAuthMethodID string
)

var removeMemberCmd = &cobra.Command{
	Use:   "remove-member",
	Short: "Remove a user from a group",
	Long: `Remove a user from a group via three sequential API calls:
authenticate with the configured credentials, read the group to obtain its
current version, then issue the versioned removal.

Credentials are read from the ` + config.EnvLoginName + ` and ` + config.EnvPassword + `
environment variables; they are never accepted as flags and never logged.

On success a result document is written to stdout. If the run is halted by an
external signal, a halt document is written instead.`,
	RunE: runRemoveMember,
}

func init() {
	removeMemberCmd.Flags().StringVar(&removeGroupID, "group-id", "", "ID of the group to remove the member from")
	removeMemberCmd.Flags().StringVar(&removeUserID, "user-id", "", "ID of the user to remove")
	removeMemberCmd.Flags().StringVar(&removeAuthMethodID, "auth-method-id", "", "ID of the auth method to authenticate against")

	rootCmd.AddCommand(removeMemberCmd)
}

func runRemoveMember(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.DefaultLogger()

	req := &action.RemovalRequest{
		GroupID:      removeGroupID,
		UserID:       removeUserID,
		AuthMethodID: removeAuthMethodID,
	}

	outputFormat, _ := cmd.Flags().GetString("format")
	formatter, err := ux.NewFormatter(outputFormat, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	addrFlag, _ := cmd.Flags().GetString("addr")
	addr, err := config.ResolveAddr(addrFlag)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	client, err := boundary.NewClient(addr)
	if err != nil {
		return err
	}

	runner := action.NewRunner(client, creds, action.WithLogger(logger))
	result, err := runner.Run(ctx, req)
	if err != nil {
		// An external halt pre-empts error handling: emit a structured
		// halt document instead of propagating the failure.
		if ctx.Err() != nil {
			halt := action.NewHaltResult(req, haltReason(ctx.Err()))
			logger.Warn("invocation halted", "reason", halt.Reason, "halted_at", halt.HaltedAt)
			return formatter.Format(halt)
		}
		return err
	}

	return formatter.Format(result)
}

func haltReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return "unknown"
	}
}
