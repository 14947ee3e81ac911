package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"agentbridge/internal/adapter/dialog"
)

// NewEnvCmd creates the env command group: environment inspection and
// admin CLI authentication.
func NewEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show the platform environment, annotated with admin CLI status",
		RunE:  runEnvInfo,
	}

	var tenantID string
	auth := &cobra.Command{
		Use:   "auth",
		Short: "Create an admin CLI auth profile for the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newAdminCLI()
			if err != nil {
				return err
			}
			if err := cli.Authenticate(cmd.Context(), tenantID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "auth profile created")
			return nil
		},
	}
	auth.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID for the auth profile")
	auth.MarkFlagRequired("tenant")

	cmd.AddCommand(auth)
	return cmd
}

// runEnvInfo fetches the environment record from the platform API and
// merges in the admin CLI's auth status. API failures are reported in
// the output instead of aborting, so the CLI status still shows up.
func runEnvInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := dialog.NewClient(cfg.Platform, dialog.EnvToken(platformTokenEnv), nil)
	if err != nil {
		return err
	}

	info, err := client.EnvironmentInfo(cmd.Context())
	if err != nil {
		info = map[string]any{"error": err.Error()}
	}

	cli := dialog.NewCLI(cfg.Platform.CLIPath, cfg.Platform.EnvironmentURL, cfg.Platform.CLITimeout.Std(), nil)
	info["cliInfo"] = map[string]any{
		"path":          cfg.Platform.CLIPath,
		"authenticated": cli.Authenticated(cmd.Context()),
	}

	return printJSON(cmd.OutOrStdout(), info)
}
