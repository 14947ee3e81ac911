package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agentbridge/internal/adapter/dialog"
)

var botsJSON bool

// NewBotsCmd creates the bots command group backed by the platform admin CLI.
func NewBotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bots",
		Short: "Inspect dialogue bots via the platform admin CLI",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the dialogue bots in the environment",
		RunE:  runBotsList,
	}
	list.Flags().BoolVar(&botsJSON, "json", false, "Emit raw JSON")

	show := &cobra.Command{
		Use:   "show <bot-id>",
		Short: "Show details for one bot",
		Args:  cobra.ExactArgs(1),
		RunE:  runBotsShow,
	}

	cmd.AddCommand(list, show)
	return cmd
}

func newAdminCLI() (*dialog.CLI, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return dialog.NewCLI(cfg.Platform.CLIPath, cfg.Platform.EnvironmentURL, cfg.Platform.CLITimeout.Std(), nil), nil
}

func runBotsList(cmd *cobra.Command, args []string) error {
	cli, err := newAdminCLI()
	if err != nil {
		return err
	}

	bots, err := cli.ListBots(cmd.Context())
	if err != nil {
		return err
	}

	if botsJSON {
		return printJSON(cmd.OutOrStdout(), bots)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE")
	for _, b := range bots {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, b.State)
	}
	return w.Flush()
}

func runBotsShow(cmd *cobra.Command, args []string) error {
	cli, err := newAdminCLI()
	if err != nil {
		return err
	}

	details, err := cli.BotDetails(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), details)
}
