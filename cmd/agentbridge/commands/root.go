// Package commands wires the agentbridge CLI: a worker command hosting
// the Temporal workflows and client commands that start them.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"agentbridge/internal/infra/config"
	"agentbridge/internal/infra/logger"
)

var (
	cfgPath string

	buildVersion = "dev"
	buildCommit  = "none"
)

// SetVersion records build metadata for the version command.
func SetVersion(version, commit string) {
	buildVersion = version
	buildCommit = commit
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentbridge",
		Short: "Route conversations across dialogue, reasoning, and automation agents",
		Long: `agentbridge routes conversational requests to the right agent backend,
plans multi-agent collaborations, and manages dialogue topics with
escalation to the reasoning agent.

The worker command hosts the durable workflows; chat, collab, and topic
start them.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to the YAML configuration file")

	root.AddCommand(
		NewWorkerCmd(),
		NewChatCmd(),
		NewCollabCmd(),
		NewTopicCmd(),
		NewBotsCmd(),
		NewEnvCmd(),
		NewVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewVersionCmd reports build metadata.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agentbridge %s (%s)\n", buildVersion, buildCommit)
		},
	}
}

// loadConfig reads the configured file, or falls back to defaults plus
// environment overrides when no file is given.
func loadConfig() (config.Config, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg := config.Default()
	cfg.ApplyEnv()
	return cfg, nil
}

// setupLogger builds the process logger from config. The closer flushes
// file-backed outputs and should be deferred.
func setupLogger(cfg config.LoggerConfig) (*slog.Logger, func() error, error) {
	log, closer, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(log)
	return log, closer, nil
}
