package commands

import (
	"github.com/spf13/cobra"

	"agentbridge/internal/domain"
	"agentbridge/internal/orchestration"
)

var (
	topicBotID  string
	topicParams []string
)

// NewTopicCmd creates the topic command.
func NewTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic <action> <topic-id>",
		Short: "Drive a dialogue topic through its lifecycle",
		Long: `Run one topic lifecycle action through the topic conversation workflow.
Actions: start, continue, reset, complete, escalate. Escalation hands
the topic to the reasoning agent and merges its answer.

Examples:
  agentbridge topic start onboarding --bot bot-1
  agentbridge topic continue onboarding --bot bot-1 --param step=2
  agentbridge topic escalate onboarding --bot bot-1`,
		Args: cobra.ExactArgs(2),
		RunE: runTopic,
	}

	cmd.Flags().StringVar(&topicBotID, "bot", "", "Bot ID owning the topic (defaults to the configured bot)")
	cmd.Flags().StringArrayVar(&topicParams, "param", nil, "Topic parameter as key=value (repeatable)")

	return cmd
}

func runTopic(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := parseParams(topicParams)
	if err != nil {
		return err
	}

	botID := topicBotID
	if botID == "" {
		botID = cfg.Platform.BotID
	}

	c, err := dialTemporal(cfg.Temporal)
	if err != nil {
		return err
	}
	defer c.Close()

	req := domain.TopicManagementRequest{
		BotID:      botID,
		TopicID:    args[1],
		Action:     domain.TopicAction(args[0]),
		Parameters: params,
	}

	run, err := c.ExecuteWorkflow(cmd.Context(),
		startOptions("topic", cfg.Temporal.TaskQueue),
		orchestration.TopicConversationWorkflow, req)
	if err != nil {
		return err
	}

	var resp domain.AgentResponse
	if err := run.Get(cmd.Context(), &resp); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}
