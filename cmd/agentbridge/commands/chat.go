package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"agentbridge/internal/domain"
	"agentbridge/internal/orchestration"
)

var (
	chatUser           string
	chatConversationID string
	chatPreference     string
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one conversational request through the hybrid router",
		Long: `Send a message through the hybrid conversation workflow. The router
picks the dialogue or reasoning agent; if the dialogue bot asks for
escalation, the reasoning agent's answer is merged in.

Examples:
  agentbridge chat "Help me create a workflow for approval"
  agentbridge chat --prefer reasoning_only "Explain the trade-offs"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatUser, "user", "cli-user", "User ID attached to the request")
	cmd.Flags().StringVar(&chatConversationID, "conversation", "", "Conversation ID to continue")
	cmd.Flags().StringVar(&chatPreference, "prefer", "", "Routing preference (auto, prefer_dialogue, prefer_reasoning, dialogue_only, reasoning_only)")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := dialTemporal(cfg.Temporal)
	if err != nil {
		return err
	}
	defer c.Close()

	req := domain.ConversationRequest{
		UserID:         chatUser,
		Message:        strings.TrimSpace(args[0]),
		ConversationID: chatConversationID,
		Preference:     domain.RoutingPreference(chatPreference),
	}

	run, err := c.ExecuteWorkflow(cmd.Context(),
		startOptions("chat", cfg.Temporal.TaskQueue),
		orchestration.HybridConversationWorkflow, req)
	if err != nil {
		return err
	}

	var resp domain.AgentResponse
	if err := run.Get(cmd.Context(), &resp); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}
