package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"agentbridge/internal/domain"
	"agentbridge/internal/orchestration"
)

var (
	collabUser             string
	collabCapabilitiesFile string
	collabCapabilities     []string
)

// NewCollabCmd creates the collab command.
func NewCollabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collab <task>",
		Short: "Run a multi-agent collaboration for a task",
		Long: `Plan and execute a multi-step collaboration. Capabilities can be given
inline as name:agent1+agent2[:description], or as a JSON file holding an
array of capability objects. Without capabilities the planner derives
steps from the task description.

Examples:
  agentbridge collab "Analyze our expense process and automate approvals"
  agentbridge collab --capability "workflow_design:dialogue" "Design the onboarding flow"
  agentbridge collab --capabilities-file caps.json "Quarterly review"`,
		Args: cobra.ExactArgs(1),
		RunE: runCollab,
	}

	cmd.Flags().StringVar(&collabUser, "user", "cli-user", "User ID attached to the request")
	cmd.Flags().StringVar(&collabCapabilitiesFile, "capabilities-file", "", "JSON file with required capabilities")
	cmd.Flags().StringArrayVar(&collabCapabilities, "capability", nil, "Inline capability as name:agent1+agent2[:description] (repeatable)")

	return cmd
}

func runCollab(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	caps, err := collectCapabilities()
	if err != nil {
		return err
	}

	c, err := dialTemporal(cfg.Temporal)
	if err != nil {
		return err
	}
	defer c.Close()

	req := domain.MultiAgentRequest{
		TaskDescription:      strings.TrimSpace(args[0]),
		RequiredCapabilities: caps,
		UserID:               collabUser,
	}

	run, err := c.ExecuteWorkflow(cmd.Context(),
		startOptions("collab", cfg.Temporal.TaskQueue),
		orchestration.CollaborationWorkflow, req)
	if err != nil {
		return err
	}

	var results []domain.AgentResponse
	if err := run.Get(cmd.Context(), &results); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), results)
}

func collectCapabilities() ([]domain.AgentCapability, error) {
	var caps []domain.AgentCapability

	if collabCapabilitiesFile != "" {
		data, err := os.ReadFile(collabCapabilitiesFile)
		if err != nil {
			return nil, fmt.Errorf("read capabilities file: %w", err)
		}
		if err := json.Unmarshal(data, &caps); err != nil {
			return nil, fmt.Errorf("parse capabilities file: %w", err)
		}
	}

	for _, spec := range collabCapabilities {
		c, err := parseCapability(spec)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, nil
}

// parseCapability parses name:agent1+agent2[:description].
func parseCapability(spec string) (domain.AgentCapability, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return domain.AgentCapability{}, fmt.Errorf("invalid capability %q, expected name:agent1+agent2[:description]", spec)
	}

	var supported []domain.AgentType
	for _, a := range strings.Split(parts[1], "+") {
		at, err := domain.ParseAgentType(strings.TrimSpace(a))
		if err != nil {
			return domain.AgentCapability{}, fmt.Errorf("capability %q: %w", spec, err)
		}
		supported = append(supported, at)
	}

	c := domain.AgentCapability{
		Name:        parts[0],
		SupportedBy: supported,
		IsRequired:  true,
	}
	if len(parts) == 3 {
		c.Description = parts[2]
	}
	return c, nil
}
