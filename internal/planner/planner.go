// Package planner builds ordered multi-agent collaboration plans from
// declared capabilities or an unstructured task description.
//
// Like the routing engine, the planner is deterministic and stateless so the
// hosting substrate can replay it safely.
package planner

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"agentbridge/internal/domain"
)

var (
	reasoningTaskKeywords  = []string{"complex", "analyze", "creative"}
	automationTaskKeywords = []string{"automate", "flow", "trigger"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Planner maps a collaboration request to an ordered sequence of steps.
// Safe for concurrent use: it has no mutable fields.
type Planner struct {
	logger *slog.Logger
}

// NewPlanner creates a planner without logging.
func NewPlanner() *Planner {
	return &Planner{logger: discardLogger()}
}

// NewPlannerWithLogger creates a planner with debug logging.
func NewPlannerWithLogger(logger *slog.Logger) *Planner {
	return &Planner{logger: logger}
}

// Plan builds the collaboration plan for req. The result is never empty:
// requests the planner cannot make sense of yield a single-step error
// recovery plan rather than an error.
func (p *Planner) Plan(req domain.MultiAgentRequest) []domain.AgentCollaborationStep {
	if len(req.RequiredCapabilities) == 0 && strings.TrimSpace(req.TaskDescription) == "" {
		p.logger.Warn("planning failed, using fallback plan", "user_id", req.UserID)
		return p.fallbackPlan(req)
	}

	var steps []domain.AgentCollaborationStep
	for _, capability := range req.RequiredCapabilities {
		steps = append(steps, domain.AgentCollaborationStep{
			AgentType:    SelectAgent(capability),
			Description:  fmt.Sprintf("Handle %s: %s", capability.Name, capability.Description),
			Prompt:       capabilityPrompt(capability, req.TaskDescription),
			InputContext: domain.MergeContexts(req.Context, nil),
		})
	}

	if len(steps) == 0 {
		steps = p.generalPlan(req)
	}

	p.logger.Debug("collaboration plan created", "steps", len(steps))
	return steps
}

// SelectAgent picks the agent for one capability:
// dialogue for workflow/process capabilities it supports, reasoning for
// analysis/creative capabilities it supports, otherwise the first supporter.
// An empty SupportedBy set is invalid input and defaults to dialogue.
func SelectAgent(capability domain.AgentCapability) domain.AgentType {
	name := strings.ToLower(capability.Name)

	if supports(capability, domain.AgentDialogue) &&
		(strings.Contains(name, "workflow") || strings.Contains(name, "process")) {
		return domain.AgentDialogue
	}
	if supports(capability, domain.AgentReasoning) &&
		(strings.Contains(name, "analysis") || strings.Contains(name, "creative")) {
		return domain.AgentReasoning
	}
	if len(capability.SupportedBy) > 0 {
		return capability.SupportedBy[0]
	}
	return domain.AgentDialogue
}

func supports(capability domain.AgentCapability, agent domain.AgentType) bool {
	for _, a := range capability.SupportedBy {
		if a == agent {
			return true
		}
	}
	return false
}

func capabilityPrompt(capability domain.AgentCapability, task string) string {
	return fmt.Sprintf(
		"Task: %s\n\nYour specific role: %s\n\nFocus on the %s aspect of this task. "+
			"Provide a clear, actionable response that can be used by other agents in this collaboration.",
		task, capability.Description, capability.Name)
}

// generalPlan synthesizes a plan from keyword inspection of the task
// description. The dialogue step is always present; step order is fixed:
// dialogue, then reasoning, then automation.
func (p *Planner) generalPlan(req domain.MultiAgentRequest) []domain.AgentCollaborationStep {
	task := strings.ToLower(req.TaskDescription)

	steps := []domain.AgentCollaborationStep{{
		AgentType:    domain.AgentDialogue,
		Description:  "Initial analysis and structure",
		Prompt:       fmt.Sprintf("Analyze this request and provide a structured breakdown: %s", req.TaskDescription),
		InputContext: domain.MergeContexts(req.Context, nil),
	}}

	if containsAny(task, reasoningTaskKeywords) {
		steps = append(steps, domain.AgentCollaborationStep{
			AgentType:    domain.AgentReasoning,
			Description:  "Advanced analysis and recommendations",
			Prompt:       fmt.Sprintf("Provide detailed analysis and recommendations for: %s", req.TaskDescription),
			InputContext: domain.MergeContexts(req.Context, nil),
		})
	}
	if containsAny(task, automationTaskKeywords) {
		steps = append(steps, domain.AgentCollaborationStep{
			AgentType:    domain.AgentAutomation,
			Description:  "Automation workflow",
			Prompt:       fmt.Sprintf("Design automation workflow for: %s", req.TaskDescription),
			InputContext: domain.MergeContexts(req.Context, nil),
		})
	}

	return steps
}

func (p *Planner) fallbackPlan(req domain.MultiAgentRequest) []domain.AgentCollaborationStep {
	task := strings.TrimSpace(req.TaskDescription)
	if task == "" {
		task = "Unknown task"
	}
	return []domain.AgentCollaborationStep{{
		AgentType:    domain.AgentDialogue,
		Description:  "Handle request with error recovery",
		Prompt:       fmt.Sprintf("Process this request with error handling: %s", task),
		InputContext: domain.MergeContexts(req.Context, nil),
	}}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
