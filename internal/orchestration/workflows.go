// Package orchestration drives the end-to-end agent workflows on top of a
// Temporal worker. Each workflow is a short sequence of suspend points;
// every routing, planning, and gateway call crosses an activity boundary so
// the substrate can persist progress and resume after a restart.
package orchestration

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"agentbridge/internal/domain"
)

// TaskQueue is the Temporal task queue the worker and clients share.
const TaskQueue = "agentbridge"

// Separator markers inserted between an original response and its
// escalation follow-up.
const (
	hybridSeparator = "\n\n[Escalated to Reasoning Agent]\n"
	topicSeparator  = "\n\n[Escalated Response]\n"
)

// Agent type tags for coordinator-synthesized responses.
const (
	hybridAgentType = "Hybrid"
	errorAgentType  = "Error"
)

const userFacingApology = "I apologize, but I encountered an error processing your request. Please try again."

// defaultActivityOptions apply to every suspend point. Timeouts live here,
// in workflow code, so they are recorded and replayed by the substrate
// rather than sampled at execution time.
func defaultActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
}

// errorResponse converts an unrecovered workflow error into the well-formed
// response the host always receives. The workflow itself completes normally.
func errorResponse(message string, err error) domain.AgentResponse {
	return domain.AgentResponse{
		Message:   message,
		AgentType: errorAgentType,
		AgentID:   "system",
		Context:   map[string]any{"error": err.Error()},
	}
}

// onlyPreference maps a planned step's agent to the matching exclusive
// routing preference. Automation has no exclusive preference variant; the
// routing decision carried alongside the request selects it directly.
func onlyPreference(agent domain.AgentType) domain.RoutingPreference {
	switch agent {
	case domain.AgentDialogue:
		return domain.RouteDialogueOnly
	case domain.AgentReasoning:
		return domain.RouteReasoningOnly
	default:
		return domain.RouteAuto
	}
}
