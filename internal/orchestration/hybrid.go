package orchestration

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"agentbridge/internal/domain"
)

// HybridConversationWorkflow routes one conversational turn to the best
// agent, executes it, and escalates dialogue-bot responses that signal
// escalation to the reasoning agent, merging the two responses.
func HybridConversationWorkflow(ctx workflow.Context, req domain.ConversationRequest) (domain.AgentResponse, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting hybrid agent conversation", "user_id", req.UserID)

	if err := req.Validate(); err != nil {
		return errorResponse(userFacingApology, err), nil
	}

	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	var a *Activities

	var decision domain.AgentRoutingDecision
	if err := workflow.ExecuteActivity(ctx, a.DetermineRouting, req).Get(ctx, &decision); err != nil {
		return errorResponse(userFacingApology, err), nil
	}
	logger.Info("routing decision", "agent", decision.SelectedAgent, "confidence", decision.Confidence)

	var resp domain.AgentResponse
	execIn := ExecuteAgentInput{Request: req, Routing: decision}
	if err := workflow.ExecuteActivity(ctx, a.ExecuteAgent, execIn).Get(ctx, &resp); err != nil {
		return errorResponse(userFacingApology, err), nil
	}

	// Escalation only applies when the dialogue bot was the selected agent
	// and its response carries the escalation signal.
	if resp.Escalates() && decision.SelectedAgent == domain.AgentDialogue {
		logger.Info("escalating to reasoning agent", "conversation_id", resp.ConversationID)

		escReq := domain.ConversationRequest{
			UserID:         req.UserID,
			Message:        fmt.Sprintf("Continue conversation: %s. Original request: %s", resp.Message, req.Message),
			ConversationID: resp.ConversationID,
			Context:        resp.Context,
			Preference:     domain.RouteReasoningOnly,
		}
		escIn := ExecuteAgentInput{
			Request: escReq,
			Routing: domain.AgentRoutingDecision{
				SelectedAgent: domain.AgentReasoning,
				Reason:        "Follow-up escalation",
				Confidence:    1.0,
			},
		}

		var escResp domain.AgentResponse
		if err := workflow.ExecuteActivity(ctx, a.ExecuteAgent, escIn).Get(ctx, &escResp); err != nil {
			return errorResponse(userFacingApology, err), nil
		}

		resp = domain.AgentResponse{
			Message:          resp.Message + hybridSeparator + escResp.Message,
			AgentType:        hybridAgentType,
			AgentID:          "hybrid-routing",
			ConversationID:   resp.ConversationID,
			Context:          domain.MergeContexts(resp.Context, escResp.Context),
			RequiresFollowUp: escResp.RequiresFollowUp,
		}
	}

	logger.Info("hybrid agent conversation completed", "user_id", req.UserID, "agent_type", resp.AgentType)
	return resp, nil
}
