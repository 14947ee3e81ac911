package orchestration

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"agentbridge/internal/domain"
)

const topicApology = "I encountered an error managing the topic. Please try again."

// TopicConversationWorkflow executes one topic lifecycle action and, when
// the topic response signals escalation, hands the conversation to the
// reasoning agent and returns the merged result.
func TopicConversationWorkflow(ctx workflow.Context, req domain.TopicManagementRequest) (domain.AgentResponse, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting topic-based conversation", "bot_id", req.BotID, "topic_id", req.TopicID, "action", req.Action)

	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	var a *Activities

	var resp domain.AgentResponse
	if err := workflow.ExecuteActivity(ctx, a.ManageTopic, req).Get(ctx, &resp); err != nil {
		out := errorResponse(topicApology, err)
		out.Context["topic_id"] = req.TopicID
		return out, nil
	}

	if resp.NextAction == domain.NextActionEscalate {
		logger.Info("topic escalation requested", "topic_id", req.TopicID)

		escReq := domain.ConversationRequest{
			UserID:     "system",
			Message:    fmt.Sprintf("Handle escalation from dialogue topic %s: %s", req.TopicID, resp.Message),
			Context:    resp.Context,
			Preference: domain.RouteReasoningOnly,
		}
		escIn := ExecuteAgentInput{
			Request: escReq,
			Routing: domain.AgentRoutingDecision{
				SelectedAgent: domain.AgentReasoning,
				Reason:        "Topic escalation",
				Confidence:    1.0,
			},
		}

		var escResp domain.AgentResponse
		if err := workflow.ExecuteActivity(ctx, a.ExecuteAgent, escIn).Get(ctx, &escResp); err != nil {
			out := errorResponse(topicApology, err)
			out.Context["topic_id"] = req.TopicID
			return out, nil
		}

		resp = domain.AgentResponse{
			Message:        resp.Message + topicSeparator + escResp.Message,
			AgentType:      hybridAgentType,
			AgentID:        "topic-escalation",
			ConversationID: resp.ConversationID,
			Context:        domain.MergeContexts(resp.Context, escResp.Context),
		}
	}

	logger.Info("topic-based conversation completed", "topic_id", req.TopicID, "agent_type", resp.AgentType)
	return resp, nil
}
