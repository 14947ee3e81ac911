package orchestration

import (
	"go.temporal.io/sdk/workflow"

	"agentbridge/internal/domain"
)

const collaborationApology = "I encountered an error during the multi-agent collaboration. Please try again."

// CollaborationWorkflow plans a multi-agent collaboration and executes its
// steps strictly in order, threading each step's response context into the
// next step's input context. A mid-run failure stops execution and appends
// one Error response to the partial result list; prior step outputs are
// never discarded.
func CollaborationWorkflow(ctx workflow.Context, req domain.MultiAgentRequest) ([]domain.AgentResponse, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting multi-agent collaboration", "task", req.TaskDescription)

	if err := req.Validate(); err != nil {
		return []domain.AgentResponse{errorResponse(collaborationApology, err)}, nil
	}

	ctx = workflow.WithActivityOptions(ctx, defaultActivityOptions())
	var a *Activities

	var steps []domain.AgentCollaborationStep
	if err := workflow.ExecuteActivity(ctx, a.PlanCollaboration, req).Get(ctx, &steps); err != nil {
		return []domain.AgentResponse{errorResponse(collaborationApology, err)}, nil
	}
	logger.Info("collaboration plan ready", "steps", len(steps))

	responses := make([]domain.AgentResponse, 0, len(steps))
	for i, step := range steps {
		logger.Info("executing collaboration step", "index", i+1, "agent", step.AgentType, "description", step.Description)

		stepReq := domain.ConversationRequest{
			UserID:     req.UserID,
			Message:    step.Prompt,
			Context:    step.InputContext,
			Preference: onlyPreference(step.AgentType),
		}
		stepIn := ExecuteAgentInput{
			Request: stepReq,
			Routing: domain.AgentRoutingDecision{
				SelectedAgent: step.AgentType,
				Reason:        step.Description,
				Confidence:    1.0,
			},
		}

		var stepResp domain.AgentResponse
		if err := workflow.ExecuteActivity(ctx, a.ExecuteAgent, stepIn).Get(ctx, &stepResp); err != nil {
			logger.Error("collaboration step failed", "index", i+1, "error", err)
			responses = append(responses, errorResponse(collaborationApology, err))
			return responses, nil
		}
		responses = append(responses, stepResp)

		// Thread this step's response context into the next step. The next
		// step's own keys are preserved; response keys win on conflict.
		if i < len(steps)-1 {
			steps[i+1].InputContext = domain.MergeContexts(steps[i+1].InputContext, stepResp.Context)
		}
	}

	logger.Info("multi-agent collaboration completed", "responses", len(responses))
	return responses, nil
}
