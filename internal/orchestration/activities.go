package orchestration

import (
	"context"
	"io"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"agentbridge/internal/domain"
	"agentbridge/internal/planner"
	"agentbridge/internal/routing"
	"agentbridge/internal/topic"
)

// Activities holds the coordinator's collaborators. All dependencies are
// injected at construction; there is no ambient global state.
type Activities struct {
	router  *routing.Engine
	planner *planner.Planner
	topics  *topic.Manager
	gateway domain.AgentExecutionGateway
	logger  *slog.Logger
}

// NewActivities wires the decision components and gateway into one activity set.
func NewActivities(
	router *routing.Engine,
	pl *planner.Planner,
	topics *topic.Manager,
	gateway domain.AgentExecutionGateway,
	logger *slog.Logger,
) *Activities {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Activities{router: router, planner: pl, topics: topics, gateway: gateway, logger: logger}
}

// ExecuteAgentInput pairs a conversation request with the routing decision
// that selects the backend to execute it on.
type ExecuteAgentInput struct {
	Request domain.ConversationRequest  `json:"request"`
	Routing domain.AgentRoutingDecision `json:"routing"`
}

// DetermineRouting decides which agent handles the request. It never fails:
// the engine degrades to a default dialogue decision on bad input.
func (a *Activities) DetermineRouting(_ context.Context, req domain.ConversationRequest) (domain.AgentRoutingDecision, error) {
	decision := a.router.Decide(req)
	a.logger.Info("routing decision",
		"user_id", req.UserID,
		"agent", decision.SelectedAgent,
		"confidence", decision.Confidence,
		"reason", decision.Reason,
	)
	return decision, nil
}

// PlanCollaboration builds the ordered collaboration plan. It never fails:
// the planner degrades to a single-step fallback plan.
func (a *Activities) PlanCollaboration(_ context.Context, req domain.MultiAgentRequest) ([]domain.AgentCollaborationStep, error) {
	steps := a.planner.Plan(req)
	a.logger.Info("collaboration plan created", "task", req.TaskDescription, "steps", len(steps))
	return steps, nil
}

// ExecuteAgent runs one request against the backend named by the routing
// decision. Gateway failures are returned for the workflow to convert;
// contract errors are marked non-retryable.
func (a *Activities) ExecuteAgent(ctx context.Context, in ExecuteAgentInput) (domain.AgentResponse, error) {
	resp, err := a.gateway.Execute(ctx, in.Routing.SelectedAgent, in.Request)
	if err != nil {
		a.logger.Error("agent execution failed", "agent", in.Routing.SelectedAgent, "error", err)
		if domain.IsInvalidInput(err) {
			return domain.AgentResponse{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
		}
		return domain.AgentResponse{}, err
	}
	return resp, nil
}

// ManageTopic executes one topic lifecycle action. Unknown actions are a
// contract error and fail the activity without retries.
func (a *Activities) ManageTopic(ctx context.Context, req domain.TopicManagementRequest) (domain.AgentResponse, error) {
	resp, err := a.topics.Handle(ctx, req)
	if err != nil {
		a.logger.Error("topic action failed", "topic_id", req.TopicID, "action", req.Action, "error", err)
		if domain.IsInvalidInput(err) {
			return domain.AgentResponse{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
		}
		return domain.AgentResponse{}, err
	}
	return resp, nil
}
