package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"agentbridge/internal/adapter/dialog"
	"agentbridge/internal/domain"
)

// AutomationAgentType tags responses produced by the automation backend.
const AutomationAgentType = "Automation"

// FlowRunner is the slice of the platform client the automation executor
// needs. Satisfied by *dialog.Client.
type FlowRunner interface {
	TriggerFlow(ctx context.Context, req dialog.FlowRunRequest) (*dialog.FlowRunResult, error)
}

// AutomationExecutor turns conversation requests into automation flow
// runs. The flow and trigger come from the request context when present,
// falling back to the configured defaults.
type AutomationExecutor struct {
	client      FlowRunner
	flowID      string
	triggerName string
	logger      *slog.Logger
}

// NewAutomationExecutor binds the executor to a default flow and trigger.
// The logger may be nil.
func NewAutomationExecutor(client FlowRunner, flowID, triggerName string, logger *slog.Logger) *AutomationExecutor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AutomationExecutor{client: client, flowID: flowID, triggerName: triggerName, logger: logger}
}

// Execute triggers the flow with the request message as input. Automation
// responses are terminal: they never ask for follow-up.
func (e *AutomationExecutor) Execute(ctx context.Context, req domain.ConversationRequest) (domain.AgentResponse, error) {
	const op = "gateway.AutomationExecutor.Execute"

	flowID := stringFromContext(req.Context, "flow_id", e.flowID)
	triggerName := stringFromContext(req.Context, "trigger_name", e.triggerName)
	if flowID == "" || triggerName == "" {
		return domain.AgentResponse{}, domain.NewDomainError(op, domain.ErrInvalidInput,
			"no flow configured for automation request")
	}

	res, err := e.client.TriggerFlow(ctx, dialog.FlowRunRequest{
		FlowID:      flowID,
		TriggerName: triggerName,
		UserID:      req.UserID,
		Inputs: map[string]any{
			"request": req.Message,
			"userId":  req.UserID,
		},
	})
	if err != nil {
		return domain.AgentResponse{}, domain.WrapOp(op, err)
	}

	out := domain.MergeContexts(req.Context, res.Outputs)
	out["flow_id"] = res.FlowID
	out["run_id"] = res.RunID
	out["run_status"] = res.Status

	return domain.AgentResponse{
		Message:        fmt.Sprintf("Flow %s run %s finished with status %s.", res.FlowID, res.RunID, res.Status),
		AgentType:      AutomationAgentType,
		AgentID:        flowID,
		ConversationID: req.ConversationID,
		Context:        out,
	}, nil
}

func stringFromContext(ctx map[string]any, key, fallback string) string {
	if v, ok := ctx[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

var _ Executor = (*AutomationExecutor)(nil)
