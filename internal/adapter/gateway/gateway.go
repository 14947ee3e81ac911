// Package gateway connects routing decisions to the concrete agent
// backends. Each agent type gets an Executor; the Mux dispatches a
// request to the executor matching the routing decision.
package gateway

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"agentbridge/internal/domain"
	"agentbridge/internal/infra/tracer"
)

// Executor runs a conversation request against one agent backend.
type Executor interface {
	Execute(ctx context.Context, req domain.ConversationRequest) (domain.AgentResponse, error)
}

// Mux dispatches requests to the executor registered for the selected
// agent type. It implements domain.AgentExecutionGateway.
type Mux struct {
	executors map[domain.AgentType]Executor
	logger    *slog.Logger
}

// NewMux returns an empty Mux. The logger may be nil.
func NewMux(logger *slog.Logger) *Mux {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mux{
		executors: make(map[domain.AgentType]Executor),
		logger:    logger,
	}
}

// Register binds an executor to an agent type, replacing any previous
// binding.
func (m *Mux) Register(agent domain.AgentType, exec Executor) {
	m.executors[agent] = exec
}

// Execute dispatches the request to the executor for the selected agent.
// Hybrid is not a backend: the orchestration layer decomposes it into
// dialogue and reasoning calls before reaching the gateway.
func (m *Mux) Execute(ctx context.Context, agent domain.AgentType, req domain.ConversationRequest) (domain.AgentResponse, error) {
	const op = "gateway.Execute"

	ctx, span := tracer.StartSpan(ctx, "gateway.execute", trace.WithAttributes(
		tracer.AgentAttr(string(agent)),
		tracer.ConversationAttr(req.ConversationID),
	))
	defer span.End()

	switch agent {
	case domain.AgentDialogue, domain.AgentReasoning, domain.AgentAutomation:
	case domain.AgentHybrid:
		err := domain.NewDomainError(op, domain.ErrInvalidInput,
			"hybrid is resolved by the orchestration layer, not a backend")
		tracer.RecordError(span, err)
		return domain.AgentResponse{}, err
	default:
		err := domain.NewDomainError(op, domain.ErrInvalidInput,
			"unknown agent type: "+string(agent))
		tracer.RecordError(span, err)
		return domain.AgentResponse{}, err
	}

	exec, ok := m.executors[agent]
	if !ok || exec == nil {
		err := domain.NewDomainError(op, domain.ErrAgentUnavailable,
			"no executor registered for agent "+string(agent))
		tracer.RecordError(span, err)
		return domain.AgentResponse{}, err
	}

	m.logger.Debug("dispatching to agent backend",
		"agent", string(agent),
		"user_id", req.UserID,
		"conversation_id", req.ConversationID,
	)
	resp, err := exec.Execute(ctx, req)
	if err != nil {
		tracer.RecordError(span, err)
	}
	return resp, err
}

var _ domain.AgentExecutionGateway = (*Mux)(nil)
