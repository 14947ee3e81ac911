// Package topic implements the lifecycle state machine for a single
// structured-dialogue topic.
package topic

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"agentbridge/internal/domain"
)

// Agent type tag for responses the manager synthesizes without a gateway call.
const synthesizedAgentType = "DialogueBot"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Manager dispatches topic lifecycle actions. START and RESET both open a
// fresh topic (there is no distinct reset protocol); COMPLETE and ESCALATE
// are terminal and synthesized locally without touching the gateway.
type Manager struct {
	topics domain.TopicGateway
	logger *slog.Logger
}

// NewManager creates a topic manager backed by the given gateway.
func NewManager(topics domain.TopicGateway, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = discardLogger()
	}
	return &Manager{topics: topics, logger: logger}
}

// Handle executes one topic action. Unknown actions are a contract error
// and return domain.ErrInvalidInput; every other failure mode is the
// gateway's and is passed through for the coordinator to convert.
func (m *Manager) Handle(ctx context.Context, req domain.TopicManagementRequest) (domain.AgentResponse, error) {
	if err := req.Validate(); err != nil {
		return domain.AgentResponse{}, err
	}

	m.logger.Debug("handling topic action", "bot_id", req.BotID, "topic_id", req.TopicID, "action", req.Action)

	switch req.Action {
	case domain.ActionStart, domain.ActionReset:
		// Reset is a fresh start by design of the dialogue platform.
		return m.topics.StartTopic(ctx, req.BotID, req.TopicID, req.Parameters)

	case domain.ActionContinue:
		return m.topics.ContinueTopic(ctx, req.BotID, req.TopicID, req.Parameters)

	case domain.ActionComplete:
		return domain.AgentResponse{
			Message:          fmt.Sprintf("Topic %s has been completed successfully.", req.TopicID),
			AgentType:        synthesizedAgentType,
			AgentID:          req.BotID,
			Context:          domain.MergeContexts(req.Parameters, nil),
			RequiresFollowUp: false,
		}, nil

	case domain.ActionEscalate:
		return domain.AgentResponse{
			Message:          fmt.Sprintf("Topic %s requires escalation to the reasoning agent for advanced assistance.", req.TopicID),
			AgentType:        synthesizedAgentType,
			AgentID:          req.BotID,
			Context:          domain.MergeContexts(req.Parameters, nil),
			RequiresFollowUp: true,
			NextAction:       domain.NextActionEscalate,
		}, nil

	default:
		return domain.AgentResponse{}, domain.NewDomainError("Topic.Handle", domain.ErrInvalidInput,
			"unknown topic action: "+string(req.Action))
	}
}
