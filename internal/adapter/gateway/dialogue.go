package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"agentbridge/internal/adapter/dialog"
	"agentbridge/internal/domain"
)

// DialogueAgentType tags responses produced by the dialogue bot backend.
const DialogueAgentType = "DialogueBot"

// MessageSender is the slice of the platform client the dialogue
// executor needs. Satisfied by *dialog.Client.
type MessageSender interface {
	SendMessage(ctx context.Context, req dialog.MessageRequest) (*dialog.MessageResponse, error)
}

// DialogueExecutor runs requests against a bot on the structured-dialogue
// platform. It also implements domain.TopicGateway, since topic lifecycle
// operations are bot turns with a synthetic system user.
type DialogueExecutor struct {
	client MessageSender
	botID  string
	logger *slog.Logger
}

// NewDialogueExecutor binds the executor to a default bot. The logger may
// be nil.
func NewDialogueExecutor(client MessageSender, botID string, logger *slog.Logger) *DialogueExecutor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DialogueExecutor{client: client, botID: botID, logger: logger}
}

// Execute sends the user turn to the bot. RequiresFollowUp mirrors the
// topic still being open; NextAction carries the bot's suggested next
// topic, which the orchestration layer inspects for escalation.
func (e *DialogueExecutor) Execute(ctx context.Context, req domain.ConversationRequest) (domain.AgentResponse, error) {
	resp, err := e.client.SendMessage(ctx, dialog.MessageRequest{
		BotID:          e.botID,
		UserID:         req.UserID,
		Message:        req.Message,
		ConversationID: req.ConversationID,
		Variables:      req.Context,
	})
	if err != nil {
		return domain.AgentResponse{}, domain.WrapOp("gateway.DialogueExecutor.Execute", err)
	}

	return domain.AgentResponse{
		Message:          resp.Message,
		AgentType:        DialogueAgentType,
		AgentID:          e.botID,
		ConversationID:   resp.ConversationID,
		Context:          resp.Variables,
		RequiresFollowUp: !resp.TopicCompleted,
		NextAction:       resp.NextTopic,
	}, nil
}

// StartTopic begins a named topic as the system user.
func (e *DialogueExecutor) StartTopic(ctx context.Context, botID, topicID string, params map[string]any) (domain.AgentResponse, error) {
	return e.topicTurn(ctx, botID, topicID, fmt.Sprintf("Start topic: %s", topicID), params)
}

// ContinueTopic advances an in-flight topic as the system user.
func (e *DialogueExecutor) ContinueTopic(ctx context.Context, botID, topicID string, params map[string]any) (domain.AgentResponse, error) {
	return e.topicTurn(ctx, botID, topicID, "Continue with current topic", params)
}

func (e *DialogueExecutor) topicTurn(ctx context.Context, botID, topicID, message string, params map[string]any) (domain.AgentResponse, error) {
	if botID == "" {
		botID = e.botID
	}

	resp, err := e.client.SendMessage(ctx, dialog.MessageRequest{
		BotID:     botID,
		UserID:    "system",
		Message:   message,
		Topic:     topicID,
		Variables: params,
	})
	if err != nil {
		return domain.AgentResponse{}, domain.WrapOp("gateway.DialogueExecutor.topicTurn", err)
	}

	return domain.AgentResponse{
		Message:          resp.Message,
		AgentType:        DialogueAgentType,
		AgentID:          botID,
		ConversationID:   resp.ConversationID,
		Context:          resp.Variables,
		RequiresFollowUp: !resp.TopicCompleted,
		NextAction:       resp.NextTopic,
	}, nil
}

var (
	_ Executor            = (*DialogueExecutor)(nil)
	_ domain.TopicGateway = (*DialogueExecutor)(nil)
)
