package gateway

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	openai "github.com/sashabaranov/go-openai"

	"agentbridge/internal/domain"
	"agentbridge/internal/infra/config"
)

// ReasoningAgentType tags responses produced by the reasoning backend.
const ReasoningAgentType = "Reasoning"

const reasoningSystemPrompt = "You are a reasoning agent specializing in complex analysis, " +
	"technical explanation, and creative problem solving. Answer the user's request directly " +
	"and thoroughly."

// ReasoningExecutor runs requests against an OpenAI-compatible chat
// completion endpoint.
type ReasoningExecutor struct {
	client  *openai.Client
	model   string
	agentID string
	logger  *slog.Logger
}

// NewReasoningExecutor builds an executor from the reasoning backend
// configuration. A custom BaseURL allows pointing at any
// OpenAI-compatible server.
func NewReasoningExecutor(cfg config.ReasoningConfig, logger *slog.Logger) *ReasoningExecutor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &ReasoningExecutor{
		client:  openai.NewClientWithConfig(cc),
		model:   cfg.Model,
		agentID: cfg.AgentID,
		logger:  logger,
	}
}

// Execute sends the request as a single-turn chat completion. Reasoning
// responses are terminal: they never ask for follow-up.
func (e *ReasoningExecutor) Execute(ctx context.Context, req domain.ConversationRequest) (domain.AgentResponse, error) {
	const op = "gateway.ReasoningExecutor.Execute"

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reasoningSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Message},
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return domain.AgentResponse{}, domain.NewDomainError(op, domain.ErrTimeout, err.Error())
		}
		return domain.AgentResponse{}, domain.NewDomainError(op, domain.ErrProviderError, err.Error())
	}
	if len(resp.Choices) == 0 {
		return domain.AgentResponse{}, domain.NewDomainError(op, domain.ErrProviderError, "no completion choices returned")
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = ulid.Make().String()
	}

	e.logger.Debug("reasoning completion finished",
		"model", e.model,
		"conversation_id", conversationID,
		"tokens", resp.Usage.TotalTokens,
	)

	return domain.AgentResponse{
		Message:        resp.Choices[0].Message.Content,
		AgentType:      ReasoningAgentType,
		AgentID:        e.agentID,
		ConversationID: conversationID,
		Context:        req.Context,
	}, nil
}

var _ Executor = (*ReasoningExecutor)(nil)
