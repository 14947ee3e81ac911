// Package dialog talks to the structured-dialogue platform that hosts the
// dialogue bots and automation flows. It wraps the platform's management
// REST API and its admin CLI.
package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"agentbridge/internal/domain"
	"agentbridge/internal/infra/config"
	"agentbridge/internal/infra/tracer"
)

// TokenProvider supplies bearer tokens for the platform API.
// Implementations may cache or refresh tokens as needed.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token. Intended for
// tests and short-lived scripts.
type StaticToken string

func (s StaticToken) Token(ctx context.Context) (string, error) { return string(s), nil }

// EnvToken reads the token from an environment variable on every call,
// so an external refresher can rotate it without restarting the worker.
type EnvToken string

func (e EnvToken) Token(ctx context.Context) (string, error) {
	v := os.Getenv(string(e))
	if v == "" {
		return "", domain.NewDomainError("dialog.EnvToken", domain.ErrProviderError,
			"environment variable "+string(e)+" is empty")
	}
	return v, nil
}

// MessageRequest is a single user turn sent to a dialogue bot.
type MessageRequest struct {
	BotID          string
	Message        string
	UserID         string
	ConversationID string
	Topic          string
	Variables      map[string]any
}

// MessageResponse is the bot's reply for one turn.
type MessageResponse struct {
	Message        string         `json:"message"`
	ConversationID string         `json:"conversationId"`
	Topic          string         `json:"topic"`
	Variables      map[string]any `json:"variables"`
	TopicCompleted bool           `json:"topicCompleted"`
	NextTopic      string         `json:"nextTopic"`
}

// TopicStatus describes one topic configured on a bot.
type TopicStatus struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	Variables     map[string]any `json:"variables"`
	LastUserInput string         `json:"lastUserInput"`
	LastUpdated   string         `json:"lastUpdated"`
}

// FlowRunRequest triggers an automation flow.
type FlowRunRequest struct {
	FlowID      string
	TriggerName string
	UserID      string
	Inputs      map[string]any
}

// FlowRunResult reports the outcome of a triggered flow run.
type FlowRunResult struct {
	FlowID  string         `json:"flowId"`
	RunID   string         `json:"runId"`
	Status  string         `json:"status"`
	Outputs map[string]any `json:"outputs"`
}

// Client is a rate-limited HTTP client for the platform management API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a Client from the platform configuration. The logger
// may be nil.
func NewClient(cfg config.PlatformConfig, tokens TokenProvider, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.EnvironmentURL, "/")
	if base == "" {
		return nil, domain.NewDomainError("dialog.NewClient", domain.ErrInvalidInput, "environment_url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, domain.NewDomainError("dialog.NewClient", domain.ErrInvalidInput, "invalid environment_url: "+err.Error())
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		baseURL: base,
		http:    newHTTPClient(cfg.ConnTimeout.Std(), cfg.RespTimeout.Std()),
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}, nil
}

// SendMessage delivers one user turn to the bot and returns its reply.
func (c *Client) SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	const op = "dialog.SendMessage"
	if req.BotID == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "bot id is required")
	}

	variables := req.Variables
	if variables == nil {
		variables = map[string]any{}
	}
	payload := map[string]any{
		"message":        req.Message,
		"userId":         req.UserID,
		"conversationId": req.ConversationID,
		"topic":          req.Topic,
		"variables":      variables,
	}

	endpoint := fmt.Sprintf("%s/api/botmanagement/v1/bots/%s/conversations", c.baseURL, url.PathEscape(req.BotID))

	var out MessageResponse
	if err := c.postJSON(ctx, op, endpoint, payload, &out); err != nil {
		return nil, err
	}
	if out.ConversationID == "" {
		out.ConversationID = req.ConversationID
	}

	c.logger.Debug("bot turn completed",
		"bot_id", req.BotID,
		"conversation_id", out.ConversationID,
		"topic_completed", out.TopicCompleted,
	)
	return &out, nil
}

// Topics lists the topics configured on a bot.
func (c *Client) Topics(ctx context.Context, botID string) ([]TopicStatus, error) {
	const op = "dialog.Topics"
	if botID == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "bot id is required")
	}

	endpoint := fmt.Sprintf("%s/api/botmanagement/v1/bots/%s/topics", c.baseURL, url.PathEscape(botID))

	var out struct {
		Topics []TopicStatus `json:"topics"`
	}
	if err := c.getJSON(ctx, op, endpoint, &out); err != nil {
		return nil, err
	}
	return out.Topics, nil
}

// TriggerFlow starts an automation flow run and returns its status.
func (c *Client) TriggerFlow(ctx context.Context, req FlowRunRequest) (*FlowRunResult, error) {
	const op = "dialog.TriggerFlow"
	if req.FlowID == "" || req.TriggerName == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "flow id and trigger name are required")
	}

	triggeredBy := req.UserID
	if triggeredBy == "" {
		triggeredBy = "system"
	}
	payload := map[string]any{
		"inputs": req.Inputs,
		"metadata": map[string]any{
			"triggeredBy": triggeredBy,
			"triggeredAt": time.Now().UTC().Format(time.RFC3339),
		},
	}

	endpoint := fmt.Sprintf("%s/api/flows/%s/triggers/%s/run",
		c.baseURL, url.PathEscape(req.FlowID), url.PathEscape(req.TriggerName))

	var out FlowRunResult
	if err := c.postJSON(ctx, op, endpoint, payload, &out); err != nil {
		return nil, err
	}
	out.FlowID = req.FlowID
	return &out, nil
}

// EnvironmentInfo fetches metadata about the connected platform environment.
func (c *Client) EnvironmentInfo(ctx context.Context) (map[string]any, error) {
	const op = "dialog.EnvironmentInfo"

	var out map[string]any
	if err := c.getJSON(ctx, op, c.baseURL+"/api/environments/current", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, op, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapOp(op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.WrapOp(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(op, req, out)
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WrapOp(op, err)
	}
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	ctx, span := tracer.StartSpan(req.Context(), op, trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.URL.Path),
	))
	defer span.End()
	req = req.WithContext(ctx)

	if err := c.roundTrip(op, req, out); err != nil {
		tracer.RecordError(span, err)
		return err
	}
	return nil
}

func (c *Client) roundTrip(op string, req *http.Request, out any) error {
	ctx := req.Context()
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapOp(op, err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return domain.WrapOp(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.NewDomainError(op, domain.ErrTimeout, err.Error())
		}
		return domain.NewDomainError(op, domain.ErrProviderError, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("platform API error",
			"op", op,
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		if resp.StatusCode == http.StatusNotFound {
			return domain.NewDomainError(op, domain.ErrNotFound, fmt.Sprintf("HTTP %d", resp.StatusCode))
		}
		return domain.NewDomainError(op, domain.ErrProviderError,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewDomainError(op, domain.ErrProviderError, "decode response: "+err.Error())
	}
	return nil
}

// newHTTPClient builds an *http.Client with a pooled transport sized for
// a small number of long-lived platform hosts.
func newHTTPClient(connTimeout, respTimeout time.Duration) *http.Client {
	if connTimeout <= 0 {
		connTimeout = 30 * time.Second
	}
	if respTimeout <= 0 {
		respTimeout = 60 * time.Second
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   connTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: respTimeout,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			MaxConnsPerHost:       20,
			IdleConnTimeout:       120 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		Timeout: connTimeout + respTimeout,
	}
}
