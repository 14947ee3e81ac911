package gateway

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"agentbridge/internal/domain"
	"agentbridge/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerExecutor wraps an Executor with circuit breaker protection.
// When the backend fails repeatedly, the circuit opens and subsequent
// calls fail fast without reaching the backend, preventing retry storms.
type BreakerExecutor struct {
	inner   Executor
	breaker *gobreaker.CircuitBreaker[domain.AgentResponse]
	logger  *slog.Logger
}

// NewBreakerExecutor wraps inner with a circuit breaker named after the
// agent it fronts. Zero-valued settings fall back to defaults.
func NewBreakerExecutor(inner Executor, agent domain.AgentType, cfg config.BreakerConfig, logger *slog.Logger) *BreakerExecutor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout.Std()
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval.Std()
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[domain.AgentResponse](gobreaker.Settings{
		Name:        "agent:" + string(agent),
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			// Caller mistakes must not open the circuit.
			return err == nil || domain.IsInvalidInput(err)
		},
	})

	return &BreakerExecutor{inner: inner, breaker: cb, logger: logger}
}

// Execute routes the call through the circuit breaker.
func (e *BreakerExecutor) Execute(ctx context.Context, req domain.ConversationRequest) (domain.AgentResponse, error) {
	resp, err := e.breaker.Execute(func() (domain.AgentResponse, error) {
		return e.inner.Execute(ctx, req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return domain.AgentResponse{}, domain.NewDomainError("gateway.BreakerExecutor.Execute",
				domain.ErrAgentUnavailable, "circuit open: "+err.Error())
		}
		return domain.AgentResponse{}, err
	}
	return resp, nil
}

// State returns the current circuit breaker state for monitoring.
func (e *BreakerExecutor) State() gobreaker.State {
	return e.breaker.State()
}

var _ Executor = (*BreakerExecutor)(nil)
