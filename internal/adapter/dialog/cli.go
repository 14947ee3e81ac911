package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"agentbridge/internal/domain"
)

const defaultCLITimeout = 30 * time.Second

// BotSummary is one entry from the admin CLI's bot listing.
type BotSummary struct {
	ID          string `json:"ChatbotId"`
	Name        string `json:"DisplayName"`
	State       string `json:"State"`
	Environment string `json:"EnvironmentId"`
}

// CLI wraps the platform's admin command-line tool for management
// operations the REST API does not expose.
type CLI struct {
	binary         string
	environmentURL string
	timeout        time.Duration
	logger         *slog.Logger
}

// NewCLI returns a wrapper around the admin CLI binary. binary defaults
// to "pac" when empty; a zero timeout falls back to 30s.
func NewCLI(binary, environmentURL string, timeout time.Duration, logger *slog.Logger) *CLI {
	if binary == "" {
		binary = "pac"
	}
	if timeout <= 0 {
		timeout = defaultCLITimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CLI{binary: binary, environmentURL: environmentURL, timeout: timeout, logger: logger}
}

// Authenticated reports whether the CLI holds an active auth profile.
func (c *CLI) Authenticated(ctx context.Context) bool {
	out, err := c.run(ctx, "auth", "list")
	if err != nil {
		c.logger.Warn("auth status check failed", "error", err)
		return false
	}
	return strings.TrimSpace(out) != ""
}

// Authenticate creates a CLI auth profile for the given tenant.
func (c *CLI) Authenticate(ctx context.Context, tenantID string) error {
	const op = "dialog.CLI.Authenticate"
	if tenantID == "" {
		return domain.NewDomainError(op, domain.ErrInvalidInput, "tenant id is required")
	}
	if _, err := c.run(ctx, "auth", "create", "--url", c.environmentURL, "--tenant", tenantID); err != nil {
		return domain.WrapOp(op, err)
	}
	return nil
}

// ListBots returns the dialogue bots visible to the authenticated profile.
func (c *CLI) ListBots(ctx context.Context) ([]BotSummary, error) {
	const op = "dialog.CLI.ListBots"

	out, err := c.run(ctx, "chatbot", "list", "--json")
	if err != nil {
		return nil, domain.WrapOp(op, err)
	}
	if strings.TrimSpace(out) == "" {
		return nil, nil
	}

	var bots []BotSummary
	if err := json.Unmarshal([]byte(out), &bots); err != nil {
		return nil, domain.NewDomainError(op, domain.ErrProviderError, "parse CLI output: "+err.Error())
	}
	return bots, nil
}

// BotDetails returns the raw detail record for one bot.
func (c *CLI) BotDetails(ctx context.Context, botID string) (map[string]any, error) {
	const op = "dialog.CLI.BotDetails"
	if botID == "" {
		return nil, domain.NewDomainError(op, domain.ErrInvalidInput, "bot id is required")
	}

	out, err := c.run(ctx, "chatbot", "show", "--chatbot-id", botID, "--json")
	if err != nil {
		return nil, domain.WrapOp(op, err)
	}
	if strings.TrimSpace(out) == "" {
		return map[string]any{}, nil
	}

	var details map[string]any
	if err := json.Unmarshal([]byte(out), &details); err != nil {
		return nil, domain.NewDomainError(op, domain.ErrProviderError, "parse CLI output: "+err.Error())
	}
	return details, nil
}

func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	c.logger.Debug("CLI command executed",
		"binary", c.binary,
		"args", strings.Join(args, " "),
		"error", err,
	)
	if ctx.Err() == context.DeadlineExceeded {
		return "", domain.NewDomainError("dialog.CLI.run", domain.ErrTimeout, "command timed out: "+strings.Join(args, " "))
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", domain.NewDomainError("dialog.CLI.run", domain.ErrProviderError, detail)
	}
	return stdout.String(), nil
}
