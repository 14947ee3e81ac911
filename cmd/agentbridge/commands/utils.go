package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"

	"agentbridge/internal/infra/config"
	"agentbridge/internal/infra/logger"
)

// dialTemporal connects a workflow client using the configured endpoint.
func dialTemporal(cfg config.TemporalConfig) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    sdklog.NewStructuredLogger(logger.Discard()),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to temporal at %s: %w", cfg.HostPort, err)
	}
	return c, nil
}

// startOptions builds workflow start options with a fresh, prefixed ID.
func startOptions(prefix, taskQueue string) client.StartWorkflowOptions {
	return client.StartWorkflowOptions{
		ID:        prefix + "-" + strings.ToLower(ulid.Make().String()),
		TaskQueue: taskQueue,
	}
}

// printJSON renders v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseParams turns key=value pairs into a parameter map.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", p)
		}
		params[k] = v
	}
	return params, nil
}
