package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"agentbridge/internal/adapter/dialog"
	"agentbridge/internal/adapter/gateway"
	"agentbridge/internal/domain"
	"agentbridge/internal/infra/config"
	"agentbridge/internal/infra/tracer"
	"agentbridge/internal/orchestration"
	"agentbridge/internal/planner"
	"agentbridge/internal/routing"
	"agentbridge/internal/topic"
)

// platformTokenEnv names the environment variable holding the platform
// API bearer token.
const platformTokenEnv = "PLATFORM_API_TOKEN"

// NewWorkerCmd creates the worker command hosting the workflows.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the workflow worker",
		Long: `Run a Temporal worker that hosts the conversation workflows and the
agent activities. The worker connects every registered agent backend:
the dialogue bot, the reasoning model, and the automation flows.`,
		RunE: runWorker,
	}
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := setupLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdownTracer, err := tracer.Setup(cmd.Context(), cfg.Tracer)
	if err != nil {
		return fmt.Errorf("setup tracer: %w", err)
	}
	defer shutdownTracer(context.Background())

	acts, err := buildActivities(cfg, log)
	if err != nil {
		return err
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    sdklog.NewStructuredLogger(log),
	})
	if err != nil {
		return fmt.Errorf("connect to temporal at %s: %w", cfg.Temporal.HostPort, err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(orchestration.HybridConversationWorkflow)
	w.RegisterWorkflow(orchestration.CollaborationWorkflow)
	w.RegisterWorkflow(orchestration.TopicConversationWorkflow)
	w.RegisterActivity(acts)

	log.Info("worker starting",
		"task_queue", cfg.Temporal.TaskQueue,
		"namespace", cfg.Temporal.Namespace,
	)
	return w.Run(worker.InterruptCh())
}

// buildActivities assembles the full backend stack: platform client,
// per-agent executors behind circuit breakers, and the activity set.
func buildActivities(cfg config.Config, log *slog.Logger) (*orchestration.Activities, error) {
	platform, err := dialog.NewClient(cfg.Platform, dialog.EnvToken(platformTokenEnv), log)
	if err != nil {
		return nil, fmt.Errorf("build platform client: %w", err)
	}

	dialogue := gateway.NewDialogueExecutor(platform, cfg.Platform.BotID, log)
	reasoning := gateway.NewReasoningExecutor(cfg.Reasoning, log)
	automation := gateway.NewAutomationExecutor(platform, cfg.Platform.FlowID, cfg.Platform.TriggerName, log)

	mux := gateway.NewMux(log)
	mux.Register(domain.AgentDialogue, gateway.NewBreakerExecutor(dialogue, domain.AgentDialogue, cfg.Breaker, log))
	mux.Register(domain.AgentReasoning, gateway.NewBreakerExecutor(reasoning, domain.AgentReasoning, cfg.Breaker, log))
	mux.Register(domain.AgentAutomation, gateway.NewBreakerExecutor(automation, domain.AgentAutomation, cfg.Breaker, log))

	acts := orchestration.NewActivities(
		routing.NewEngineWithLogger(log),
		planner.NewPlannerWithLogger(log),
		topic.NewManager(dialogue, log),
		mux,
		log,
	)
	return acts, nil
}
