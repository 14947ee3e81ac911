// Package routing decides which agent backend handles a conversation request.
//
// The engine is a pure function of the request: it holds no per-call state,
// reads no clock or randomness, and may be re-invoked with identical input
// during workflow replay.
package routing

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"agentbridge/internal/domain"
)

// Keywords that suggest the structured-dialogue bot is appropriate.
var dialogueKeywords = []string{"workflow", "process", "step", "form", "approval", "business", "policy", "procedure"}

// Keywords that suggest the reasoning agent is appropriate.
var reasoningKeywords = []string{"explain", "analyze", "creative", "generate", "complex", "reasoning", "technical", "code"}

// Confidence scoring constants: base 0.6 plus 0.1 per keyword hit, capped at 1.0.
const (
	baseConfidence    = 0.6
	perKeywordBoost   = 0.1
	neutralConfidence = 0.5
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Engine maps a request plus optional user preference to a routing decision.
// Safe for concurrent use: it has no mutable fields.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a routing engine without logging.
func NewEngine() *Engine {
	return &Engine{logger: discardLogger()}
}

// NewEngineWithLogger creates a routing engine with debug logging.
func NewEngineWithLogger(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Decide maps request to a routing decision. It never fails: a malformed
// preference yields the default dialogue decision with the error recorded
// in the decision's routing context.
func (e *Engine) Decide(req domain.ConversationRequest) domain.AgentRoutingDecision {
	if !req.Preference.Valid() {
		e.logger.Warn("invalid routing preference, defaulting to dialogue", "preference", req.Preference)
		return domain.AgentRoutingDecision{
			SelectedAgent: domain.AgentDialogue,
			Reason:        "Error in routing logic, defaulting to structured dialogue",
			Confidence:    neutralConfidence,
			Context:       map[string]any{"error": "unknown routing preference: " + string(req.Preference)},
		}
	}

	// Explicit preferences override all heuristics.
	if pref := req.Preference; pref != "" && pref != domain.RouteAuto {
		return e.decideFromPreference(pref)
	}

	return e.decideFromRules(req)
}

func (e *Engine) decideFromPreference(pref domain.RoutingPreference) domain.AgentRoutingDecision {
	var d domain.AgentRoutingDecision
	switch pref {
	case domain.RoutePreferDialogue:
		d = domain.AgentRoutingDecision{SelectedAgent: domain.AgentDialogue, Reason: "User preference for structured dialogue", Confidence: 1.0}
	case domain.RoutePreferReasoning:
		d = domain.AgentRoutingDecision{SelectedAgent: domain.AgentReasoning, Reason: "User preference for reasoning agent", Confidence: 1.0}
	case domain.RouteDialogueOnly:
		d = domain.AgentRoutingDecision{SelectedAgent: domain.AgentDialogue, Reason: "User explicitly requested structured dialogue only", Confidence: 1.0}
	case domain.RouteReasoningOnly:
		d = domain.AgentRoutingDecision{SelectedAgent: domain.AgentReasoning, Reason: "User explicitly requested reasoning agent only", Confidence: 1.0}
	}
	e.logger.Debug("explicit preference routed", "preference", pref, "agent", d.SelectedAgent)
	return d
}

func (e *Engine) decideFromRules(req domain.ConversationRequest) domain.AgentRoutingDecision {
	message := strings.ToLower(req.Message)

	dialogueScore := countMatches(message, dialogueKeywords)
	reasoningScore := countMatches(message, reasoningKeywords)

	e.logger.Debug("rule-based routing scores", "dialogue", dialogueScore, "reasoning", reasoningScore)

	switch {
	case dialogueScore > reasoningScore:
		return domain.AgentRoutingDecision{
			SelectedAgent: domain.AgentDialogue,
			Reason:        fmt.Sprintf("Message contains %d structured-process keywords", dialogueScore),
			Confidence:    confidenceFor(dialogueScore),
		}
	case reasoningScore > dialogueScore:
		return domain.AgentRoutingDecision{
			SelectedAgent: domain.AgentReasoning,
			Reason:        fmt.Sprintf("Message contains %d reasoning keywords indicating complex reasoning needed", reasoningScore),
			Confidence:    confidenceFor(reasoningScore),
		}
	default:
		return domain.AgentRoutingDecision{
			SelectedAgent: domain.AgentDialogue,
			Reason:        "No clear indicators, defaulting to structured dialogue",
			Confidence:    neutralConfidence,
		}
	}
}

func countMatches(message string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			n++
		}
	}
	return n
}

func confidenceFor(score int) float64 {
	c := baseConfidence + float64(score)*perKeywordBoost
	if c > 1.0 {
		return 1.0
	}
	return c
}
