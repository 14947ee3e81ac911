package domain

import "context"

// AgentType identifies one of the interchangeable conversational backends.
type AgentType string

const (
	AgentDialogue   AgentType = "dialogue"
	AgentReasoning  AgentType = "reasoning"
	AgentAutomation AgentType = "automation"
	AgentHybrid     AgentType = "hybrid"
)

// Valid reports whether t is one of the closed set of agent types.
func (t AgentType) Valid() bool {
	switch t {
	case AgentDialogue, AgentReasoning, AgentAutomation, AgentHybrid:
		return true
	}
	return false
}

// ParseAgentType converts a wire string into an AgentType.
func ParseAgentType(s string) (AgentType, error) {
	t := AgentType(s)
	if !t.Valid() {
		return "", NewDomainError("ParseAgentType", ErrInvalidInput, "unknown agent type: "+s)
	}
	return t, nil
}

// RoutingPreference is an optional caller hint for agent selection.
type RoutingPreference string

const (
	RouteAuto            RoutingPreference = "auto"
	RoutePreferDialogue  RoutingPreference = "prefer_dialogue"
	RoutePreferReasoning RoutingPreference = "prefer_reasoning"
	RouteDialogueOnly    RoutingPreference = "dialogue_only"
	RouteReasoningOnly   RoutingPreference = "reasoning_only"
)

// Valid reports whether p is one of the closed set of preferences.
// The empty string is valid and treated as RouteAuto.
func (p RoutingPreference) Valid() bool {
	switch p {
	case "", RouteAuto, RoutePreferDialogue, RoutePreferReasoning, RouteDialogueOnly, RouteReasoningOnly:
		return true
	}
	return false
}

// TopicAction is one action of the topic lifecycle state machine.
type TopicAction string

const (
	ActionStart    TopicAction = "start"
	ActionContinue TopicAction = "continue"
	ActionReset    TopicAction = "reset"
	ActionComplete TopicAction = "complete"
	ActionEscalate TopicAction = "escalate"
)

// Valid reports whether a is a known topic action.
func (a TopicAction) Valid() bool {
	switch a {
	case ActionStart, ActionContinue, ActionReset, ActionComplete, ActionEscalate:
		return true
	}
	return false
}

// NextActionEscalate is the response field value that, combined with
// RequiresFollowUp, triggers escalation to the reasoning agent.
const NextActionEscalate = "escalate"

// ConversationRequest is a single inbound conversational turn.
// Immutable once created; escalation follow-ups are built as fresh values.
type ConversationRequest struct {
	UserID         string            `json:"user_id"`
	Message        string            `json:"message"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Context        map[string]any    `json:"context,omitempty"`
	Preference     RoutingPreference `json:"routing_preference,omitempty"`
}

// Validate rejects malformed requests before they reach the decision logic.
func (r ConversationRequest) Validate() error {
	if r.UserID == "" {
		return NewDomainError("ConversationRequest.Validate", ErrInvalidInput, "user_id is required")
	}
	if r.Message == "" {
		return NewDomainError("ConversationRequest.Validate", ErrInvalidInput, "message is required")
	}
	if !r.Preference.Valid() {
		return NewDomainError("ConversationRequest.Validate", ErrInvalidInput, "unknown routing preference: "+string(r.Preference))
	}
	return nil
}

// AgentRoutingDecision is the outcome of one routing decision. Never mutated.
type AgentRoutingDecision struct {
	SelectedAgent AgentType      `json:"selected_agent"`
	Reason        string         `json:"reason"`
	Confidence    float64        `json:"confidence"`
	Context       map[string]any `json:"routing_context,omitempty"`
}

// AgentResponse is the normalized result of executing one agent request.
type AgentResponse struct {
	Message          string         `json:"message"`
	AgentType        string         `json:"agent_type"`
	AgentID          string         `json:"agent_id"`
	ConversationID   string         `json:"conversation_id,omitempty"`
	Context          map[string]any `json:"context,omitempty"`
	RequiresFollowUp bool           `json:"requires_follow_up"`
	NextAction       string         `json:"next_action,omitempty"`
}

// Escalates reports whether this response carries the escalation signal.
func (r AgentResponse) Escalates() bool {
	return r.RequiresFollowUp && r.NextAction == NextActionEscalate
}

// AgentCapability declares one capability a collaboration task needs.
type AgentCapability struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	SupportedBy []AgentType `json:"supported_by"`
	IsRequired  bool        `json:"is_required"`
}

// MultiAgentRequest asks for a multi-step collaboration across agents.
type MultiAgentRequest struct {
	TaskDescription      string            `json:"task_description"`
	RequiredCapabilities []AgentCapability `json:"required_capabilities,omitempty"`
	UserID               string            `json:"user_id"`
	Context              map[string]any    `json:"context,omitempty"`
}

// Validate rejects malformed collaboration requests at the boundary.
func (r MultiAgentRequest) Validate() error {
	if r.UserID == "" {
		return NewDomainError("MultiAgentRequest.Validate", ErrInvalidInput, "user_id is required")
	}
	for _, c := range r.RequiredCapabilities {
		if c.Name == "" {
			return NewDomainError("MultiAgentRequest.Validate", ErrInvalidInput, "capability name is required")
		}
		for _, a := range c.SupportedBy {
			if !a.Valid() {
				return NewDomainError("MultiAgentRequest.Validate", ErrInvalidInput, "unknown agent type in supported_by: "+string(a))
			}
		}
	}
	return nil
}

// AgentCollaborationStep is one planned unit of a collaboration.
// Step order is significant and preserved end-to-end; InputContext may be
// rewritten by the coordinator between planning and execution to inject
// upstream results.
type AgentCollaborationStep struct {
	AgentType    AgentType      `json:"agent_type"`
	Description  string         `json:"description"`
	Prompt       string         `json:"prompt"`
	InputContext map[string]any `json:"input_context,omitempty"`
}

// TopicManagementRequest drives the topic lifecycle state machine.
type TopicManagementRequest struct {
	BotID      string         `json:"bot_id"`
	TopicID    string         `json:"topic_id"`
	Action     TopicAction    `json:"action"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Validate rejects malformed topic requests. Unknown actions are a contract
// error owned by the topic manager, so they are deliberately not checked here.
func (r TopicManagementRequest) Validate() error {
	if r.BotID == "" {
		return NewDomainError("TopicManagementRequest.Validate", ErrInvalidInput, "bot_id is required")
	}
	if r.TopicID == "" {
		return NewDomainError("TopicManagementRequest.Validate", ErrInvalidInput, "topic_id is required")
	}
	return nil
}

// AgentExecutionGateway executes one step against a concrete agent backend.
// Implementations must be safe to retry at the caller's discretion.
type AgentExecutionGateway interface {
	Execute(ctx context.Context, agent AgentType, req ConversationRequest) (AgentResponse, error)
}

// TopicGateway drives named topics on the structured-dialogue platform.
type TopicGateway interface {
	StartTopic(ctx context.Context, botID, topicID string, params map[string]any) (AgentResponse, error)
	ContinueTopic(ctx context.Context, botID, topicID string, params map[string]any) (AgentResponse, error)
}

// MergeContexts unions base and overlay into a fresh map. Overlay keys win
// on conflict. Inputs are never mutated; nil inputs are treated as empty.
func MergeContexts(base, overlay map[string]any) map[string]any {
	if len(base) == 0 && len(overlay) == 0 {
		return map[string]any{}
	}
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
