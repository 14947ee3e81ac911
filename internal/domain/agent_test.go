package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgentType(t *testing.T) {
	for _, s := range []string{"dialogue", "reasoning", "automation", "hybrid"} {
		at, err := ParseAgentType(s)
		require.NoError(t, err)
		assert.Equal(t, AgentType(s), at)
	}

	_, err := ParseAgentType("chatbot")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRoutingPreferenceValid(t *testing.T) {
	assert.True(t, RoutingPreference("").Valid(), "empty preference means auto")
	assert.True(t, RouteReasoningOnly.Valid())
	assert.False(t, RoutingPreference("automation_only").Valid())
}

func TestConversationRequestValidate(t *testing.T) {
	ok := ConversationRequest{UserID: "u1", Message: "hi"}
	require.NoError(t, ok.Validate())

	tests := []struct {
		name string
		req  ConversationRequest
	}{
		{"missing user", ConversationRequest{Message: "hi"}},
		{"missing message", ConversationRequest{UserID: "u1"}},
		{"bad preference", ConversationRequest{UserID: "u1", Message: "hi", Preference: "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestMultiAgentRequestValidate(t *testing.T) {
	ok := MultiAgentRequest{
		UserID:          "u1",
		TaskDescription: "review",
		RequiredCapabilities: []AgentCapability{
			{Name: "analysis", SupportedBy: []AgentType{AgentReasoning}},
		},
	}
	require.NoError(t, ok.Validate())

	noUser := MultiAgentRequest{TaskDescription: "review"}
	assert.Error(t, noUser.Validate())

	unnamed := MultiAgentRequest{UserID: "u1", RequiredCapabilities: []AgentCapability{{}}}
	assert.Error(t, unnamed.Validate())

	badAgent := MultiAgentRequest{UserID: "u1", RequiredCapabilities: []AgentCapability{
		{Name: "x", SupportedBy: []AgentType{"chatbot"}},
	}}
	assert.Error(t, badAgent.Validate())
}

func TestTopicManagementRequestValidate(t *testing.T) {
	ok := TopicManagementRequest{BotID: "b1", TopicID: "t1", Action: ActionStart}
	require.NoError(t, ok.Validate())

	assert.Error(t, TopicManagementRequest{TopicID: "t1"}.Validate())
	assert.Error(t, TopicManagementRequest{BotID: "b1"}.Validate())

	// Unknown actions pass validation; the topic manager owns that check.
	odd := TopicManagementRequest{BotID: "b1", TopicID: "t1", Action: "pause"}
	require.NoError(t, odd.Validate())
}

func TestEscalates(t *testing.T) {
	assert.True(t, AgentResponse{RequiresFollowUp: true, NextAction: NextActionEscalate}.Escalates())
	assert.False(t, AgentResponse{RequiresFollowUp: false, NextAction: NextActionEscalate}.Escalates())
	assert.False(t, AgentResponse{RequiresFollowUp: true, NextAction: "billing"}.Escalates())
}

func TestMergeContexts(t *testing.T) {
	base := map[string]any{"a": 1, "b": 1}
	overlay := map[string]any{"b": 2, "c": 3}

	merged := MergeContexts(base, overlay)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 3}, merged)

	// Inputs are untouched.
	assert.Equal(t, 1, base["b"])
	assert.Len(t, overlay, 2)
}

func TestMergeContextsNilInputs(t *testing.T) {
	merged := MergeContexts(nil, nil)
	require.NotNil(t, merged)
	assert.Empty(t, merged)

	merged = MergeContexts(nil, map[string]any{"k": "v"})
	assert.Equal(t, "v", merged["k"])
}
