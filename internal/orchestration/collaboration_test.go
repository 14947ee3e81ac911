package orchestration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentbridge/internal/domain"
)

func TestCollaborationExecutesStepsInPlanOrder(t *testing.T) {
	gw := &fakeGateway{
		responses: map[domain.AgentType]domain.AgentResponse{
			domain.AgentDialogue:  {Message: "structured breakdown", AgentType: "DialogueBot", Context: map[string]any{"breakdown": "ready"}},
			domain.AgentReasoning: {Message: "recommendations", AgentType: "Reasoning", Context: map[string]any{"analysis": "ok"}},
		},
	}
	env := newTestEnv(t, gw, &fakeTopicGateway{})

	env.ExecuteWorkflow(CollaborationWorkflow, domain.MultiAgentRequest{
		TaskDescription: "Review our hiring process",
		UserID:          "u1",
		RequiredCapabilities: []domain.AgentCapability{
			{Name: "intake_process", Description: "Collect requirements", SupportedBy: []domain.AgentType{domain.AgentDialogue}},
			{Name: "gap_analysis", Description: "Find gaps", SupportedBy: []domain.AgentType{domain.AgentReasoning}},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var responses []domain.AgentResponse
	require.NoError(t, env.GetWorkflowResult(&responses))
	require.Len(t, responses, 2)
	assert.Equal(t, "DialogueBot", responses[0].AgentType)
	assert.Equal(t, "Reasoning", responses[1].AgentType)

	require.Len(t, gw.calls, 2)
	assert.Equal(t, domain.AgentDialogue, gw.calls[0].agent)
	assert.Equal(t, domain.AgentReasoning, gw.calls[1].agent)
	assert.Equal(t, domain.RouteDialogueOnly, gw.calls[0].req.Preference)
	assert.Equal(t, domain.RouteReasoningOnly, gw.calls[1].req.Preference)
}

func TestCollaborationContextPropagation(t *testing.T) {
	gw := &fakeGateway{
		responses: map[domain.AgentType]domain.AgentResponse{
			domain.AgentDialogue:  {Message: "done", AgentType: "DialogueBot", Context: map[string]any{"stage": "dialogue", "result": "r1"}},
			domain.AgentReasoning: {Message: "done", AgentType: "Reasoning"},
		},
	}
	env := newTestEnv(t, gw, &fakeTopicGateway{})

	env.ExecuteWorkflow(CollaborationWorkflow, domain.MultiAgentRequest{
		TaskDescription: "task",
		UserID:          "u1",
		Context:         map[string]any{"stage": "initial", "seed": "s"},
		RequiredCapabilities: []domain.AgentCapability{
			{Name: "intake_process", Description: "collect", SupportedBy: []domain.AgentType{domain.AgentDialogue}},
			{Name: "gap_analysis", Description: "analyze", SupportedBy: []domain.AgentType{domain.AgentReasoning}},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	require.Len(t, gw.calls, 2)
	second := gw.calls[1].req.Context

	// Keys only in step 1's response appear in step 2's effective input.
	assert.Equal(t, "r1", second["result"])
	// Conflicting keys are overwritten by step 1's response value.
	assert.Equal(t, "dialogue", second["stage"])
	// Step 2's own planned context keys survive.
	assert.Equal(t, "s", second["seed"])
}

func TestCollaborationSingleAutomationCapability(t *testing.T) {
	gw := &fakeGateway{
		responses: map[domain.AgentType]domain.AgentResponse{
			domain.AgentAutomation: {Message: "flow triggered", AgentType: "Automation", AgentID: "flow-1"},
		},
	}
	env := newTestEnv(t, gw, &fakeTopicGateway{})

	env.ExecuteWorkflow(CollaborationWorkflow, domain.MultiAgentRequest{
		TaskDescription: "Provision accounts",
		UserID:          "u1",
		RequiredCapabilities: []domain.AgentCapability{
			{Name: "automation", Description: "Provision accounts", SupportedBy: []domain.AgentType{domain.AgentAutomation}},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	var responses []domain.AgentResponse
	require.NoError(t, env.GetWorkflowResult(&responses))
	require.Len(t, responses, 1)
	assert.Equal(t, "Automation", responses[0].AgentType)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, domain.AgentAutomation, gw.calls[0].agent)
}

func TestCollaborationGeneralPlanFromTaskDescription(t *testing.T) {
	gw := &fakeGateway{
		responses: map[domain.AgentType]domain.AgentResponse{
			domain.AgentDialogue:  {Message: "breakdown", AgentType: "DialogueBot"},
			domain.AgentReasoning: {Message: "analysis", AgentType: "Reasoning"},
		},
	}
	env := newTestEnv(t, gw, &fakeTopicGateway{})

	env.ExecuteWorkflow(CollaborationWorkflow, domain.MultiAgentRequest{
		TaskDescription: "analyze our complex support backlog",
		UserID:          "u1",
	})

	require.True(t, env.IsWorkflowCompleted())
	var responses []domain.AgentResponse
	require.NoError(t, env.GetWorkflowResult(&responses))
	require.Len(t, responses, 2)
	assert.Equal(t, domain.AgentDialogue, gw.calls[0].agent)
	assert.Equal(t, domain.AgentReasoning, gw.calls[1].agent)
}

func TestCollaborationMidRunFailureKeepsPartialResults(t *testing.T) {
	gw := &fakeGateway{
		responses: map[domain.AgentType]domain.AgentResponse{
			domain.AgentDialogue: {Message: "step one done", AgentType: "DialogueBot"},
		},
		errs: map[domain.AgentType]error{
			domain.AgentReasoning: errors.New("reasoner offline"),
		},
	}
	env := newTestEnv(t, gw, &fakeTopicGateway{})

	env.ExecuteWorkflow(CollaborationWorkflow, domain.MultiAgentRequest{
		TaskDescription: "task",
		UserID:          "u1",
		RequiredCapabilities: []domain.AgentCapability{
			{Name: "intake_process", Description: "collect", SupportedBy: []domain.AgentType{domain.AgentDialogue}},
			{Name: "gap_analysis", Description: "analyze", SupportedBy: []domain.AgentType{domain.AgentReasoning}},
			{Name: "automation", Description: "provision", SupportedBy: []domain.AgentType{domain.AgentAutomation}},
		},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError(), "mid-run failures must not fail the workflow")

	var responses []domain.AgentResponse
	require.NoError(t, env.GetWorkflowResult(&responses))
	require.Len(t, responses, 2, "one successful step plus one error marker; later steps are skipped")
	assert.Equal(t, "DialogueBot", responses[0].AgentType)
	assert.Equal(t, "Error", responses[1].AgentType)
	assert.NotEmpty(t, responses[1].Context["error"])

	// The automation step never ran.
	assert.Empty(t, gw.callsFor(domain.AgentAutomation))
}
