package orchestration

import (
	"context"
	"sync"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"agentbridge/internal/domain"
	"agentbridge/internal/planner"
	"agentbridge/internal/routing"
	"agentbridge/internal/topic"
)

// executedCall records one gateway invocation for assertions.
type executedCall struct {
	agent domain.AgentType
	req   domain.ConversationRequest
}

// fakeGateway is a scripted AgentExecutionGateway.
type fakeGateway struct {
	mu        sync.Mutex
	responses map[domain.AgentType]domain.AgentResponse
	errs      map[domain.AgentType]error
	calls     []executedCall
}

func (f *fakeGateway) Execute(_ context.Context, agent domain.AgentType, req domain.ConversationRequest) (domain.AgentResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, executedCall{agent: agent, req: req})
	f.mu.Unlock()

	if err, ok := f.errs[agent]; ok {
		return domain.AgentResponse{}, err
	}
	return f.responses[agent], nil
}

func (f *fakeGateway) callsFor(agent domain.AgentType) []executedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []executedCall
	for _, c := range f.calls {
		if c.agent == agent {
			out = append(out, c)
		}
	}
	return out
}

// fakeTopicGateway returns one canned response for start/continue.
type fakeTopicGateway struct {
	resp domain.AgentResponse
	err  error
}

func (f *fakeTopicGateway) StartTopic(_ context.Context, _, _ string, _ map[string]any) (domain.AgentResponse, error) {
	return f.resp, f.err
}

func (f *fakeTopicGateway) ContinueTopic(_ context.Context, _, _ string, _ map[string]any) (domain.AgentResponse, error) {
	return f.resp, f.err
}

// newTestEnv builds a workflow test environment with real decision
// components and the given fake gateways.
func newTestEnv(t *testing.T, gw domain.AgentExecutionGateway, tg domain.TopicGateway) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	acts := NewActivities(
		routing.NewEngine(),
		planner.NewPlanner(),
		topic.NewManager(tg, nil),
		gw,
		nil,
	)
	env.RegisterActivity(acts)
	return env
}
