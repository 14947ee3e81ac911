package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentbridge/internal/domain"
)

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc123")

	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestRootHasSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"worker", "chat", "collab", "topic", "bots", "env", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestParseCapability(t *testing.T) {
	c, err := parseCapability("workflow_design:dialogue+reasoning:Design the approval flow")
	require.NoError(t, err)
	assert.Equal(t, "workflow_design", c.Name)
	assert.Equal(t, []domain.AgentType{domain.AgentDialogue, domain.AgentReasoning}, c.SupportedBy)
	assert.Equal(t, "Design the approval flow", c.Description)
	assert.True(t, c.IsRequired)
}

func TestParseCapabilityWithoutDescription(t *testing.T) {
	c, err := parseCapability("data_automation:automation")
	require.NoError(t, err)
	assert.Equal(t, "data_automation", c.Name)
	assert.Empty(t, c.Description)
}

func TestParseCapabilityInvalid(t *testing.T) {
	for _, spec := range []string{"", "noagents", ":dialogue", "x:notanagent"} {
		_, err := parseCapability(spec)
		assert.Error(t, err, "spec %q should be rejected", spec)
	}
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"step=2", "dept=eng"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"step": "2", "dept": "eng"}, params)
}

func TestParseParamsInvalid(t *testing.T) {
	_, err := parseParams([]string{"missing"})
	assert.Error(t, err)
}

func TestParseParamsEmpty(t *testing.T) {
	params, err := parseParams(nil)
	require.NoError(t, err)
	assert.Nil(t, params)
}
