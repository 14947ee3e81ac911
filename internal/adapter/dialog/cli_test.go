package dialog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentbridge/internal/domain"
)

// fakeCLI writes a shell script that emulates the admin CLI binary.
func fakeCLI(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake CLI script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "pac")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestCLIListBots(t *testing.T) {
	bin := fakeCLI(t, `
if [ "$1" = "chatbot" ] && [ "$2" = "list" ]; then
  echo '[{"ChatbotId":"b1","DisplayName":"Helpdesk","State":"Published"},{"ChatbotId":"b2","DisplayName":"HR","State":"Draft"}]'
  exit 0
fi
exit 1
`)
	cli := NewCLI(bin, "https://env.example.com", 0, nil)

	bots, err := cli.ListBots(context.Background())
	require.NoError(t, err)
	require.Len(t, bots, 2)
	assert.Equal(t, "b1", bots[0].ID)
	assert.Equal(t, "Helpdesk", bots[0].Name)
	assert.Equal(t, "Draft", bots[1].State)
}

func TestCLIListBotsEmptyOutput(t *testing.T) {
	bin := fakeCLI(t, "exit 0")
	cli := NewCLI(bin, "https://env.example.com", 0, nil)

	bots, err := cli.ListBots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bots)
}

func TestCLIListBotsCommandFailure(t *testing.T) {
	bin := fakeCLI(t, `echo "not authenticated" >&2; exit 1`)
	cli := NewCLI(bin, "https://env.example.com", 0, nil)

	_, err := cli.ListBots(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProviderError))
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestCLIBotDetails(t *testing.T) {
	bin := fakeCLI(t, `
if [ "$1" = "chatbot" ] && [ "$2" = "show" ]; then
  echo '{"ChatbotId":"b1","DisplayName":"Helpdesk","Language":1033}'
  exit 0
fi
exit 1
`)
	cli := NewCLI(bin, "https://env.example.com", 0, nil)

	details, err := cli.BotDetails(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Helpdesk", details["DisplayName"])
}

func TestCLIBotDetailsRequiresID(t *testing.T) {
	cli := NewCLI("pac", "https://env.example.com", 0, nil)

	_, err := cli.BotDetails(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCLIAuthenticated(t *testing.T) {
	bin := fakeCLI(t, `
if [ "$1" = "auth" ] && [ "$2" = "list" ]; then
  echo "Index Active Kind  Name"
  echo "[1]   *      UNIVERSAL dev"
  exit 0
fi
exit 1
`)
	cli := NewCLI(bin, "https://env.example.com", 0, nil)
	assert.True(t, cli.Authenticated(context.Background()))
}

func TestCLINotAuthenticated(t *testing.T) {
	bin := fakeCLI(t, "exit 0")
	cli := NewCLI(bin, "https://env.example.com", 0, nil)
	assert.False(t, cli.Authenticated(context.Background()))
}

func TestCLIAuthenticateRequiresTenant(t *testing.T) {
	cli := NewCLI("pac", "https://env.example.com", 0, nil)

	err := cli.Authenticate(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCLIDefaultsBinaryName(t *testing.T) {
	cli := NewCLI("", "https://env.example.com", 0, nil)
	assert.Equal(t, "pac", cli.binary)
}

func TestCLIDefaultsTimeout(t *testing.T) {
	cli := NewCLI("pac", "https://env.example.com", 0, nil)
	assert.Equal(t, defaultCLITimeout, cli.timeout)
}

func TestCLIConfiguredTimeout(t *testing.T) {
	bin := fakeCLI(t, "sleep 5")
	cli := NewCLI(bin, "https://env.example.com", 50*time.Millisecond, nil)

	_, err := cli.ListBots(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}
