package tool

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/warden/pkg/errors"
	"github.com/odvcencio/warden/pkg/files"
	"github.com/odvcencio/warden/pkg/logging"
	"github.com/odvcencio/warden/pkg/policy"
	"github.com/odvcencio/warden/pkg/sandbox"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	root := t.TempDir()
	guard := files.NewGuard(policy.NewAccessPolicy([]string{root}, nil, 0))
	sb := sandbox.New(policy.NewCommandPolicy(nil, nil, 10*time.Second, ""))
	return NewRegistry(guard, sb), root
}

func TestRegistry_RegistersAllGuardTools(t *testing.T) {
	registry, _ := newTestRegistry(t)

	expected := []string{
		"delete_file",
		"execute_command",
		"file_info",
		"list_directory",
		"read_file",
		"search_files",
		"write_file",
	}

	tools := registry.List()
	require.Len(t, tools, len(expected))
	for i, tool := range tools {
		assert.Equal(t, expected[i], tool.Name())
	}

	for _, name := range expected {
		_, ok := registry.Get(name)
		assert.True(t, ok, name)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	registry := NewEmptyRegistry()

	_, err := registry.Execute("nope", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeToolNotFound))
}

func TestRegistry_ExecuteLogsInvocations(t *testing.T) {
	registry, root := newTestRegistry(t)

	logDir := t.TempDir()
	logger, err := logging.NewLogger(logDir, "reg-test")
	require.NoError(t, err)
	defer logger.Close()
	registry.SetLogger(logger)

	result, err := registry.Execute("write_file", map[string]any{
		"path":    filepath.Join(root, "a.txt"),
		"content": "hi",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	events, err := logging.ReadRecentEvents(filepath.Join(logDir, "sessions", "reg-test.jsonl"), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "tool_executed", events[0].EventType)
	assert.Equal(t, "write_file", events[0].Details["tool"])
	assert.NotEmpty(t, events[0].Details["call_id"])
}

func TestRegistry_ToOpenAIFunctions(t *testing.T) {
	registry, _ := newTestRegistry(t)

	functions := registry.ToOpenAIFunctions()
	require.Len(t, functions, 7)

	first := functions[0]
	assert.Equal(t, "function", first["type"])
	fn, ok := first["function"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "delete_file", fn["name"])
	assert.NotEmpty(t, fn["description"])
}

func TestToJSONRoundTrip(t *testing.T) {
	in := &Result{Success: true, Output: "hello", Data: map[string]any{"status": "ok"}}

	encoded, err := ToJSON(in)
	require.NoError(t, err)

	out, err := FromJSON(encoded)
	require.NoError(t, err)
	assert.Equal(t, in.Success, out.Success)
	assert.Equal(t, in.Output, out.Output)
}
