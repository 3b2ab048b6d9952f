package tool

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/warden/pkg/files"
	"github.com/odvcencio/warden/pkg/policy"
	"github.com/odvcencio/warden/pkg/sandbox"
)

func TestFileTools_WriteThenRead(t *testing.T) {
	registry, root := newTestRegistry(t)
	path := filepath.Join(root, "doc.txt")

	result, err := registry.Execute("write_file", map[string]any{
		"path":    path,
		"content": "line one\nline two\n",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Output, "written to")

	result, err = registry.Execute("read_file", map[string]any{"path": path})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "line one\nline two\n", result.Output)
}

func TestWriteFileTool_DiffPreview(t *testing.T) {
	registry, root := newTestRegistry(t)
	path := filepath.Join(root, "changing.txt")

	_, err := registry.Execute("write_file", map[string]any{"path": path, "content": "old\n"})
	require.NoError(t, err)

	result, err := registry.Execute("write_file", map[string]any{"path": path, "content": "new\n"})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)

	diff, ok := result.Data["diff"].(string)
	require.True(t, ok, "expected a diff preview on overwrite")
	assert.Contains(t, diff, "-old")
	assert.Contains(t, diff, "+new")
}

func TestFileTools_ParameterValidation(t *testing.T) {
	registry, _ := newTestRegistry(t)

	for _, name := range []string{"read_file", "file_info", "delete_file", "list_directory"} {
		result, err := registry.Execute(name, map[string]any{"path": 42})
		require.NoError(t, err, name)
		assert.False(t, result.Success, name)
		assert.Contains(t, result.Error, "must be a string", name)
	}
}

func TestFileTools_DenialSurfacesInResult(t *testing.T) {
	root := t.TempDir()
	blocked := filepath.Join(root, "vault")
	guard := files.NewGuard(policy.NewAccessPolicy([]string{root}, []string{blocked}, 0))
	sb := sandbox.New(policy.DefaultCommandPolicy())
	registry := NewRegistry(guard, sb)

	result, err := registry.Execute("read_file", map[string]any{
		"path": filepath.Join(blocked, "secret"),
	})
	require.NoError(t, err, "policy denials are results, not errors")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Access denied")
	assert.Equal(t, "denied", result.Data["status"])
}

func TestSearchFilesTool(t *testing.T) {
	registry, root := newTestRegistry(t)

	_, err := registry.Execute("write_file", map[string]any{
		"path":    filepath.Join(root, "findme.go"),
		"content": "package main",
	})
	require.NoError(t, err)

	result, err := registry.Execute("search_files", map[string]any{
		"path":    root,
		"pattern": "*.go",
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Output, "findme.go")
}

func TestExecuteCommandTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, err := registry.Execute("execute_command", map[string]any{"command": "echo from tool"})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "from tool", result.Output)
	assert.EqualValues(t, 0, result.Data["exit_code"])
}

func TestExecuteCommandTool_NoOutput(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, err := registry.Execute("execute_command", map[string]any{"command": "true"})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "(command completed with no output)", result.Output)
}

func TestExecuteCommandTool_DeniedCommand(t *testing.T) {
	root := t.TempDir()
	guard := files.NewGuard(policy.NewAccessPolicy([]string{root}, nil, 0))
	sb := sandbox.New(policy.NewCommandPolicy([]string{"echo"}, nil, 5*time.Second, ""))
	registry := NewRegistry(guard, sb)

	result, err := registry.Execute("execute_command", map[string]any{"command": "rm -rf /tmp/x"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "Error (code -1)"), result.Error)
}

func TestExecuteCommandTool_EmptyCommand(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, err := registry.Execute("execute_command", map[string]any{"command": "   "})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "non-empty string")
}
