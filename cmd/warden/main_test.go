package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, root string) string {
	t.Helper()
	content := `
system:
  log_dir: ""
tools:
  terminal:
    allowed_commands: [echo, sh]
    timeout: 10
  files:
    allowed_paths: ["` + root + `"]
`
	path := filepath.Join(root, "warden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Version(t *testing.T) {
	assert.Equal(t, 0, run([]string{"-version"}))
}

func TestRun_NoArguments(t *testing.T) {
	assert.Equal(t, 2, run(nil))
}

func TestRun_UnknownCommand(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	assert.Equal(t, 2, run([]string{"-config", cfg, "frobnicate"}))
}

func TestRun_WriteAndRead(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)
	target := filepath.Join(root, "note.txt")

	assert.Equal(t, 0, run([]string{"-config", cfg, "write", target, "hello"}))
	assert.Equal(t, 0, run([]string{"-config", cfg, "read", target}))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRun_ReadMissingFile(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	assert.Equal(t, 1, run([]string{"-config", cfg, "read", filepath.Join(root, "absent.txt")}))
}

func TestRun_ExecAllowedAndDenied(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	assert.Equal(t, 0, run([]string{"-config", cfg, "exec", "echo", "hi"}))
	assert.Equal(t, 1, run([]string{"-config", cfg, "exec", "rm", "-rf", "/"}))
}

func TestRun_Tools(t *testing.T) {
	root := t.TempDir()
	cfg := writeTestConfig(t, root)

	assert.Equal(t, 0, run([]string{"-config", cfg, "tools"}))
}

func TestRun_MissingConfigFile(t *testing.T) {
	assert.Equal(t, 1, run([]string{"-config", filepath.Join(t.TempDir(), "absent.yaml"), "ls"}))
}
