package sandbox

import (
	"context"
	"fmt"
	"strings"
)

// Convenience wrappers for common read-only operations. Each one builds a
// quoted command string and delegates to Execute; no policy logic lives here.
// Every user-supplied argument is shell-quoted so the wrapper itself cannot
// become an injection vector.

// ListDirectory lists a directory via ls -la.
func (s *Sandbox) ListDirectory(ctx context.Context, path string) *ExecutionResult {
	if path == "" {
		path = "."
	}
	return s.Execute(ctx, "ls -la "+quoteArg(path))
}

// ReadFile reads a file via cat, or head -n when lines is positive.
func (s *Sandbox) ReadFile(ctx context.Context, path string, lines int) *ExecutionResult {
	if lines > 0 {
		return s.Execute(ctx, fmt.Sprintf("head -n %d %s", lines, quoteArg(path)))
	}
	return s.Execute(ctx, "cat "+quoteArg(path))
}

// FindFiles finds files under path whose name matches pattern.
func (s *Sandbox) FindFiles(ctx context.Context, pattern, path string) *ExecutionResult {
	if path == "" {
		path = "."
	}
	return s.Execute(ctx, fmt.Sprintf("find %s -name %s", quoteArg(path), quoteArg(pattern)))
}

// Grep searches recursively for pattern under path.
func (s *Sandbox) Grep(ctx context.Context, pattern, path string) *ExecutionResult {
	return s.Execute(ctx, fmt.Sprintf("grep -r %s %s", quoteArg(pattern), quoteArg(path)))
}

// Processes lists running processes.
func (s *Sandbox) Processes(ctx context.Context) *ExecutionResult {
	return s.Execute(ctx, "ps aux")
}

// DiskUsage reports disk usage for path.
func (s *Sandbox) DiskUsage(ctx context.Context, path string) *ExecutionResult {
	if path == "" {
		path = "/"
	}
	return s.Execute(ctx, "df -h "+quoteArg(path))
}

// MemoryUsage reports memory usage.
func (s *Sandbox) MemoryUsage(ctx context.Context) *ExecutionResult {
	return s.Execute(ctx, "free -h")
}

func quoteArg(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
