//go:build windows

package sandbox

import (
	"context"
	"os/exec"
	"time"
)

// shellCommandContext returns the shell command for Windows systems with context.
func shellCommandContext(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd", "/c", command)
}

// setSysProcAttr sets Windows-specific process attributes. Process groups are
// not available, so the default kill is kept and WaitDelay stops Wait from
// hanging on pipes held by orphaned children.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.WaitDelay = time.Second
}
