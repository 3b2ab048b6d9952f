//go:build !windows

package sandbox

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// shellCommandContext returns the shell command for Unix systems with context.
func shellCommandContext(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// setSysProcAttr sets Unix-specific process attributes. The command runs in
// its own process group and cancellation kills the whole group: killing only
// the shell would leave orphaned grandchildren holding the output pipes, and
// Wait would block on them long past the deadline. WaitDelay bounds the pipe
// drain for anything that survives the group kill.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = time.Second
}
