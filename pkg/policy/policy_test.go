package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicy_CheckPath_AllowedAndBlocked(t *testing.T) {
	root := t.TempDir()
	blocked := filepath.Join(root, "secrets")
	require.NoError(t, os.MkdirAll(blocked, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "work"), 0o755))

	p := NewAccessPolicy([]string{root}, []string{blocked}, 0)

	dec := p.CheckPath(filepath.Join(root, "work", "notes.txt"))
	assert.True(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "allowed directory")

	dec = p.CheckPath(filepath.Join(blocked, "key.pem"))
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "blocked directory")
}

func TestAccessPolicy_CheckPath_BlockedWinsOverAllowed(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "private")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	// nested is under the allowed root and explicitly blocked
	p := NewAccessPolicy([]string{root}, []string{nested}, 0)

	dec := p.CheckPath(filepath.Join(nested, "file.txt"))
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "blocked directory")
}

func TestAccessPolicy_CheckPath_SegmentExactContainment(t *testing.T) {
	root := t.TempDir()
	etc := filepath.Join(root, "etc")
	etc2 := filepath.Join(root, "etc2")
	require.NoError(t, os.MkdirAll(etc, 0o755))
	require.NoError(t, os.MkdirAll(etc2, 0o755))

	p := NewAccessPolicy([]string{root}, []string{etc}, 0)

	assert.False(t, p.CheckPath(filepath.Join(etc, "passwd")).Allowed)
	// etc2 shares a textual prefix with etc but is a different directory
	assert.True(t, p.CheckPath(filepath.Join(etc2, "passwd")).Allowed)
}

func TestAccessPolicy_CheckPath_OutsideAllowedSet(t *testing.T) {
	allowed := t.TempDir()
	other := t.TempDir()

	p := NewAccessPolicy([]string{allowed}, nil, 0)

	dec := p.CheckPath(filepath.Join(other, "file.txt"))
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "not within any allowed directory")
}

func TestAccessPolicy_CheckPath_InvalidPath(t *testing.T) {
	p := NewAccessPolicy([]string{t.TempDir()}, nil, 0)

	dec := p.CheckPath("   ")
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "invalid path")
}

func TestAccessPolicy_CheckPath_SymlinkEscape(t *testing.T) {
	allowed := t.TempDir()
	outside := t.TempDir()

	link := filepath.Join(allowed, "link")
	require.NoError(t, os.Symlink(outside, link))

	p := NewAccessPolicy([]string{allowed}, nil, 0)

	// The link lives under the allowed root but resolves outside it.
	dec := p.CheckPath(filepath.Join(link, "file.txt"))
	assert.False(t, dec.Allowed)
}

func TestAccessPolicy_ResolvePendingWriteTarget(t *testing.T) {
	allowed := t.TempDir()
	p := NewAccessPolicy([]string{allowed}, nil, 0)

	// Neither the file nor its parent exists yet.
	canonical, dec := p.Resolve(filepath.Join(allowed, "new", "dir", "file.txt"))
	assert.True(t, dec.Allowed)
	assert.Contains(t, canonical, filepath.Join("new", "dir", "file.txt"))
}

func TestAccessPolicy_Defaults(t *testing.T) {
	p := DefaultAccessPolicy()

	assert.Equal(t, int64(DefaultMaxFileSize), p.MaxFileSize())
	assert.NotEmpty(t, p.AllowedPaths())
	assert.NotEmpty(t, p.BlockedPaths())
}

func TestCommandPolicy_CheckCommand_BlockedPatterns(t *testing.T) {
	p := DefaultCommandPolicy()

	tests := []struct {
		command string
		allowed bool
	}{
		{"ls -la", true},
		{"rm -rf /", false},
		{"echo hello && rm -rf /*", false},
		{"dd if=/dev/zero of=/dev/sda", false},
		{"mkfs.ext4 /dev/sda1", false},
		{"cat file.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			dec := p.CheckCommand(tt.command)
			assert.Equal(t, tt.allowed, dec.Allowed, "reason: %s", dec.Reason)
		})
	}
}

func TestCommandPolicy_CheckCommand_EmptyAllowListPermitsAll(t *testing.T) {
	p := NewCommandPolicy(nil, nil, time.Second, "")

	dec := p.CheckCommand("some-unusual-binary --flag")
	assert.True(t, dec.Allowed)
	assert.Equal(t, "no restrictions", dec.Reason)
}

func TestCommandPolicy_CheckCommand_AllowList(t *testing.T) {
	p := NewCommandPolicy([]string{"ls", "echo"}, nil, time.Second, "")

	tests := []struct {
		command string
		allowed bool
	}{
		{"ls -la /tmp", true},
		{"/bin/ls -la", true},
		{"/usr/local/bin/echo hi", true},
		{"rm file.txt", false},
		{"lsblk", false},
		{"'my program' arg", false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			dec := p.CheckCommand(tt.command)
			assert.Equal(t, tt.allowed, dec.Allowed, "reason: %s", dec.Reason)
		})
	}
}

func TestCommandPolicy_CheckCommand_BlockedBeatsAllowed(t *testing.T) {
	p := NewCommandPolicy([]string{"rm"}, []string{"rm -rf"}, time.Second, "")

	assert.True(t, p.CheckCommand("rm file.txt").Allowed)
	assert.False(t, p.CheckCommand("rm -rf dir").Allowed)
}

func TestCommandPolicy_CheckCommand_EmptyCommand(t *testing.T) {
	p := NewCommandPolicy([]string{"ls"}, nil, time.Second, "")

	dec := p.CheckCommand("")
	assert.False(t, dec.Allowed)
	assert.Equal(t, "empty command", dec.Reason)
}

func TestCommandPolicy_CheckCommand_UnbalancedQuote(t *testing.T) {
	p := NewCommandPolicy([]string{"ls"}, nil, time.Second, "")

	dec := p.CheckCommand(`ls "unterminated`)
	assert.False(t, dec.Allowed)
	assert.Contains(t, dec.Reason, "invalid command")
}

func TestCommandPolicy_Defaults(t *testing.T) {
	p := NewCommandPolicy(nil, nil, 0, "  ")

	assert.Equal(t, DefaultCommandTimeout, p.Timeout())
	assert.Empty(t, p.WorkingDir())
}

func TestCanonicalize_RelativeSegments(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	canonical, err := Canonicalize(filepath.Join(dir, "a", "..", "a", "b"))
	require.NoError(t, err)

	expected, err := filepath.EvalSymlinks(sub)
	require.NoError(t, err)
	assert.Equal(t, expected, canonical)
}
