// Package policy defines the immutable value objects that gate filesystem
// and command access, together with the two leaf checks the guards consume:
// path containment and command matching. Policies are fully resolved at
// construction and never mutated, so a single instance is safe for
// concurrent use.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	shellwords "github.com/mattn/go-shellwords"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

// AccessPolicy restricts which filesystem paths operations may target.
// Both path sets are canonicalized once at construction so later containment
// checks are pure prefix tests.
type AccessPolicy struct {
	allowedPaths []string
	blockedPaths []string
	maxFileSize  int64
}

// DefaultMaxFileSize is the read/write size ceiling when none is configured.
const DefaultMaxFileSize = 10 * 1024 * 1024

// NewAccessPolicy builds an access policy from raw path lists. Paths that
// cannot be resolved are kept in cleaned absolute form so a blocked entry
// never silently disappears from the blocklist.
func NewAccessPolicy(allowedPaths, blockedPaths []string, maxFileSize int64) AccessPolicy {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return AccessPolicy{
		allowedPaths: resolveAll(allowedPaths),
		blockedPaths: resolveAll(blockedPaths),
		maxFileSize:  maxFileSize,
	}
}

// DefaultAccessPolicy mirrors the stock configuration: the user's home
// directory and /tmp are writable, system directories are blocked.
func DefaultAccessPolicy() AccessPolicy {
	home, _ := os.UserHomeDir()
	allowed := []string{"/tmp"}
	if home != "" {
		allowed = append([]string{home}, allowed...)
	}
	return NewAccessPolicy(allowed, []string{
		"/etc", "/boot", "/root", "/sys", "/proc", "/dev",
	}, DefaultMaxFileSize)
}

// MaxFileSize returns the configured size ceiling in bytes.
func (p AccessPolicy) MaxFileSize() int64 {
	return p.maxFileSize
}

// AllowedPaths returns a copy of the canonical allowed directories.
func (p AccessPolicy) AllowedPaths() []string {
	return append([]string{}, p.allowedPaths...)
}

// BlockedPaths returns a copy of the canonical blocked directories.
func (p AccessPolicy) BlockedPaths() []string {
	return append([]string{}, p.blockedPaths...)
}

// CheckPath reports whether the candidate path may be accessed.
func (p AccessPolicy) CheckPath(path string) Decision {
	_, dec := p.Resolve(path)
	return dec
}

// Resolve canonicalizes the candidate and tests it against the blocked set
// first, then the allowed set. Blocked always wins, even for paths nested
// under both. The canonical path is returned so guards operate on the same
// path the decision was made about.
func (p AccessPolicy) Resolve(path string) (string, Decision) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return "", Decision{Allowed: false, Reason: fmt.Sprintf("invalid path: %v", err)}
	}

	for _, blocked := range p.blockedPaths {
		if isContained(blocked, canonical) {
			return canonical, Decision{
				Allowed: false,
				Reason:  fmt.Sprintf("path is in blocked directory: %s", blocked),
			}
		}
	}

	for _, allowed := range p.allowedPaths {
		if isContained(allowed, canonical) {
			return canonical, Decision{
				Allowed: true,
				Reason:  fmt.Sprintf("path is within allowed directory: %s", allowed),
			}
		}
	}

	return canonical, Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("path is not within any allowed directory: %v", p.allowedPaths),
	}
}

// CommandPolicy restricts which shell commands may be executed and bounds
// their runtime.
type CommandPolicy struct {
	allowedCommands []string
	blockedPatterns []string
	timeout         time.Duration
	workingDir      string
}

// DefaultCommandTimeout bounds command execution when none is configured.
const DefaultCommandTimeout = 30 * time.Second

// NewCommandPolicy builds a command policy. An empty allowed list permits
// every command that survives the blocklist.
func NewCommandPolicy(allowedCommands, blockedPatterns []string, timeout time.Duration, workingDir string) CommandPolicy {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return CommandPolicy{
		allowedCommands: append([]string{}, allowedCommands...),
		blockedPatterns: append([]string{}, blockedPatterns...),
		timeout:         timeout,
		workingDir:      strings.TrimSpace(workingDir),
	}
}

// DefaultCommandPolicy allows everything except a blocklist of commands that
// can destroy the host.
func DefaultCommandPolicy() CommandPolicy {
	return NewCommandPolicy(nil, []string{
		"rm -rf /",
		"rm -rf /*",
		"dd if=",
		"mkfs",
		"fdisk",
		":(){:|:&};:",
		"> /dev/sd",
		"chmod -R 777 /",
	}, DefaultCommandTimeout, "")
}

// Timeout returns the wall-clock execution bound.
func (p CommandPolicy) Timeout() time.Duration {
	return p.timeout
}

// WorkingDir returns the directory commands run in, empty for inherit.
func (p CommandPolicy) WorkingDir() string {
	return p.workingDir
}

// AllowedCommands returns a copy of the allowed command entries.
func (p CommandPolicy) AllowedCommands() []string {
	return append([]string{}, p.allowedCommands...)
}

// BlockedPatterns returns a copy of the blocked substring patterns.
func (p CommandPolicy) BlockedPatterns() []string {
	return append([]string{}, p.blockedPatterns...)
}

// CheckCommand reports whether the raw command line may be executed.
//
// The blocklist is matched as literal substrings over the whole command line,
// not over tokens: a blocked sequence cannot be evaded by embedding it in a
// longer line, at the cost of false positives on unrelated text. The allow
// list, by contrast, is matched against the first shell word so quoting and
// escaping are honored.
func (p CommandPolicy) CheckCommand(command string) Decision {
	for _, blocked := range p.blockedPatterns {
		if blocked != "" && strings.Contains(command, blocked) {
			return Decision{
				Allowed: false,
				Reason:  fmt.Sprintf("command contains blocked pattern: %s", blocked),
			}
		}
	}

	if len(p.allowedCommands) == 0 {
		return Decision{Allowed: true, Reason: "no restrictions"}
	}

	tokens, err := shellwords.Parse(command)
	if err != nil {
		return Decision{Allowed: false, Reason: fmt.Sprintf("invalid command: %v", err)}
	}
	if len(tokens) == 0 {
		return Decision{Allowed: false, Reason: "empty command"}
	}

	base := tokens[0]
	for _, allowed := range p.allowedCommands {
		if base == allowed || strings.HasSuffix(base, "/"+allowed) {
			return Decision{
				Allowed: true,
				Reason:  fmt.Sprintf("command %q is in allowed list", base),
			}
		}
	}

	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("command %q is not in allowed list: %v", base, p.allowedCommands),
	}
}

func resolveAll(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, raw := range paths {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		canonical, err := Canonicalize(raw)
		if err != nil {
			if abs, absErr := filepath.Abs(raw); absErr == nil {
				resolved = append(resolved, filepath.Clean(abs))
			}
			continue
		}
		resolved = append(resolved, canonical)
	}
	return resolved
}
