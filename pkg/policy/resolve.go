package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize resolves a path to absolute form with symlinks followed and
// relative segments removed. Components that do not exist yet are kept
// verbatim after resolving the deepest existing ancestor, so targets of
// pending writes still canonicalize. Symlink loops and other resolution
// faults are reported as errors.
func Canonicalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}
	return evalSymlinksPartial(filepath.Clean(abs))
}

func evalSymlinksPartial(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return filepath.Clean(resolved), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	dir := filepath.Dir(path)
	if dir == path {
		return "", err
	}
	resolvedDir, dirErr := evalSymlinksPartial(dir)
	if dirErr != nil {
		return "", dirErr
	}
	return filepath.Join(resolvedDir, filepath.Base(path)), nil
}

// isContained reports whether target equals base or is a descendant of it.
// The test is segment-exact: /etc2 is not contained in /etc.
func isContained(base, target string) bool {
	base = filepath.Clean(strings.TrimSpace(base))
	target = filepath.Clean(strings.TrimSpace(target))
	if base == "" || target == "" {
		return false
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	rel = filepath.Clean(rel)
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
