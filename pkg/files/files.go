// Package files implements the filesystem access guard: read, write, list,
// search, inspect, and delete operations gated by an AccessPolicy. Every
// operation resolves its target through the policy before touching the disk
// and reports its outcome as a tagged Result, never as a panic or a raw
// error for expected failure modes.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/warden/pkg/policy"
)

// searchLimit caps recursive search results before the traversal stops.
const searchLimit = 100

var errStopWalk = errors.New("walk stopped")

// Guard gates filesystem operations with an access policy. A Guard holds no
// mutable state and is safe for concurrent use.
type Guard struct {
	policy policy.AccessPolicy
}

// NewGuard creates a filesystem guard over the given policy.
func NewGuard(p policy.AccessPolicy) *Guard {
	return &Guard{policy: p}
}

// Read returns the file content, truncated to maxLines when positive.
// Invalid byte sequences are replaced rather than failing the read.
func (g *Guard) Read(path string, maxLines int) Result {
	canonical, dec := g.policy.Resolve(path)
	if !dec.Allowed {
		return denied(dec.Reason)
	}

	info, err := os.Stat(canonical)
	if os.IsNotExist(err) {
		return Result{Status: StatusNotFound, Text: fmt.Sprintf("File not found: %s", path)}
	}
	if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error reading file: %v", err)}
	}
	if info.IsDir() {
		return Result{Status: StatusInvalidTarget, Text: fmt.Sprintf("Not a file: %s", path)}
	}
	if info.Size() > g.policy.MaxFileSize() {
		return Result{Status: StatusSizeExceeded, Text: fmt.Sprintf("File too large (max %d bytes)", g.policy.MaxFileSize())}
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error reading file: %v", err)}
	}
	content := strings.ToValidUTF8(string(data), "�")

	if maxLines > 0 {
		lines := strings.Split(content, "\n")
		count := len(lines)
		if count > 0 && lines[count-1] == "" {
			count-- // trailing newline is not an extra line
		}
		if count > maxLines {
			content = strings.Join(lines[:maxLines], "\n") +
				fmt.Sprintf("\n... (truncated at %d lines)", maxLines)
		}
	}

	return ok(content)
}

// Write stores content at path, creating parent directories as needed.
// With appendMode the content is appended instead of overwriting.
func (g *Guard) Write(path, content string, appendMode bool) Result {
	canonical, dec := g.policy.Resolve(path)
	if !dec.Allowed {
		return denied(dec.Reason)
	}

	if int64(len(content)) > g.policy.MaxFileSize() {
		return Result{Status: StatusSizeExceeded, Text: fmt.Sprintf("Content too large (max %d bytes)", g.policy.MaxFileSize())}
	}

	if err := os.MkdirAll(filepath.Dir(canonical), 0o755); err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error writing file: %v", err)}
	}

	if appendMode {
		f, err := os.OpenFile(canonical, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return Result{Status: StatusError, Text: fmt.Sprintf("Error writing file: %v", err)}
		}
		_, err = f.WriteString(content)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return Result{Status: StatusError, Text: fmt.Sprintf("Error writing file: %v", err)}
		}
		return ok(fmt.Sprintf("Successfully appended to %s", path))
	}

	if err := os.WriteFile(canonical, []byte(content), 0o644); err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error writing file: %v", err)}
	}
	return ok(fmt.Sprintf("Successfully written to %s", path))
}

// List renders the directory entries, directories first, then files in
// case-insensitive name order. Directories get a <DIR> size column and a
// trailing separator. An optional glob pattern filters entry names.
func (g *Guard) List(path, pattern string) Result {
	canonical, dec := g.policy.Resolve(path)
	if !dec.Allowed {
		return denied(dec.Reason)
	}

	info, err := os.Stat(canonical)
	if os.IsNotExist(err) {
		return Result{Status: StatusNotFound, Text: fmt.Sprintf("Directory not found: %s", path)}
	}
	if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error listing directory: %v", err)}
	}
	if !info.IsDir() {
		return Result{Status: StatusInvalidTarget, Text: fmt.Sprintf("Not a directory: %s", path)}
	}

	if pattern != "" {
		if _, matchErr := filepath.Match(pattern, "x"); matchErr != nil {
			return Result{Status: StatusError, Text: fmt.Sprintf("Invalid pattern '%s': %v", pattern, matchErr)}
		}
	}

	entries, err := os.ReadDir(canonical)
	if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error listing directory: %v", err)}
	}

	filtered := entries[:0:0]
	for _, entry := range entries {
		if pattern != "" {
			if match, _ := filepath.Match(pattern, entry.Name()); !match {
				continue
			}
		}
		filtered = append(filtered, entry)
	}

	if len(filtered) == 0 {
		return ok(fmt.Sprintf("Directory is empty: %s", path))
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		di, dj := filtered[i].IsDir(), filtered[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(filtered[i].Name()) < strings.ToLower(filtered[j].Name())
	})

	lines := []string{fmt.Sprintf("Contents of %s:", path), ""}
	for _, entry := range filtered {
		entryInfo, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		sizeStr := "<DIR>"
		suffix := "/"
		if !entry.IsDir() {
			sizeStr = formatListSize(entryInfo.Size())
			suffix = ""
		}
		lines = append(lines, fmt.Sprintf("  %10s  %s%s", sizeStr, entry.Name(), suffix))
	}

	return ok(strings.Join(lines, "\n"))
}

// Search walks the tree under base collecting files whose name matches the
// glob pattern, optionally requiring a case-insensitive content match.
// Every discovered path is re-checked against the policy since symlinks can
// escape the base; subtrees that fail the check are pruned. Results are
// capped at searchLimit with a truncation marker.
func (g *Guard) Search(base, namePattern, contentSubstring string) Result {
	canonical, dec := g.policy.Resolve(base)
	if !dec.Allowed {
		return denied(dec.Reason)
	}

	if _, err := os.Stat(canonical); os.IsNotExist(err) {
		return Result{Status: StatusNotFound, Text: fmt.Sprintf("Path not found: %s", base)}
	} else if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error searching files: %v", err)}
	}

	if _, err := filepath.Match(namePattern, "x"); err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Invalid pattern '%s': %v", namePattern, err)}
	}

	contentLower := strings.ToLower(contentSubstring)
	var matches []string

	err := filepath.WalkDir(canonical, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == canonical {
				return nil
			}
			if !g.policy.CheckPath(path).Allowed {
				return fs.SkipDir
			}
			return nil
		}

		if match, _ := filepath.Match(namePattern, d.Name()); !match {
			return nil
		}
		// Traversal can cross symlinks out of the base; re-validate each hit.
		if !g.policy.CheckPath(path).Allowed {
			return nil
		}

		if contentSubstring != "" {
			info, infoErr := d.Info()
			if infoErr != nil || info.Size() > g.policy.MaxFileSize() {
				return nil
			}
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil
			}
			if !strings.Contains(strings.ToLower(string(data)), contentLower) {
				return nil
			}
		}

		matches = append(matches, path)
		if len(matches) >= searchLimit {
			matches = append(matches, fmt.Sprintf("... (truncated at %d results)", searchLimit))
			return errStopWalk
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error searching files: %v", err)}
	}

	if len(matches) == 0 {
		text := fmt.Sprintf("No files found matching '%s'", namePattern)
		if contentSubstring != "" {
			text += fmt.Sprintf(" containing '%s'", contentSubstring)
		}
		return ok(text)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d file(s):", len(matches))
	for _, m := range matches {
		sb.WriteString("\n  ")
		sb.WriteString(m)
	}
	return ok(sb.String())
}

// Inspect returns the rendered FileDescriptor for the target.
func (g *Guard) Inspect(path string) Result {
	canonical, dec := g.policy.Resolve(path)
	if !dec.Allowed {
		return denied(dec.Reason)
	}

	info, err := os.Stat(canonical)
	if os.IsNotExist(err) {
		return Result{Status: StatusNotFound, Text: fmt.Sprintf("File not found: %s", path)}
	}
	if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error getting file info: %v", err)}
	}

	desc := FileDescriptor{
		Path:      canonical,
		Name:      info.Name(),
		SizeBytes: info.Size(),
		IsDir:     info.IsDir(),
		Extension: filepath.Ext(info.Name()),
		Modified:  info.ModTime(),
	}
	return ok(desc.render())
}

// Delete removes a file, or a directory recursively, reporting which kind
// was removed.
func (g *Guard) Delete(path string) Result {
	canonical, dec := g.policy.Resolve(path)
	if !dec.Allowed {
		return denied(dec.Reason)
	}

	info, err := os.Stat(canonical)
	if os.IsNotExist(err) {
		return Result{Status: StatusNotFound, Text: fmt.Sprintf("File not found: %s", path)}
	}
	if err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error deleting: %v", err)}
	}

	if info.IsDir() {
		if err := os.RemoveAll(canonical); err != nil {
			return Result{Status: StatusError, Text: fmt.Sprintf("Error deleting: %v", err)}
		}
		return ok(fmt.Sprintf("Deleted directory: %s", path))
	}

	if err := os.Remove(canonical); err != nil {
		return Result{Status: StatusError, Text: fmt.Sprintf("Error deleting: %v", err)}
	}
	return ok(fmt.Sprintf("Deleted file: %s", path))
}

func formatListSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%dB", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(size)/1024/1024)
	}
}
