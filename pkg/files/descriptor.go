package files

import (
	"fmt"
	"time"
)

// FileDescriptor captures the metadata returned by Inspect. It is built fresh
// per call and never persisted.
type FileDescriptor struct {
	Path      string
	Name      string
	SizeBytes int64
	IsDir     bool
	Extension string
	Modified  time.Time
}

// HumanSize formats the size through a fixed unit ladder, dividing by 1024
// until the value drops below 1024 or the ladder is exhausted.
func (d FileDescriptor) HumanSize() string {
	size := float64(d.SizeBytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

func (d FileDescriptor) render() string {
	kind := "Directory"
	if !d.IsDir {
		ext := d.Extension
		if ext == "" {
			ext = "no extension"
		}
		kind = fmt.Sprintf("File (%s)", ext)
	}
	return fmt.Sprintf("File: %s\nPath: %s\nType: %s\nSize: %s\nModified: %s",
		d.Name, d.Path, kind, d.HumanSize(), d.Modified.Format("2006-01-02 15:04:05"))
}
