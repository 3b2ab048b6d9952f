package tool

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/odvcencio/warden/pkg/files"
)

// ReadFileTool reads a file through the filesystem guard
type ReadFileTool struct {
	guard *files.Guard
}

func (t *ReadFileTool) Name() string {
	return "read_file"
}

func (t *ReadFileTool) Description() string {
	return "Read the contents of a file. Returns the file contents or an error message."
}

func (t *ReadFileTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"path": {
				Type:        "string",
				Description: "Path to the file to read",
			},
			"max_lines": {
				Type:        "integer",
				Description: "Maximum number of lines to return (0 = no limit)",
				Default:     0,
			},
		},
		Required: []string{"path"},
	}
}

func (t *ReadFileTool) Execute(params map[string]any) (*Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return &Result{Success: false, Error: "path parameter must be a string"}, nil
	}
	maxLines := intParam(params, "max_lines", 0)

	return fromGuardResult(t.guard.Read(path, maxLines)), nil
}

// WriteFileTool writes content to a file through the filesystem guard
type WriteFileTool struct {
	guard *files.Guard
}

func (t *WriteFileTool) Name() string {
	return "write_file"
}

func (t *WriteFileTool) Description() string {
	return "Write content to a file. Creates the file and any missing parent directories. Set append to true to append instead of overwriting."
}

func (t *WriteFileTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"path": {
				Type:        "string",
				Description: "Path to the file to write",
			},
			"content": {
				Type:        "string",
				Description: "Content to write to the file",
			},
			"append": {
				Type:        "boolean",
				Description: "Append to the file instead of overwriting",
				Default:     false,
			},
		},
		Required: []string{"path", "content"},
	}
}

func (t *WriteFileTool) Execute(params map[string]any) (*Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return &Result{Success: false, Error: "path parameter must be a string"}, nil
	}
	content, ok := stringParam(params, "content")
	if !ok {
		return &Result{Success: false, Error: "content parameter must be a string"}, nil
	}
	appendMode := boolParam(params, "append", false)

	oldContent := ""
	if prior := t.guard.Read(path, 0); prior.OK() {
		oldContent = prior.Text
	}

	result := fromGuardResult(t.guard.Write(path, content, appendMode))
	if result.Success && !appendMode && oldContent != content {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(oldContent),
			B:        difflib.SplitLines(content),
			FromFile: "a/" + path,
			ToFile:   "b/" + path,
			Context:  3,
		})
		if err == nil && diff != "" {
			if result.Data == nil {
				result.Data = map[string]any{}
			}
			result.Data["diff"] = diff
		}
	}
	return result, nil
}

// ListDirectoryTool lists a directory through the filesystem guard
type ListDirectoryTool struct {
	guard *files.Guard
}

func (t *ListDirectoryTool) Name() string {
	return "list_directory"
}

func (t *ListDirectoryTool) Description() string {
	return "List the contents of a directory with sizes, directories first."
}

func (t *ListDirectoryTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"path": {
				Type:        "string",
				Description: "Directory path to list",
				Default:     ".",
			},
			"pattern": {
				Type:        "string",
				Description: "Optional glob pattern to filter entry names",
			},
		},
		Required: []string{"path"},
	}
}

func (t *ListDirectoryTool) Execute(params map[string]any) (*Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return &Result{Success: false, Error: "path parameter must be a string"}, nil
	}
	pattern, _ := stringParam(params, "pattern")

	return fromGuardResult(t.guard.List(path, pattern)), nil
}

// SearchFilesTool searches for files through the filesystem guard
type SearchFilesTool struct {
	guard *files.Guard
}

func (t *SearchFilesTool) Name() string {
	return "search_files"
}

func (t *SearchFilesTool) Description() string {
	return "Recursively search for files by name pattern, optionally requiring a case-insensitive content match."
}

func (t *SearchFilesTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"path": {
				Type:        "string",
				Description: "Base path to search under",
			},
			"pattern": {
				Type:        "string",
				Description: "Glob pattern for file names (e.g. \"*.go\")",
			},
			"content": {
				Type:        "string",
				Description: "Optional text that matching files must contain",
			},
		},
		Required: []string{"path", "pattern"},
	}
}

func (t *SearchFilesTool) Execute(params map[string]any) (*Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return &Result{Success: false, Error: "path parameter must be a string"}, nil
	}
	pattern, ok := stringParam(params, "pattern")
	if !ok {
		return &Result{Success: false, Error: "pattern parameter must be a string"}, nil
	}
	content, _ := stringParam(params, "content")

	return fromGuardResult(t.guard.Search(path, pattern, content)), nil
}

// FileInfoTool inspects a file through the filesystem guard
type FileInfoTool struct {
	guard *files.Guard
}

func (t *FileInfoTool) Name() string {
	return "file_info"
}

func (t *FileInfoTool) Description() string {
	return "Get detailed information about a file or directory: size, type, and modification time."
}

func (t *FileInfoTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"path": {
				Type:        "string",
				Description: "Path to inspect",
			},
		},
		Required: []string{"path"},
	}
}

func (t *FileInfoTool) Execute(params map[string]any) (*Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return &Result{Success: false, Error: "path parameter must be a string"}, nil
	}

	return fromGuardResult(t.guard.Inspect(path)), nil
}

// DeleteFileTool deletes a file or directory through the filesystem guard
type DeleteFileTool struct {
	guard *files.Guard
}

func (t *DeleteFileTool) Name() string {
	return "delete_file"
}

func (t *DeleteFileTool) Description() string {
	return "Delete a file, or a directory recursively."
}

func (t *DeleteFileTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"path": {
				Type:        "string",
				Description: "Path to delete",
			},
		},
		Required: []string{"path"},
	}
}

func (t *DeleteFileTool) Execute(params map[string]any) (*Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return &Result{Success: false, Error: "path parameter must be a string"}, nil
	}

	return fromGuardResult(t.guard.Delete(path)), nil
}

func fromGuardResult(res files.Result) *Result {
	out := &Result{
		Success: res.OK(),
		Data:    map[string]any{"status": string(res.Status)},
	}
	if res.OK() {
		out.Output = res.Text
	} else {
		out.Error = res.Text
	}
	return out
}
