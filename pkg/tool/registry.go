package tool

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/odvcencio/warden/pkg/errors"
	"github.com/odvcencio/warden/pkg/files"
	"github.com/odvcencio/warden/pkg/logging"
	"github.com/odvcencio/warden/pkg/sandbox"
)

// Registry manages all available tools
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger *logging.Logger
}

// NewEmptyRegistry creates a new empty tool registry without any built-in tools
func NewEmptyRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// NewRegistry creates a registry exposing one tool per guard operation.
func NewRegistry(guard *files.Guard, sb *sandbox.Sandbox) *Registry {
	r := NewEmptyRegistry()
	r.Register(&ReadFileTool{guard: guard})
	r.Register(&WriteFileTool{guard: guard})
	r.Register(&ListDirectoryTool{guard: guard})
	r.Register(&SearchFilesTool{guard: guard})
	r.Register(&FileInfoTool{guard: guard})
	r.Register(&DeleteFileTool{guard: guard})
	r.Register(&ExecuteCommandTool{sandbox: sb})
	return r
}

// SetLogger attaches a logger for per-invocation audit events.
func (r *Registry) SetLogger(logger *logging.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a tool to the registry
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}

// ToOpenAIFunctions returns all tools in OpenAI function calling format
func (r *Registry) ToOpenAIFunctions() []map[string]any {
	tools := r.List()
	functions := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		functions = append(functions, ToOpenAIFunction(t))
	}
	return functions
}

// Execute runs a registered tool by name, assigning a call ID and logging the
// invocation. Tool failures surface in the Result; only an unknown tool name
// returns a Go error.
func (r *Registry) Execute(name string, params map[string]any) (*Result, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeToolNotFound, fmt.Sprintf("tool %q is not registered", name))
	}

	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()

	callID := uuid.NewString()
	start := time.Now()

	result, err := t.Execute(params)
	if err != nil {
		logger.Error(logging.CategoryTool, "tool_failed", err.Error(), map[string]any{
			"tool":    name,
			"call_id": callID,
		})
		return nil, errors.Wrap(err, errors.ErrCodeToolExecution, fmt.Sprintf("tool %q failed", name))
	}

	details := map[string]any{
		"tool":        name,
		"call_id":     callID,
		"success":     result.Success,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if result.Error != "" {
		details["error"] = result.Error
	}
	logger.Info(logging.CategoryTool, "tool_executed", "", details)

	return result, nil
}
