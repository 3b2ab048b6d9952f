package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/odvcencio/warden/pkg/sandbox"
)

// ExecuteCommandTool runs a shell command through the execution guard
type ExecuteCommandTool struct {
	sandbox *sandbox.Sandbox
}

func (t *ExecuteCommandTool) Name() string {
	return "execute_command"
}

func (t *ExecuteCommandTool) Description() string {
	return "Execute a shell command and return the output. Commands run with timeout protection and are checked against the configured allow and block lists."
}

func (t *ExecuteCommandTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"command": {
				Type:        "string",
				Description: "The shell command to execute (e.g. \"ls -la\", \"cat file.txt\")",
			},
		},
		Required: []string{"command"},
	}
}

func (t *ExecuteCommandTool) Execute(params map[string]any) (*Result, error) {
	command, ok := stringParam(params, "command")
	if !ok || strings.TrimSpace(command) == "" {
		return &Result{Success: false, Error: "command parameter must be a non-empty string"}, nil
	}

	res := t.sandbox.Execute(context.Background(), command)

	data := map[string]any{
		"command":   res.Command,
		"stdout":    res.Stdout,
		"stderr":    res.Stderr,
		"exit_code": res.ExitCode,
	}

	if res.Success() {
		output := res.Output()
		if output == "" {
			output = "(command completed with no output)"
		}
		return &Result{Success: true, Output: output, Data: data}, nil
	}

	errText := res.Stderr
	if errText == "" {
		errText = res.Stdout
	}
	return &Result{
		Success: false,
		Data:    data,
		Error:   fmt.Sprintf("Error (code %d): %s", res.ExitCode, errText),
	}, nil
}
