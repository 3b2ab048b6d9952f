// Package tool adapts the filesystem and command guards into agent-callable
// tools: one tool per guard operation, textual input and output only. The
// registry tracks every invocation with a call ID and logs it.
package tool

import (
	"encoding/json"
)

// Tool represents a tool that can be called by an agent
type Tool interface {
	Name() string
	Description() string
	Parameters() ParameterSchema
	Execute(params map[string]any) (*Result, error)
}

// ToOpenAIFunction converts a tool to OpenAI function calling format
func ToOpenAIFunction(t Tool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		},
	}
}

// ToJSON converts a result to JSON
func ToJSON(r *Result) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses a result from JSON
func FromJSON(jsonStr string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
