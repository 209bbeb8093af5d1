package toolCalling

import (
	"encoding/json"
	"fmt"

	"FuncChat/llm"
)

// ToolHandler is a named local function with a declared parameter schema.
// Execute receives decoded arguments and returns a string result fed back
// into the conversation.
type ToolHandler interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(args map[string]interface{}) (string, error)
}

// ToolManager maps function names to handlers. The handler map is the
// single source of truth: every schema advertised to the model comes from a
// registered handler, so a dangling schema cannot occur.
type ToolManager struct {
	handlers map[string]ToolHandler
	order    []string
}

func NewToolManager() *ToolManager {
	return &ToolManager{
		handlers: make(map[string]ToolHandler),
	}
}

func (fm *ToolManager) Register(handler ToolHandler) {
	name := handler.Name()
	if _, exists := fm.handlers[name]; !exists {
		fm.order = append(fm.order, name)
	}
	fm.handlers[name] = handler
}

// Lookup returns the handler registered under name.
func (fm *ToolManager) Lookup(name string) (ToolHandler, error) {
	handler, exists := fm.handlers[name]
	if !exists {
		return nil, fmt.Errorf("%s: %w", name, ErrFunctionNotFound)
	}
	return handler, nil
}

// GetFunctions returns the schemas of all registered handlers in
// registration order, for inclusion in every outbound request.
func (fm *ToolManager) GetFunctions() []llm.FunctionDef {
	definitions := make([]llm.FunctionDef, 0, len(fm.order))
	for _, name := range fm.order {
		handler := fm.handlers[name]
		definitions = append(definitions, llm.FunctionDef{
			Name:        handler.Name(),
			Description: handler.Description(),
			Parameters:  handler.Parameters(),
		})
	}
	return definitions
}

// Dispatch looks up the requested function, decodes and validates the raw
// argument payload, and executes the handler. Lookup failures carry
// ErrFunctionNotFound; decode and validation failures carry *ArgumentError.
func (fm *ToolManager) Dispatch(call llm.FunctionCall) (string, error) {
	handler, err := fm.Lookup(call.Name)
	if err != nil {
		return "", err
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return "", &ArgumentError{Function: call.Name, Reason: "payload is not a JSON object"}
	}

	if err := checkRequired(call.Name, handler.Parameters(), args); err != nil {
		return "", err
	}

	return handler.Execute(args)
}

// checkRequired verifies that every name in the schema's required list is
// present in the decoded arguments.
func checkRequired(function string, schema map[string]interface{}, args map[string]interface{}) error {
	required, ok := schema["required"]
	if !ok {
		return nil
	}
	var names []string
	switch rs := required.(type) {
	case []string:
		names = rs
	case []interface{}:
		for _, r := range rs {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
	}
	for _, name := range names {
		if _, present := args[name]; !present {
			return &ArgumentError{Function: function, Reason: fmt.Sprintf("missing required parameter %q", name)}
		}
	}
	return nil
}
