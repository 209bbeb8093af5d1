package toolCalling

import (
	"errors"
	"fmt"
)

// ErrFunctionNotFound is returned when the model requests a function that
// has no registered handler. Recoverable: the orchestrator reports it and
// returns to idle.
var ErrFunctionNotFound = errors.New("function is not registered")

// ArgumentError reports a function-call argument payload that could not be
// decoded or validated against the handler's schema.
type ArgumentError struct {
	Function string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Function, e.Reason)
}
