package llm

import "context"

// Client is the interface for LLM chat-completion calls. The full
// conversation and the full function list are sent on every call; each call
// is independent and stateless from the client's perspective.
type Client interface {
	Chat(ctx context.Context, messages []Message, functions []FunctionDef) (Response, error)
}
