package chatManager

import (
	"sync"

	"FuncChat/llm"
)

// Conversation is the append-only ordered message log for one session.
// Only the orchestrator's run loop appends; readers get a copied snapshot.
// Messages are never mutated or reordered after insertion, and failed turns
// keep whatever was appended before the failure.
type Conversation struct {
	mu       sync.RWMutex
	messages []llm.Message
}

func NewConversation() *Conversation {
	return &Conversation{}
}

func (c *Conversation) Append(m llm.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// Snapshot returns a copy of the log in insertion order.
func (c *Conversation) Snapshot() []llm.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
