package conversation

import "sync"

// Roles as understood by the chat-generation capability. The customer
// speaks as "user".
const (
	RoleCustomer  = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func Customer(content string) Message {
	return Message{Role: RoleCustomer, Content: content}
}

func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// History is an append-only transcript. Reset is the only way to shrink it.
type History struct {
	mu       sync.RWMutex
	messages []Message
}

func (h *History) Append(msgs ...Message) {
	h.mu.Lock()
	h.messages = append(h.messages, msgs...)
	h.mu.Unlock()
}

// Snapshot returns a copy safe to hand to other goroutines.
func (h *History) Snapshot() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message(nil), h.messages...)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

func (h *History) Reset() {
	h.mu.Lock()
	h.messages = nil
	h.mu.Unlock()
}
