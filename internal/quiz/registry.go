package quiz

import "sync"

// Registry holds the in-flight machines keyed by chat ID. Session progress
// is deliberately volatile: a process restart loses it, committed answers
// stay in storage.
type Registry struct {
	mu       sync.RWMutex
	machines map[int64]*Machine
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		machines: make(map[int64]*Machine),
	}
}

// Store registers a machine for a chat, replacing any previous run.
func (r *Registry) Store(chatID int64, m *Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machines[chatID] = m
}

// Get retrieves the machine for a chat, or nil.
func (r *Registry) Get(chatID int64) *Machine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.machines[chatID]
}

// Delete removes the machine for a chat.
func (r *Registry) Delete(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.machines, chatID)
}
