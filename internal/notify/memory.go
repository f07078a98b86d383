package notify

import (
	"context"
	"sync"
)

// Memory collects notifications for unit suites.
type Memory struct {
	mu   sync.Mutex
	sent []Notification
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Dispatch(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return nil
}

// Sent returns a snapshot of dispatched notifications.
func (m *Memory) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
