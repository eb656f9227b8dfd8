package chat

import (
	"sync"
)

// ConnManager is the live connection registry used for fanout. Append on
// connect, remove on disconnect; nothing else is shared across connections.
type ConnManager struct {
	mu      sync.RWMutex
	clients map[string]*Client // connID -> client
}

func NewConnManager() *ConnManager {
	return &ConnManager{clients: make(map[string]*Client)}
}

func (m *ConnManager) Add(c *Client) {
	if c == nil || c.ConnID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ConnID] = c
}

func (m *ConnManager) Remove(connID string) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.clients[connID]
	delete(m.clients, connID)
	return c
}

// Snapshot returns the current set of connections. Fanout iterates the copy
// so a concurrent connect/disconnect never blocks delivery.
func (m *ConnManager) Snapshot() []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out
}

func (m *ConnManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *ConnManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.clients {
		c.Close()
		delete(m.clients, id)
	}
}
