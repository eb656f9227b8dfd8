package chat

import (
	"sync"
)

// Context carries what a handler needs beyond the frame itself.
type Context struct {
	S *Server
}

// Handler processes one inbound frame type. Handlers run on the owning
// connection's read goroutine, so per-connection processing is sequential.
type Handler interface {
	Type() string
	Handle(ctx *Context, f *Frame, c *Client) error
}

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[h.Type()] = h
}

func (d *Dispatcher) GetHandler(t string) Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[t]
}
