package chat

import (
	"context"
	"sync"
	"time"

	"salachat/logger"
	"salachat/module/chat/model"
	"salachat/module/chat/store"
	"salachat/tools/safe"
)

// StoreTimeout bounds every store call made on behalf of a connection.
const StoreTimeout = 5 * time.Second

type Conf struct {
	PageSize  int // getHistory page size
	JumpOlder int // window half, target-inclusive
	JumpNewer int

	SendQueue     int
	FanoutQueue   int
	MutationQueue int
}

func (c *Conf) norm() {
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.JumpOlder <= 0 {
		c.JumpOlder = 25
	}
	if c.JumpNewer <= 0 {
		c.JumpNewer = 25
	}
	if c.SendQueue <= 0 {
		c.SendQueue = 256
	}
	if c.FanoutQueue <= 0 {
		c.FanoutQueue = 1024
	}
	if c.MutationQueue <= 0 {
		c.MutationQueue = 256
	}
}

// Server glues the store, the connection registry, the dispatcher, the
// broadcast fanout and the serialized mutation queue together. It holds no
// per-client state beyond the registry; each connection carries its own mode.
type Server struct {
	conf   Conf
	store  store.Store
	conns  *ConnManager
	fanout *Fanout
	disp   *Dispatcher

	muts     chan func(ctx context.Context)
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewServer(st store.Store, conf Conf) *Server {
	conf.norm()
	s := &Server{
		conf:   conf,
		store:  st,
		conns:  NewConnManager(),
		fanout: NewFanout(conf.FanoutQueue),
		disp:   NewDispatcher(),
		muts:   make(chan func(ctx context.Context), conf.MutationQueue),
		stopCh: make(chan struct{}),
	}
	safe.Go(s.drainMutations)
	return s
}

func (s *Server) Store() store.Store    { return s.store }
func (s *Server) ConnMgr() *ConnManager { return s.conns }
func (s *Server) Disp() *Dispatcher     { return s.disp }
func (s *Server) Conf() Conf            { return s.conf }

func (s *Server) Close() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.fanout.Close()
		s.conns.Close()
	})
}

// Mutate schedules a create/edit/delete on the single mutation goroutine.
// Serializing mutations makes broadcast order equal store insertion order;
// the caller's read goroutine may block here, which keeps inbound requests
// of one connection in arrival order.
func (s *Server) Mutate(fn func(ctx context.Context)) {
	select {
	case <-s.stopCh:
	case s.muts <- fn:
	}
}

func (s *Server) drainMutations() {
	for {
		select {
		case <-s.stopCh:
			return
		case fn := <-s.muts:
			ctx, cancel := context.WithTimeout(context.Background(), StoreTimeout)
			fn(ctx)
			cancel()
		}
	}
}

// BroadcastFrame delivers an event to every connected session, regardless of
// each recipient's pagination/window state.
func (s *Server) BroadcastFrame(ftype string, data any) {
	payload, err := BuildFrame(ftype, data)
	if err != nil {
		logger.Errorf("[broadcast] build %s frame: %v", ftype, err)
		return
	}
	s.fanout.Broadcast(s.conns.Snapshot(), payload)
}

// ServeHistory runs one backward page for the given connection. Cursor 0 is
// the absent cursor: it serves the latest page and doubles as the explicit
// "return to present" that flips a historical session back to live. Backward
// pages (cursor > 0) are suppressed while the session views history.
//
// Store failures are logged and produce no emission; the client owns the
// retry policy.
func (s *Server) ServeHistory(c *Client, cursor int64) {
	if cursor > 0 && c.Mode() == ModeHistorical {
		logger.Debugf("[history] backward page suppressed in historical mode conn=%s", c.ConnID)
		return
	}
	if cursor <= 0 {
		c.SetMode(ModeLive)
	}

	ctx, cancel := context.WithTimeout(context.Background(), StoreTimeout)
	defer cancel()
	page, err := s.store.SelectPage(ctx, cursor, s.conf.PageSize)
	if err != nil {
		logger.Errorf("[history] fetch failed conn=%s cursor=%d: %v", c.ConnID, cursor, err)
		return
	}
	if page == nil {
		page = []model.Message{}
	}
	payload, err := BuildFrame(FrameHistoryChunk, page)
	if err != nil {
		logger.Errorf("[history] build chunk conn=%s: %v", c.ConnID, err)
		return
	}
	c.Enqueue(payload)
}
