package chat

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"salachat/logger"
	"salachat/module/chat/model"
	"salachat/tools/safe"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Mode is the per-connection view mode. Live connections receive implicit
// appends for new messages; historical connections keep their window until
// an explicit return to present.
type Mode int32

const (
	ModeLive Mode = iota
	ModeHistorical
)

// Client represents one authenticated session connected to the service.
// It holds no durable state; everything dies with the transport.
type Client struct {
	ConnID   string
	Identity model.Identity
	WS       *websocket.Conn
	Send     chan []byte // outbound queue, consumed by a single writer goroutine

	mode atomic.Int32
	once sync.Once
	done chan struct{}
}

func NewClient(connID string, identity model.Identity, ws *websocket.Conn, sendQueueSize int) *Client {
	return &Client{
		ConnID:   connID,
		Identity: identity,
		WS:       ws,
		Send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// Start launches the write pump. Call exactly once per connection.
func (c *Client) Start() {
	safe.Go(c.writePump)
}

// Enqueue hands a payload to the writer goroutine without blocking.
// A slow client with a full queue is skipped; delivery is best effort.
func (c *Client) Enqueue(payload []byte) {
	select {
	case <-c.done:
	case c.Send <- payload:
	default:
		logger.Warnf("[client] send queue full, drop frame conn=%s user=%s", c.ConnID, c.Identity.ID)
	}
}

func (c *Client) Mode() Mode     { return Mode(c.mode.Load()) }
func (c *Client) SetMode(m Mode) { c.mode.Store(int32(m)) }

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.WS.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.Send:
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WS.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WS.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
