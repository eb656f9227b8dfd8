package clientsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"salachat/logger"
	"salachat/module/chat/model"
	"salachat/module/chat/view"
	"salachat/service/chat"
	"salachat/tools/safe"
)

// Client is the Go rendition of the chat client: it authenticates during the
// handshake, keeps a Projection in sync with server frames, and exposes the
// outbound protocol operations. It owns no retry policy; callers decide when
// a missing response means retry.
type Client struct {
	ws   *websocket.Conn
	proj *view.Projection

	mu          sync.RWMutex
	identity    model.Identity
	lastJumpErr string

	readyOnce sync.Once
	ready     chan struct{}
	updates   chan string

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects and starts the read loop. rawURL may use http(s) or ws(s)
// scheme; pageSize must match the server's history page size so the
// projection detects exhaustion correctly.
func Dial(ctx context.Context, rawURL, token string, pageSize int) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse url")
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "dial %s (%s)", u.String(), resp.Status)
		}
		return nil, errors.Wrapf(err, "dial %s", u.String())
	}

	c := &Client{
		ws:      ws,
		proj:    view.NewProjection(pageSize),
		ready:   make(chan struct{}),
		updates: make(chan string, 64),
		done:    make(chan struct{}),
	}
	safe.Go(c.readLoop)
	return c, nil
}

// WaitReady blocks until the identity confirmation arrives.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-c.done:
		return errors.New("connection closed before session frame")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Identity() model.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *Client) Projection() *view.Projection { return c.proj }

// Updates emits the frame type after each applied server frame. The channel
// is best effort: it drops when nobody is draining.
func (c *Client) Updates() <-chan string { return c.updates }

// LastJumpError returns the most recent jumpError message, empty if none.
func (c *Client) LastJumpError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastJumpErr
}

// GetHistory requests one backward page. cursor <= 0 requests the latest
// page (and, server-side, returns a historical session to live).
func (c *Client) GetHistory(cursor int64) error {
	if cursor <= 0 {
		return c.send(chat.FrameGetHistory, map[string]any{"cursor": nil})
	}
	return c.send(chat.FrameGetHistory, chat.HistoryReq{Cursor: cursor})
}

func (c *Client) Send(text string, mtype model.MessageType, replyTo int64) error {
	return c.send(chat.FrameSendMessage, chat.SendReq{Text: text, Type: string(mtype), ResponseTo: replyTo})
}

func (c *Client) Edit(id int64, text string) error {
	return c.send(chat.FrameEditMessage, chat.EditReq{ID: id, Text: text})
}

func (c *Client) Delete(id int64) error {
	return c.send(chat.FrameDeleteMessage, chat.DeleteReq{ID: id})
}

func (c *Client) Jump(id int64) error {
	return c.send(chat.FrameJumpToMessage, chat.JumpReq{ID: id})
}

// ReturnToLive resets the projection and re-requests the first page.
func (c *Client) ReturnToLive() error {
	c.proj.Reset()
	return c.GetHistory(0)
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *Client) send(ftype string, data any) error {
	payload, err := chat.BuildFrame(ftype, data)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Client) readLoop() {
	defer func() { _ = c.Close() }()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		f, perr := chat.ParseFrameJSON(data)
		if perr != nil {
			logger.Warnf("[clientsdk] bad frame: %v", perr)
			continue
		}
		c.apply(f)
	}
}

func (c *Client) apply(f *chat.Frame) {
	switch f.Type {
	case chat.FrameSession:
		var id model.Identity
		if err := json.Unmarshal(f.Data, &id); err != nil {
			logger.Warnf("[clientsdk] bad session frame: %v", err)
			return
		}
		c.mu.Lock()
		c.identity = id
		c.mu.Unlock()
		c.readyOnce.Do(func() { close(c.ready) })

	case chat.FrameHistoryChunk:
		var msgs []model.Message
		if err := json.Unmarshal(f.Data, &msgs); err != nil {
			logger.Warnf("[clientsdk] bad history chunk: %v", err)
			return
		}
		c.proj.ApplyHistory(msgs)

	case chat.FrameLoadJump:
		var msgs []model.Message
		if err := json.Unmarshal(f.Data, &msgs); err != nil {
			logger.Warnf("[clientsdk] bad jump window: %v", err)
			return
		}
		c.proj.ApplyJump(msgs)

	case chat.FrameReceiveMessage:
		var m model.Message
		if err := json.Unmarshal(f.Data, &m); err != nil {
			logger.Warnf("[clientsdk] bad message frame: %v", err)
			return
		}
		c.proj.ApplyCreate(m)

	case chat.FrameMessageUpdated:
		var evt chat.UpdatedEvt
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return
		}
		c.proj.ApplyUpdate(evt.ID, evt.Text, evt.IsEdited)

	case chat.FrameMessageDeleted:
		var evt chat.DeletedEvt
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return
		}
		c.proj.ApplyDelete(evt.ID)

	case chat.FrameJumpError:
		var evt chat.JumpErrorEvt
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return
		}
		c.mu.Lock()
		c.lastJumpErr = evt.Message
		c.mu.Unlock()

	default:
		logger.Debugf("[clientsdk] unhandled frame type=%s", f.Type)
		return
	}

	select {
	case c.updates <- f.Type:
	default:
	}
}
