package chat

import (
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"salachat/logger"
	"salachat/middleware/security"
	"salachat/service/auth"
	"salachat/tools/ids"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096, CheckOrigin: func(r *http.Request) bool { return true }}

// HandleWS is the websocket endpoint. The credential is validated before the
// upgrade; a rejected handshake never sees protocol traffic. On success the
// session gets its identity confirmation and the implicit first history page,
// then the read loop dispatches inbound frames sequentially until the
// transport drops.
func (s *Server) HandleWS(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := security.TokenFromRequest(c.Request)
		identity, err := verifier.Verify(token)
		if err != nil {
			logger.Infof("[ws] auth rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication error"})
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Infof("[ws] upgrade error: %v", err)
			return
		}

		client := NewClient(ids.GenerateString(), identity, ws, s.conf.SendQueue)
		s.conns.Add(client)
		client.Start()
		logger.Infof("[ws] connected user=%s conn=%s", identity.Name, client.ConnID)

		if payload, berr := BuildFrame(FrameSession, identity); berr == nil {
			client.Enqueue(payload)
		}
		s.ServeHistory(client, 0)

		s.readLoop(client)

		s.conns.Remove(client.ConnID)
		client.Close()
		logger.Infof("[ws] disconnected user=%s conn=%s", identity.Name, client.ConnID)
	}
}

func (s *Server) readLoop(c *Client) {
	ws := c.WS
	ws.SetReadLimit(64 * 1024)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s err=%v", c.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", c.ConnID, rerr)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", c.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		f, perr := ParseFrameJSON(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[ws] bad frame conn=%s err=%v sample=%q len=%d", c.ConnID, perr, sample, len(data))
			continue
		}

		h := s.disp.GetHandler(f.Type)
		if h == nil {
			logger.Infof("[ws] no handler for frame type=%s conn=%s", f.Type, c.ConnID)
			continue
		}
		if err := h.Handle(&Context{S: s}, f, c); err != nil {
			logger.Errorf("[ws] handler %s failed conn=%s: %v", f.Type, c.ConnID, err)
		}
	}
}
