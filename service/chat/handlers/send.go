package handlers

import (
	"context"

	"salachat/logger"
	"salachat/module/chat/model"
	"salachat/service/chat"
)

type SendHandler struct{}

func NewSendHandler() chat.Handler  { return &SendHandler{} }
func (h *SendHandler) Type() string { return chat.FrameSendMessage }

// Handle creates a message attributed to the calling identity. There is no
// direct response: the created message reaches the creator and all peers
// through the same broadcast, read back as a joined row so the reply preview
// is consistent. A store failure is logged and the create is abandoned;
// absence of the broadcast is the failure signal.
func (h *SendHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	req, err := chat.DecodePayload[chat.SendReq](f)
	if err != nil {
		logger.Warnf("[send] bad payload conn=%s: %v", c.ConnID, err)
		return nil
	}
	mtype := model.MessageType(req.Type)
	if mtype == "" {
		mtype = model.TypeText
	}

	s := ctx.S
	sender := c.Identity.ID
	s.Mutate(func(mctx context.Context) {
		id, err := s.Store().Insert(mctx, sender, req.Text, mtype, req.ResponseTo)
		if err != nil {
			logger.Errorf("[send] insert failed user=%s: %v", sender, err)
			return
		}
		msg, err := s.Store().SelectOne(mctx, id)
		if err != nil {
			logger.Errorf("[send] read back failed id=%d: %v", id, err)
			return
		}
		if msg == nil {
			logger.Warnf("[send] message %d gone before broadcast", id)
			return
		}
		s.BroadcastFrame(chat.FrameReceiveMessage, msg)
	})
	return nil
}
