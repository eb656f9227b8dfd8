package handlers

import (
	"context"

	"salachat/logger"
	"salachat/service/chat"
)

type DeleteHandler struct{}

func NewDeleteHandler() chat.Handler  { return &DeleteHandler{} }
func (h *DeleteHandler) Type() string { return chat.FrameDeleteMessage }

// Handle hard-deletes a message under the same silent ownership policy as
// edit. Replies referencing the id stay intact; their preview resolves to
// null on the next read.
func (h *DeleteHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	req, err := chat.DecodePayload[chat.DeleteReq](f)
	if err != nil || req.ID <= 0 {
		logger.Warnf("[delete] bad payload conn=%s: %v", c.ConnID, err)
		return nil
	}

	s := ctx.S
	caller := c.Identity.ID
	s.Mutate(func(mctx context.Context) {
		sender, ok, serr := s.Store().SenderOf(mctx, req.ID)
		if serr != nil {
			logger.Errorf("[delete] ownership read failed id=%d: %v", req.ID, serr)
			return
		}
		if !ok {
			logger.Debugf("[delete] ignored, no such message id=%d user=%s", req.ID, caller)
			return
		}
		if sender != caller {
			logger.Debugf("[delete] ignored, not owner id=%d user=%s", req.ID, caller)
			return
		}
		if derr := s.Store().Delete(mctx, req.ID); derr != nil {
			logger.Errorf("[delete] delete failed id=%d: %v", req.ID, derr)
			return
		}
		s.BroadcastFrame(chat.FrameMessageDeleted, chat.DeletedEvt{ID: req.ID})
	})
	return nil
}
