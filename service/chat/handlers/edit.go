package handlers

import (
	"context"

	"salachat/logger"
	"salachat/service/chat"
)

type EditHandler struct{}

func NewEditHandler() chat.Handler  { return &EditHandler{} }
func (h *EditHandler) Type() string { return chat.FrameEditMessage }

// Handle edits a message. Missing row or foreign owner is a silent no-op:
// no signal goes back so a caller cannot probe for other users' message ids.
// The debug log is the only trace, and only server-side.
func (h *EditHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	req, err := chat.DecodePayload[chat.EditReq](f)
	if err != nil || req.ID <= 0 {
		logger.Warnf("[edit] bad payload conn=%s: %v", c.ConnID, err)
		return nil
	}

	s := ctx.S
	caller := c.Identity.ID
	s.Mutate(func(mctx context.Context) {
		sender, ok, serr := s.Store().SenderOf(mctx, req.ID)
		if serr != nil {
			logger.Errorf("[edit] ownership read failed id=%d: %v", req.ID, serr)
			return
		}
		if !ok {
			logger.Debugf("[edit] ignored, no such message id=%d user=%s", req.ID, caller)
			return
		}
		if sender != caller {
			logger.Debugf("[edit] ignored, not owner id=%d user=%s", req.ID, caller)
			return
		}
		if uerr := s.Store().UpdateText(mctx, req.ID, req.Text); uerr != nil {
			logger.Errorf("[edit] update failed id=%d: %v", req.ID, uerr)
			return
		}
		s.BroadcastFrame(chat.FrameMessageUpdated, chat.UpdatedEvt{ID: req.ID, Text: req.Text, IsEdited: true})
	})
	return nil
}
