package handlers

import (
	"context"

	"salachat/logger"
	"salachat/module/chat/model"
	"salachat/service/chat"
)

// User-facing copy kept from the original product.
const (
	msgInvalidJumpID = "ID de mensaje inválido."
	msgJumpFailed    = "Error al recuperar el historial del mensaje."
)

type JumpHandler struct{}

func NewJumpHandler() chat.Handler  { return &JumpHandler{} }
func (h *JumpHandler) Type() string { return chat.FrameJumpToMessage }

// Handle serves the bidirectional window around a message id. The result
// fully replaces the client's loaded set and flips the session into
// historical mode. A target deleted since link creation still yields the
// surrounding window; detecting its absence is the client's job.
func (h *JumpHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	req, err := chat.DecodePayload[chat.JumpReq](f)
	if err != nil || req.ID <= 0 {
		h.sendError(c, msgInvalidJumpID)
		return nil
	}

	conf := ctx.S.Conf()
	qctx, cancel := context.WithTimeout(context.Background(), chat.StoreTimeout)
	defer cancel()
	window, err := ctx.S.Store().SelectWindow(qctx, req.ID, conf.JumpOlder, conf.JumpNewer)
	if err != nil {
		logger.Errorf("[jump] window fetch failed conn=%s id=%d: %v", c.ConnID, req.ID, err)
		h.sendError(c, msgJumpFailed)
		return nil
	}
	if window == nil {
		window = []model.Message{}
	}

	c.SetMode(chat.ModeHistorical)
	payload, err := chat.BuildFrame(chat.FrameLoadJump, window)
	if err != nil {
		logger.Errorf("[jump] build frame conn=%s: %v", c.ConnID, err)
		return nil
	}
	c.Enqueue(payload)
	return nil
}

func (h *JumpHandler) sendError(c *chat.Client, msg string) {
	payload, err := chat.BuildFrame(chat.FrameJumpError, chat.JumpErrorEvt{Message: msg})
	if err != nil {
		return
	}
	c.Enqueue(payload)
}
