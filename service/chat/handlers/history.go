package handlers

import (
	"salachat/logger"
	"salachat/service/chat"
)

type HistoryHandler struct{}

func NewHistoryHandler() chat.Handler  { return &HistoryHandler{} }
func (h *HistoryHandler) Type() string { return chat.FrameGetHistory }

func (h *HistoryHandler) Handle(ctx *chat.Context, f *chat.Frame, c *chat.Client) error {
	req, err := chat.DecodePayload[chat.HistoryReq](f)
	if err != nil {
		logger.Warnf("[history] bad payload conn=%s: %v", c.ConnID, err)
		return nil
	}
	ctx.S.ServeHistory(c, req.Cursor)
	return nil
}
