package handlers

import "salachat/service/chat"

// RegisterAll wires every inbound frame type into the dispatcher.
func RegisterAll(d *chat.Dispatcher) {
	d.Register(NewHistoryHandler())
	d.Register(NewJumpHandler())
	d.Register(NewSendHandler())
	d.Register(NewEditHandler())
	d.Register(NewDeleteHandler())
}
