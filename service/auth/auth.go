package auth

import "salachat/module/chat/model"

// Verifier validates a bearer credential and resolves the identity bound to a
// connection for its whole lifetime. Token issuance lives elsewhere; this
// service only consumes tokens.
type Verifier interface {
	Verify(token string) (model.Identity, error)
}
