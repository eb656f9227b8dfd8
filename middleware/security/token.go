package security

import (
	"net/http"
	"strings"
)

// TokenFromRequest extracts the bearer credential presented during the
// websocket handshake. Lookup order matches the original handshake contract:
// Authorization header, then "token" query parameter, then "token" cookie.
func TokenFromRequest(r *http.Request) string {
	if authz := strings.TrimSpace(r.Header.Get("Authorization")); authz != "" {
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return strings.TrimSpace(authz[len("bearer "):])
		}
		return authz
	}
	if tok := strings.TrimSpace(r.URL.Query().Get("token")); tok != "" {
		return tok
	}
	if c, err := r.Cookie("token"); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
