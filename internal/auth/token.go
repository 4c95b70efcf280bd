package auth

import (
	"net/http"
	"strings"
)

// TokenCookie carries the access token for browser clients that do not
// send an Authorization header.
const TokenCookie = "fishmart_token"

// BearerToken returns the token from "Authorization: Bearer <token>",
// falling back to TokenCookie. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}
