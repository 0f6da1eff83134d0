package auth

import (
	"net/http"
	"strings"
)

// DefaultTokenQueryParam is used by websocket clients that cannot set headers.
const DefaultTokenQueryParam = "token"

// ExtractBearerTokenFromHeader returns the token of a "Bearer <token>" header value,
// matching the scheme case-insensitively.
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ExtractToken looks at the Authorization header first and falls back to the
// queryParam query parameter.
func ExtractToken(r *http.Request, queryParam string) string {
	if r == nil {
		return ""
	}
	if token := ExtractBearerTokenFromHeader(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if queryParam == "" {
		queryParam = DefaultTokenQueryParam
	}
	if r.URL == nil {
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}
