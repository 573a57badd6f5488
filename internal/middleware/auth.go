package middleware

import "strings"

// ExtractToken returns the token carried by an Authorization header value.
// Both "Bearer <token>" and a bare token are accepted, and surrounding
// quotes are stripped.
func ExtractToken(header string) string {
	token := strings.TrimSpace(header)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return strings.Trim(token, `"'`)
}
