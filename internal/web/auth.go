package web

import (
	"net/http"
	"strings"
)

// adminOnly guards the endpoints that mutate brand metadata. The token is
// the configured WebToken, presented as a bearer token.
func (s *Server) adminOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			s.errorMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if err := s.config.CheckWebToken(token); err != nil {
			s.errorMessage(w, http.StatusForbidden, "invalid token")
			return
		}

		h(w, r)
	}
}
