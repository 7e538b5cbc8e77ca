package server

import (
	"net/http"

	"github.com/alexanderramin/worksummary/internal/session"
)

const sessionCookie = "ws_session"

// sessionID returns the caller's session ID, issuing a new cookie when
// the request has none or carries a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := existingSessionID(r); ok {
		return id
	}
	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessions.IdleTimeout().Seconds()),
	})
	return id
}

func existingSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || !session.ValidID(c.Value) {
		return "", false
	}
	return c.Value, true
}
