package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"tortas-web/internal/models"
)

const sessionName = "tortas-session"

type sessionKey struct{}

// SessionManager maps the cookie session onto models.Session.
type SessionManager struct {
	store sessions.Store
}

func NewSessionManager(secret string, secure bool) *SessionManager {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options.HttpOnly = true
	cs.Options.Secure = secure
	cs.Options.SameSite = http.SameSiteLaxMode
	return &SessionManager{store: cs}
}

// Load never fails: a missing or undecodable cookie yields an empty session.
func (m *SessionManager) Load(r *http.Request) *models.Session {
	s, _ := m.store.Get(r, sessionName)
	viewID, _ := s.Values["view_id"].(string)
	userID, _ := s.Values["user_id"].(string)
	prompted, _ := s.Values["push_prompted"].(bool)
	return &models.Session{ViewID: viewID, UserID: userID, PushPrompted: prompted}
}

func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request, sess *models.Session) error {
	s, _ := m.store.Get(r, sessionName)
	if sess.ViewID == "" {
		sess.ViewID = uuid.NewString()
	}
	s.Values["view_id"] = sess.ViewID
	s.Values["user_id"] = sess.UserID
	s.Values["push_prompted"] = sess.PushPrompted
	return s.Save(r, w)
}

func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, sessionName)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// RequireSession redirects to the login page unless a user is logged in.
func (h *Handler) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.Sessions.Load(r)
		if !sess.Authenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	}
}

// CurrentSession returns the session RequireSession loaded.
func CurrentSession(r *http.Request) *models.Session {
	sess, _ := r.Context().Value(sessionKey{}).(*models.Session)
	return sess
}
