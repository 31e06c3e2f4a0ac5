package models

// Session is the per-browser identity context established at login.
type Session struct {
	ViewID       string
	UserID       string
	PushPrompted bool
}

// Authenticated reports whether a login stored a user id.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Done implements the notification one-shot flag.
func (s *Session) Done() bool { return s.PushPrompted }

// MarkDone sets the notification one-shot flag.
func (s *Session) MarkDone() { s.PushPrompted = true }
