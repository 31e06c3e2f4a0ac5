package handlers

import (
	"errors"
	"net/http"

	"tortas-web/internal/api"
	"tortas-web/internal/views"
)

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login", views.LoginView{})
}

// LoginHandler stores the user id returned by the service and moves on to
// the dish table.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	resp, err := h.Client.Login(r.Context(), email, password)
	if err != nil {
		status := http.StatusBadGateway
		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			status = http.StatusUnauthorized
		}
		h.Log.Warn("auth", "login failed", map[string]interface{}{"email": email, "error": err.Error()})
		h.render(w, status, "login", views.LoginView{
			Email: email,
			Error: api.UserMessage(err, views.MsgLoginFailed),
		})
		return
	}

	// A login starts a new view: rows cached for an earlier user of this
	// browser must not be shown.
	sess := h.Sessions.Load(r)
	if sess.ViewID != "" {
		h.Tables.Delete(sess.ViewID)
		sess.ViewID = ""
	}
	sess.UserID = resp.UserID
	if err := h.Sessions.Save(w, r, sess); err != nil {
		h.Log.Error("auth", "failed to save session", map[string]interface{}{"error": err.Error()})
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/Incio", http.StatusSeeOther)
}

// LogoutHandler ends the session and drops its table state.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Load(r)
	if sess.ViewID != "" {
		h.Tables.Delete(sess.ViewID)
	}
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Log.Error("auth", "failed to clear session", map[string]interface{}{"error": err.Error()})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register", views.RegisterView{})
}

// RegisterHandler checks the password confirmation locally before any request.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	v := views.RegisterView{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
	}
	password := r.PostForm.Get("password")
	if !v.CheckPasswords(password, r.PostForm.Get("confirm-password")) {
		h.render(w, http.StatusOK, "register", v)
		return
	}

	_, err := h.Client.Register(r.Context(), v.Username, v.Email, password)
	if err != nil {
		var validationErr *api.ValidationError
		var serverErr *api.ServerError
		switch {
		case errors.As(err, &validationErr), errors.As(err, &serverErr):
			v.Message = api.UserMessage(err, views.MsgRegisterFailed)
		default:
			v.Message = views.MsgRegisterNetwork
		}
		h.Log.Warn("auth", "registration failed", map[string]interface{}{"email": v.Email, "error": err.Error()})
		h.render(w, http.StatusOK, "register", v)
		return
	}

	v.Message = views.MsgRegistered
	v.Success = true
	h.render(w, http.StatusOK, "register", v)
}
