package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter maps the three pages and their form targets.
func NewRouter(h *Handler, static fs.FS, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/", h.LoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/Register", h.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/Register", h.RegisterHandler).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.LogoutHandler).Methods(http.MethodPost)

	r.HandleFunc("/Incio", h.RequireSession(h.DishesPage)).Methods(http.MethodGet)
	r.HandleFunc("/Incio/dishes", h.RequireSession(h.CreateDishHandler)).Methods(http.MethodPost)
	r.HandleFunc("/Incio/dishes/{id}/delete", h.RequireSession(h.DeleteDishHandler)).Methods(http.MethodPost)
	r.HandleFunc("/push/report", h.RequireSession(h.PushReportHandler)).Methods(http.MethodPost)

	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}

	// The service worker must be served from the root so its scope covers the app.
	r.HandleFunc("/sw.js", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Service-Worker-Allowed", "/")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, req, static, "sw.js")
	}).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServerFS(static)))

	return r
}
