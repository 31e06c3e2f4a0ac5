package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"tortas-web/internal/api"
	"tortas-web/internal/logger"
	"tortas-web/internal/models"
	"tortas-web/internal/notify"
	"tortas-web/internal/store"
	"tortas-web/internal/views"
)

// RemoteClient is the part of the remote service the pages call.
type RemoteClient interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	ListDishes(ctx context.Context, userID string) ([]models.Dish, error)
	CreateDish(ctx context.Context, dish models.DishInput, userID, idempotencyKey string) (models.Dish, error)
	DeleteDish(ctx context.Context, id string) error
}

type Observer interface {
	ObserveFallback(err error)
	ObserveSync(err error)
}

type Handler struct {
	Client     RemoteClient
	Pending    store.PendingStore
	Sync       store.SyncRegistrar // nil when background sync is unsupported
	Subscriber *notify.Subscriber
	Sessions   *SessionManager
	Tables     *views.TableStates
	Tmpl       map[string]*template.Template
	Log        logger.ILogger
	Metrics    Observer
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.Tmpl[page]
	if !ok {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.Log.Error("views", "template error", map[string]interface{}{"page": page, "error": err})
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
