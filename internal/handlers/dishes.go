package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tortas-web/internal/models"
	"tortas-web/internal/store"
	"tortas-web/internal/views"
)

// DishesPage is the table's mount: it refetches the list for the session.
// A failed fetch is only logged and the previous rows stay.
func (h *Handler) DishesPage(w http.ResponseWriter, r *http.Request) {
	sess := CurrentSession(r)
	if sess.ViewID == "" {
		// Sessions created before view ids existed.
		if err := h.Sessions.Save(w, r, sess); err != nil {
			h.Log.Error("dishes", "failed to save session", map[string]interface{}{"error": err.Error()})
		}
	}
	table := h.Tables.Get(sess.ViewID)

	dishes, err := h.Client.ListDishes(r.Context(), sess.UserID)
	if err != nil {
		h.Log.Error("dishes", "failed to list dishes", map[string]interface{}{"user_id": sess.UserID, "error": err.Error()})
	} else {
		table.Replace(dishes)
	}
	table.Error = ""

	h.Tables.Put(sess.ViewID, table)
	h.renderTable(w, sess, table)
}

// CreateDishHandler appends the created dish on success. On failure the
// list is left alone and the dish goes to the fallback path.
func (h *Handler) CreateDishHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	sess := CurrentSession(r)
	table := h.Tables.Get(sess.ViewID)
	table.Form = views.DishForm{
		Name:        r.PostForm.Get("nombre"),
		CuisineType: r.PostForm.Get("tipoCocina"),
		Ingredients: r.PostForm.Get("ingredientes"),
		Price:       r.PostForm.Get("precio"),
	}
	table.Error = ""

	input, err := table.Form.Input()
	if err != nil {
		table.Error = views.MsgInvalidPrice
		h.Tables.Put(sess.ViewID, table)
		h.renderTable(w, sess, table)
		return
	}
	input.UserID = sess.UserID

	// The create and its fallback outlive the client: leaving the page must
	// not drop the dish.
	ctx := context.WithoutCancel(r.Context())
	key := uuid.NewString()
	created, err := h.Client.CreateDish(ctx, input, sess.UserID, key)
	if err != nil {
		h.Log.Error("dishes", "failed to create dish", map[string]interface{}{"user_id": sess.UserID, "error": err.Error()})
		h.fallback(ctx, input, key, err)
	} else {
		table.Append(created)
	}

	h.Tables.Put(sess.ViewID, table)
	h.renderTable(w, sess, table)
}

// fallback registers a background sync task when supported and then keeps
// the dish locally. Both steps are single attempts; failures are logged.
func (h *Handler) fallback(ctx context.Context, input models.DishInput, key string, cause error) {
	if h.Sync != nil {
		err := h.Sync.Register(ctx, store.SyncTag, input.UserID)
		h.Metrics.ObserveSync(err)
		if err != nil {
			h.Log.Error("dishes", "failed to register sync", map[string]interface{}{"error": err.Error()})
		} else {
			h.Log.Info("dishes", "sync registered", map[string]interface{}{"tag": store.SyncTag})
		}
	}

	id, err := h.Pending.SavePending(ctx, models.PendingDish{
		Dish:           input,
		IdempotencyKey: key,
		Reason:         cause.Error(),
	})
	h.Metrics.ObserveFallback(err)
	if err != nil {
		h.Log.Error("dishes", "failed to save pending dish", map[string]interface{}{"error": err.Error()})
		return
	}
	h.Log.Info("dishes", "dish saved locally after network failure", map[string]interface{}{"pending_id": id})
}

// DeleteDishHandler removes the row only after the service confirms.
func (h *Handler) DeleteDishHandler(w http.ResponseWriter, r *http.Request) {
	sess := CurrentSession(r)
	id := mux.Vars(r)["id"]
	table := h.Tables.Get(sess.ViewID)

	if err := h.Client.DeleteDish(r.Context(), id); err != nil {
		h.Log.Error("dishes", "failed to delete dish", map[string]interface{}{"id": id, "error": err.Error()})
	} else {
		table.Remove(id)
	}

	h.Tables.Put(sess.ViewID, table)
	h.renderTable(w, sess, table)
}

func (h *Handler) renderTable(w http.ResponseWriter, sess *models.Session, table *views.DishTable) {
	table.PromptPush = !sess.PushPrompted
	table.ApplicationServerKey = h.Subscriber.ApplicationServerKey()
	h.render(w, http.StatusOK, "dishes", table)
}
