package handlers

import (
	"encoding/json"
	"net/http"

	"tortas-web/internal/notify"
)

// PushReportHandler runs the subscriber against what the browser reported.
// The session flag makes this a no-op after the first report.
func (h *Handler) PushReportHandler(w http.ResponseWriter, r *http.Request) {
	var report notify.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	sess := CurrentSession(r)
	state := h.Subscriber.Run(r.Context(), notify.NewReportedPlatform(report), sess, sess.UserID)

	if err := h.Sessions.Save(w, r, sess); err != nil {
		h.Log.Error("push", "failed to save session", map[string]interface{}{"error": err})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"state": string(state)})
}
