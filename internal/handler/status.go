package handler

import (
	"net/http"

	"siteforge/internal/status"
)

// StatusHandler serves the generation status, both as a one-shot snapshot
// and as a websocket stream.
type StatusHandler struct {
	tracker *status.Tracker
}

func NewStatusHandler(tracker *status.Tracker) *StatusHandler {
	return &StatusHandler{tracker: tracker}
}

// HandleStatus returns the current status snapshot.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.tracker.Snapshot())
}
