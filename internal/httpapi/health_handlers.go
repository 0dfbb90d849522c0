package httpapi

import (
	"io"
	"net/http"
	"time"
)

type HealthHandler struct {
	Started time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"uptime_s": int(time.Since(h.Started).Seconds()),
	})
}

// Root answers hosting platforms that probe "/" to keep the service awake.
func (h HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such endpoint")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Bot is running!")
}
