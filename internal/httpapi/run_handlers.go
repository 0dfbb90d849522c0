package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"internwatch/internal/poll"
)

type RunHandler struct {
	Runner  Runner
	BaseCtx context.Context
	Logger  *log.Logger
}

func (h RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Runner.Status())
}

// Run starts a cycle in the background. It shares the scheduler's guard,
// so it never overlaps a scheduled cycle.
func (h RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Runner.Status().Running {
		WriteError(w, r, http.StatusConflict, "busy", poll.ErrBusy.Error())
		return
	}

	ctx := h.BaseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	reqID := RequestIDFrom(r.Context())
	go func() {
		stats, err := h.Runner.TryRun(ctx)
		switch {
		case errors.Is(err, poll.ErrBusy):
			h.Logger.Printf("[api] request_id=%s manual run skipped: %v", reqID, err)
		case err != nil:
			h.Logger.Printf("[api] request_id=%s manual run cycle=%s err=%v", reqID, stats.CycleID, err)
		default:
			h.Logger.Printf("[api] request_id=%s manual run cycle=%s notified=%d", reqID, stats.CycleID, stats.Notified)
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}
