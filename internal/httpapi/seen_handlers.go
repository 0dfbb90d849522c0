package httpapi

import (
	"net/http"
	"strconv"

	"internwatch/internal/store"
)

type SeenHandler struct {
	Seen store.SeenStore
}

// List returns the persisted ids, newest last. ?limit=N keeps the newest N.
func (h SeenHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := -1
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	ids, err := h.Seen.Load(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "seen_unavailable", err.Error())
		return
	}
	total := len(ids)

	if limit >= 0 && limit < len(ids) {
		ids = ids[len(ids)-limit:]
	}
	if ids == nil {
		ids = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"count": total, "ids": ids})
}
