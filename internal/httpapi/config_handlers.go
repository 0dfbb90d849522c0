package httpapi

import (
	"net/http"
	"sync/atomic"

	"internwatch/internal/config"
)

// ConfigHandler exposes the running configuration. Secrets carry json:"-"
// tags and never leave the process.
type ConfigHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.CfgVal.Load().(config.Config)
	if !ok {
		WriteError(w, r, http.StatusServiceUnavailable, "no_config", "configuration not loaded")
		return
	}
	writeJSON(w, cur)
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.CfgVal.Load().(config.Config)
	if !ok {
		WriteError(w, r, http.StatusServiceUnavailable, "no_config", "configuration not loaded")
		return
	}
	_, vr := config.NormalizeAndValidate(cur)
	WriteJSON(w, http.StatusOK, vr)
}
