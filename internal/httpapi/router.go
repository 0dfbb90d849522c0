package httpapi

import (
	"net/http"
	"time"
)

// NewMux registers every endpoint without middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Started: time.Now()}
	mux.HandleFunc("/", hh.Root)
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  hh.Health,
		http.MethodHead: hh.Health,
	}))

	// Pipeline
	rh := RunHandler{Runner: d.Runner, BaseCtx: d.BaseCtx, Logger: d.Logger}
	mux.HandleFunc("/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))

	// Seen state
	if d.Seen != nil {
		sh := SeenHandler{Seen: d.Seen}
		mux.HandleFunc("/seen", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: sh.List,
		}))
	}

	// Config
	ch := ConfigHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// NewHandler wraps NewMux with request ids, panic recovery and access logs.
func NewHandler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Logger), AccessLog(d.Logger))
}
