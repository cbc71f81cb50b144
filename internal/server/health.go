package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Values of the health endpoints' status fields.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusMissingToken = "missing token"
	healthStatusPending      = "pending"
)

// HealthChecker serves /healthz, /readyz and /healthz/detailed for the HTTP
// transports.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker. It starts ready; sc may be nil.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{serverContext: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady flips readiness, e.g. false while draining before shutdown.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the flag set by SetReady.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Client   string `json:"todoist_client"`
	TokenEnv string `json:"token_env,omitempty"`
	ReadOnly bool   `json:"read_only"`
}

// RegisterHealthEndpoints registers the three health routes on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// LivenessHandler answers ok for as long as the process serves HTTP.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler fails while draining, after shutdown, and when no token
// is configured, since every tool call would then fail.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := map[string]string{
			"ready":          healthStatusOK,
			"shutdown":       healthStatusOK,
			"todoist_client": h.clientState(),
		}
		if !h.ready.Load() {
			checks["ready"] = healthStatusNotReady
		}
		if h.shuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
		}

		code, status := http.StatusOK, healthStatusOK
		for name, state := range checks {
			// a client still waiting for its first call is fine
			if state != healthStatusOK && !(name == "todoist_client" && state == healthStatusPending) {
				code, status = http.StatusServiceUnavailable, healthStatusNotReady
			}
		}
		writeHealth(w, code, HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler adds uptime, the client state and the token
// variable to the liveness answer.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Client: h.clientState(),
		}
		if sc := h.serverContext; sc != nil {
			resp.ReadOnly = sc.ReadOnly()
			resp.TokenEnv = sc.TokenEnv()
		}

		code := http.StatusOK
		switch {
		case !h.ready.Load():
			code, resp.Status = http.StatusServiceUnavailable, healthStatusNotReady
		case h.shuttingDown():
			code, resp.Status = http.StatusServiceUnavailable, healthStatusShuttingDown
		}
		writeHealth(w, code, resp)
	})
}

func (h *HealthChecker) shuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// clientState is ok once the Todoist client is built, pending while a token
// is available but no call has needed the client yet, missing token
// otherwise.
func (h *HealthChecker) clientState() string {
	if h.serverContext == nil {
		return healthStatusOK
	}
	accessor := h.serverContext.Accessor()
	switch {
	case accessor.Cached() != nil:
		return healthStatusOK
	case accessor.HasCredential():
		return healthStatusPending
	default:
		return healthStatusMissingToken
	}
}

func writeHealth(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
