// Package meta exposes liveness and build information endpoints
package meta

import (
	stdhttp "net/http"

	"ensnorm/internal/core/version"
	phttp "ensnorm/internal/platform/net/http"
	"ensnorm/internal/platform/store"
)

// Register mounts meta endpoints on the given router
func Register(r phttp.Router, st *store.Store) {
	h := &handlers{st: st}
	r.Get("/healthz", phttp.Handle(h.healthz))
	r.Get("/version", phttp.Handle(h.version))
}

type handlers struct{ st *store.Store }

// @Summary Liveness plus backend readiness
// @Tags Meta
// @Produce json
// @Success 200 {object} map[string]string "ok"
// @Router /meta/healthz [get]
func (h *handlers) healthz(r *stdhttp.Request) phttp.Response {
	status := map[string]string{"status": "ok"}
	if h.st != nil {
		if err := h.st.Guard(r.Context()); err != nil {
			status["status"] = "degraded"
			status["detail"] = err.Error()
		}
	}
	return phttp.OK(status)
}

// @Summary Build information
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *stdhttp.Request) phttp.Response {
	return phttp.OK(version.Info())
}
