package http

import (
	stdhttp "net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// swaggerSkeleton is served when no generated document is registered so the
// UI still loads
const swaggerSkeleton = `{"openapi":"3.0.3","info":{"title":"ensnorm API","version":"0.1.0"},"paths":{}}`

// docJSON is a seam; services can override it with a full document
var docJSON = func() string { return swaggerSkeleton }

// SetSwaggerDoc registers the JSON document served at /api/docs/doc.json
func SetSwaggerDoc(fn func() string) {
	if fn != nil {
		docJSON = fn
	}
}

// MountSwagger mounts the Swagger UI and JSON spec if enabled
func MountSwagger(r Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		stdhttp.Redirect(w, req, "/api/docs/", stdhttp.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docJSON()))
	})
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
