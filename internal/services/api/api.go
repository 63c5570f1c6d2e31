// Package api provides the HTTP API for the application
package api

import (
	"time"

	"ensnorm/internal/core/ensip"
	"ensnorm/internal/platform/config"
	"ensnorm/internal/platform/logger"
	phttp "ensnorm/internal/platform/net/http"
	"ensnorm/internal/platform/net/middleware"
	"ensnorm/internal/platform/store"

	"ensnorm/internal/services/api/meta"
	nameshttp "ensnorm/internal/services/api/names/http"
	namesrepo "ensnorm/internal/services/api/names/repo"
	namessvc "ensnorm/internal/services/api/names/service"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Engine        *ensip.Engine
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	for _, mw := range middleware.Defaults() {
		r.Use(mw)
	}
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: opt.Config.MayCSV("CORS_ORIGINS", []string{"*"}),
	}))
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: opt.Config.MayDuration("SLOW_REQUEST", 2*time.Second),
	}))

	phttp.MountSwagger(r, opt.EnableSwagger)

	var db store.TxRunner
	var ch store.Clickhouse
	if opt.Store != nil {
		db = opt.Store.PG
		ch = opt.Store.CH
	}
	svc := namessvc.New(opt.Engine, namesrepo.New(db, ch), opt.Logger)

	r.Route("/api/v1", func(api phttp.Router) {
		api.Route("/names", func(rr phttp.Router) {
			nameshttp.Register(rr, svc)
		})
		api.Route("/meta", func(rr phttp.Router) {
			meta.Register(rr, opt.Store)
		})
	})
}
