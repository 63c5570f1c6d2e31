// @title         ensnorm API
// @version       0.1.0
// @description   ENSIP-15 name normalization endpoints

package main

import (
	"context"

	"ensnorm/internal/core/ensip"
	"ensnorm/internal/platform/config"
	"ensnorm/internal/platform/logger"
	phttp "ensnorm/internal/platform/net/http"
	"ensnorm/internal/platform/store"

	"ensnorm/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	// bring up logging early
	l := logger.Get()

	// the engine compiles the embedded tables once; everything after this
	// point shares the immutable spec
	eng, err := ensip.New()
	if err != nil {
		l.Panic().Err(err).Msg("spec tables failed to compile")
	}

	// the journal backends are optional; the API works without them
	var st *store.Store
	if pgCfg.MayBool("ENABLED", false) || chCfg.MayBool("ENABLED", false) {
		st, err = store.Open(
			context.Background(),
			store.Config{
				AppName: "ensnorm",
				PG: store.PGConfig{
					Enabled:     pgCfg.MayBool("ENABLED", false),
					URL:         pgCfg.MayString("DBURL", ""),
					MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
					SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
					LogSQL:      pgCfg.MayBool("LOG_SQL", false),
				},
				CH: store.CHConfig{
					Enabled:    chCfg.MayBool("ENABLED", false),
					URL:        chCfg.MayString("DBURL", ""),
					ClientName: "ensnorm",
					ClientTag:  "api",
				},
			},
			store.WithLogger(*l),
		)
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
	}

	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:        apiCfg,
			Store:         st,
			Engine:        eng,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
