package main

import (
	"database/sql"
	"net/http"
	"time"

	"shelter-registry/internal/adapters/auth/central"
	"shelter-registry/internal/adapters/auth/jwtauth"
	"shelter-registry/internal/adapters/storage/postgres"
	"shelter-registry/internal/metrics"
	"shelter-registry/internal/platform/config"
	"shelter-registry/internal/platform/logger"
	"shelter-registry/internal/ports/auth"
	"shelter-registry/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel)

	// Verifier: JWT local si hay secret, servicio central si hay URL,
	// nil = modo dev (headers X-Debug-*).
	var verifier auth.AuthVerifier
	switch {
	case cfg.JWTSecret != "":
		verifier = jwtauth.NewVerifier(cfg.JWTSecret)
	case cfg.AuthBaseURL != "":
		client, err := central.NewClient(central.Config{BaseURL: cfg.AuthBaseURL})
		if err != nil {
			log.Fatal().Err(err).Msg("central auth client")
		}
		verifier = central.NewVerifier(client)
	default:
		log.Warn().Msg("no verifier configured, running in dev mode")
	}

	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		db, err = postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres open")
		}
		defer db.Close()
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Logger:       log,
		RateLimitRPS: cfg.RateLimitRPS,
		Metrics:      metrics.NewHTTPMetrics(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
