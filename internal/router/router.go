package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "shelter-registry/internal/adapters/storage/memory"
	pg "shelter-registry/internal/adapters/storage/postgres"
	"shelter-registry/internal/domain/dogs"
	"shelter-registry/internal/domain/shelters"
	"shelter-registry/internal/metrics"
	"shelter-registry/internal/middleware"
	"shelter-registry/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger       zerolog.Logger
	RateLimitRPS int

	// Opcional: instrumentación HTTP. nil = sin métricas (p.ej. en tests,
	// para no duplicar registros en el registry global).
	Metrics *metrics.HTTPMetrics
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.RateLimit(opts.RateLimitRPS))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		dogRepo     dogs.Repository
		shelterRepo shelters.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		dogRepo = pg.NewDogsRepo(db)
		shelterRepo = pg.NewSheltersRepo(db)
	} else {
		dogRepo = mem.NewDogsRepo()
		shelterRepo = mem.NewSheltersRepo()
	}

	dogsSvc := dogs.NewService(dogRepo)
	sheltersSvc := shelters.NewService(shelterRepo)

	dogs.RegisterRoutes(r, dogsSvc)
	shelters.RegisterRoutes(r, sheltersSvc)

	return r
}
