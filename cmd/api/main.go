package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/eci-arep/secureweb/internal/config"
	"github.com/eci-arep/secureweb/internal/db"
	"github.com/eci-arep/secureweb/internal/handlers"
	"github.com/eci-arep/secureweb/internal/middleware"
	"github.com/eci-arep/secureweb/internal/repo"
	"github.com/eci-arep/secureweb/internal/retention"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == config.DefaultJWTSecret {
		log.Fatal("JWT_SECRET must be set to a non-default value when ENV=prod")
	}

	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	auditRepo := repo.NewAuditRepo(database)
	cronJob := retention.Run(auditRepo, cfg.AuditRetentionDays)
	defer cronJob.Stop()

	r := newRouter(database, cfg)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// newRouter wires repositories, handlers and middleware into the full route
// tree. Tests build the same router against a mocked *sql.DB.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	propertyRepo := repo.NewPropertyRepo(database)
	userRepo := repo.NewUserRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	propertyHandler := &handlers.PropertyHandler{Repo: propertyRepo, AuditRepo: auditRepo}
	authHandler := &handlers.AuthHandler{
		UserRepo:  userRepo,
		AuditRepo: auditRepo,
		Secret:    []byte(cfg.JWTSecret),
		TokenTTL:  time.Duration(cfg.JWTExpireHours) * time.Hour,
	}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello World, From Secureweb"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/properties", func(r chi.Router) {
		r.Get("/", propertyHandler.ListProperties)
		r.Post("/", propertyHandler.CreateProperty)
		r.Get("/{id}", propertyHandler.GetProperty)
		r.Put("/{id}", propertyHandler.UpdateProperty)
		r.Delete("/{id}", propertyHandler.DeleteProperty)
	})

	r.Route("/user", func(r chi.Router) {
		authLimiter := middleware.AuthRateLimiter()
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWT([]byte(cfg.JWTSecret)))
			r.Get("/me", authHandler.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT([]byte(cfg.JWTSecret)))
		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
