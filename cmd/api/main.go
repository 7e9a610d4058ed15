package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/speccheck/internal/application"
	appcompliance "github.com/bryanwahyu/speccheck/internal/application/compliance"
	"github.com/bryanwahyu/speccheck/internal/config"
	domain "github.com/bryanwahyu/speccheck/internal/domain/compliance"
	"github.com/bryanwahyu/speccheck/internal/domain/extract"
	"github.com/bryanwahyu/speccheck/internal/domain/registry"
	"github.com/bryanwahyu/speccheck/internal/domain/runerrors"
	openaiClient "github.com/bryanwahyu/speccheck/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/speccheck/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/speccheck/internal/infra/db/postgres"
	"github.com/bryanwahyu/speccheck/internal/infra/httpserver"
	"github.com/bryanwahyu/speccheck/internal/infra/render"
	githubSource "github.com/bryanwahyu/speccheck/internal/infra/source/github"
	minioStore "github.com/bryanwahyu/speccheck/internal/infra/storage"
	"github.com/bryanwahyu/speccheck/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (driver chosen in config)
	var db *sql.DB
	var repo domain.Repository
	var errLog runerrors.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewRunRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewRunRepository(db)
		errLog = mysqlp.NewRunErrorRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init registry
	reg, err := registry.Default()
	if err != nil {
		log.Fatalf("registry init error: %v", err)
	}
	for _, spec := range reg.ListSpecs() {
		if err := middleware.ValidateURL(spec.SourceURL); err != nil {
			log.Fatalf("registry spec %s source URL rejected: %v", spec.ID, err)
		}
	}
	for _, impl := range reg.ListImplementations() {
		if err := middleware.ValidateURL(impl.RepoURL); err != nil {
			log.Fatalf("registry implementation %s repo URL rejected: %v", impl.Name, err)
		}
	}

	// init source provider + reasoning client
	provider := githubSource.New(cfg.SourceToken(), cfg.Source.CacheDir)
	reasoner := openaiClient.NewClient(cfg.APIKey(), cfg.LLM.Model)

	limits := extract.DefaultLimits()
	if cfg.Analysis.MaxRegionBytes > 0 {
		limits.MaxRegionBytes = cfg.Analysis.MaxRegionBytes
	}
	if cfg.Analysis.MaxExcerptBytes > 0 {
		limits.MaxTotalBytes = cfg.Analysis.MaxExcerptBytes
	}

	// init service
	svc := &appcompliance.Service{
		Registry:  reg,
		Provider:  provider,
		Analyzer:  appcompliance.NewAnalyzer(reasoner),
		Repo:      repo,
		Errors:    errLog,
		Artifacts: store,
		Renderer:  render.New(cfg.Output.Dir),
		Clock:     application.SystemClock{},
		Pool: appcompliance.Orchestrator{
			Workers:     cfg.Analysis.Workers,
			TaskTimeout: cfg.Analysis.TaskTimeout,
		},
		Limits:  limits,
		Formats: cfg.Output.Formats,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(cfg.Security.RateLimitBurst, cfg.Security.RateLimitPerSec))
	if keys := cfg.InboundAPIKeys(); len(keys) > 0 {
		mux.Use(middleware.APIKeyAuth(keys))
	} else {
		log.Printf("no %s set, API auth disabled", cfg.Security.APIKeysEnv)
	}
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Mount("/", httpserver.NewRouter(svc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
