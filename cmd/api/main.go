package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Lelo88/mercado-inventory/internal/config"
	"github.com/Lelo88/mercado-inventory/internal/db"
	"github.com/Lelo88/mercado-inventory/internal/health"
	"github.com/Lelo88/mercado-inventory/internal/httpx"
	"github.com/Lelo88/mercado-inventory/internal/logging"
	"github.com/Lelo88/mercado-inventory/internal/metrics"
	"github.com/Lelo88/mercado-inventory/internal/products"
	"github.com/Lelo88/mercado-inventory/internal/views"
)

const (
	requestTimeout    = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// appPool es lo que la app usa del pool de pgx.
type appPool interface {
	health.Pinger
	products.DB
	Close()
}

// appDeps permite reemplazar las dependencias externas en tests.
type appDeps struct {
	loadConfig func() (config.Config, error)
	migrate    func(databaseURL string, logger *slog.Logger) error
	newPool    func(ctx context.Context, url string) (appPool, error)
	serve      func(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error
	logOutput  io.Writer
}

var fatalf = func(args ...any) {
	log.Fatal(args...)
}

var defaultDeps = func() appDeps {
	return appDeps{
		loadConfig: config.Load,
		migrate:    db.Migrate,
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return db.NewPool(ctx, url)
		},
		serve:     serveHTTP,
		logOutput: os.Stdout,
	}
}

func main() {
	// Contexto raíz del proceso: se cancela con SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, defaultDeps()); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logger := logging.New(deps.logOutput, cfg.LogLevel)
	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("using default session secret, set SESSION_SECRET outside local development")
	}

	// El esquema se asegura antes de aceptar tráfico.
	if err := deps.migrate(cfg.DatabaseURL, logger); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	router, err := buildRouter(cfg, pool, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	logger.Info("listening", "addr", server.Addr)
	return deps.serve(ctx, server, cfg.ShutdownTimeout)
}

func buildRouter(cfg config.Config, pool appPool, logger *slog.Logger) (http.Handler, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}
	appMetrics := metrics.New()

	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(logger))
	r.Use(appMetrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// Errores de routing se manejan a nivel router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(w, http.StatusNotFound, "Página não encontrada.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(w, http.StatusMethodNotAllowed, "Método não permitido.")
	})

	healthHandler := health.New(pool)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())

	service := products.NewService(products.NewRepository(pool), appMetrics, logger)
	handler := products.NewHandler(service, renderer, httpx.NewFlash(cfg.SessionSecret), logger)
	products.RegisterRoutes(r, handler)

	return r, nil
}

// serveHTTP atiende hasta que ctx se cancela y después drena las requests en curso.
func serveHTTP(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
