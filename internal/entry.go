// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/starford/bloggerbox/internal/api"
	"github.com/starford/bloggerbox/internal/blogservice"
	"github.com/starford/bloggerbox/internal/cache"
	"github.com/starford/bloggerbox/internal/mcpserver"
	"github.com/starford/bloggerbox/internal/sse"
	"github.com/starford/bloggerbox/internal/store"
)

// runtime holds everything opened for one process lifetime.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	level  *slog.LevelVar
	db     *store.DB
	rdb    *redis.Client
}

// setup applies opts, installs the JSON logger and opens the migrated database.
func setup(ctx context.Context, opts []Option) (*application, *runtime, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	dialect, dsn := cfg.Database.Source()
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("database_driver", string(dialect)),
		slog.Bool("cache_enabled", cfg.Cache.Enabled()),
		slog.Bool("events_enabled", cfg.Events.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := store.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	applied, err := db.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("Database migrated", slog.Any("versions", applied))
	}

	return app, &runtime{cfg: cfg, logger: logger, level: level, db: db}, nil
}

// services builds the category and post services. The Redis cache is used when
// configured and reachable; otherwise lookups go straight to the database.
func (rt *runtime) services(ctx context.Context, opts ...blogservice.Option) (*blogservice.CategoryService, *blogservice.PostService) {
	var categories store.CategoryRepository = rt.db
	if rt.cfg.Cache.Enabled() {
		rdb, err := cache.Connect(ctx, rt.cfg.Cache.Redis.Options())
		if err != nil {
			rt.logger.Warn("Redis unavailable, category cache disabled", slog.String("error", err.Error()))
		} else {
			rt.rdb = rdb
			categories = cache.NewCategoryCache(rdb, rt.db, rt.cfg.Cache.TTL)
			rt.logger.Info("Category cache enabled", slog.String("redis_address", rt.cfg.Cache.Redis.Address))
		}
	}

	cats := blogservice.NewCategoryService(categories, rt.db, opts...)
	posts := blogservice.NewPostService(rt.db, cats, opts...)
	return cats, posts
}

func (rt *runtime) close() {
	if rt.rdb != nil {
		_ = rt.rdb.Close()
	}
	_ = rt.db.Close()
}

// Run starts the HTTP server with the given options and blocks until a
// shutdown signal arrives or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	app, rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg, logger := rt.cfg, rt.logger

	var (
		serviceOpts []blogservice.Option
		broker      *sse.Broker
		events      http.Handler
	)
	if cfg.Events.Enabled {
		broker = sse.NewBroker(cfg.Events.RefreshInterval)
		defer broker.Close()
		serviceOpts = append(serviceOpts, blogservice.WithNotifier(broker))
		events = broker
	}

	cats, posts := rt.services(ctx, serviceOpts...)
	apiRouter := api.NewRouter(cats, posts, cfg.App.CORS.AllowedOrigins, events)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := rt.db.Ping(pingCtx); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/v1", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		if _, statErr := os.Stat(app.configPath); statErr == nil {
			g.Go(func() error {
				if err := watchConfig(gCtx, app.configPath, rt.level, logger); err != nil {
					logger.Warn("config watcher disabled", slog.String("error", err.Error()))
				}
				return nil
			})
		}
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Open SSE streams only end when the broker closes them.
		if broker != nil {
			logger.Info("Closing event streams", slog.Int("clients", broker.ClientCount()))
			broker.Close()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the config watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
// Logs go to stderr unless WithLogOutput says otherwise, since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	cats, posts := rt.services(ctx)
	rt.logger.Info("MCP server starting on stdio")
	return mcpserver.New(cats, posts, app.version).ServeStdio()
}

// Migrate applies pending schema migrations and returns the resulting schema version.
func Migrate(ctx context.Context, opts ...Option) (int64, error) {
	_, rt, err := setup(ctx, opts)
	if err != nil {
		return 0, err
	}
	defer rt.close()
	return rt.db.SchemaVersion(ctx)
}
