package app

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

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/playerbase/internal/config"
	"github.com/simp-lee/playerbase/internal/domain"
	"github.com/simp-lee/playerbase/internal/middleware"
	"github.com/simp-lee/playerbase/internal/module/player"
)

const (
	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// App holds the wired dependencies and the HTTP engine.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	redis  *redis.Client
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      2 * timeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New wires logger, database, optional cache, the player module, middleware
// and routes from cfg. Anything opened before a failing step is closed again.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if !success {
			closeLogger(log)
		}
	}()

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if !success {
			closeDatabase(db, log.Logger)
		}
	}()

	if cfg.Server.Mode == gin.DebugMode {
		if err := db.AutoMigrate(&domain.Player{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")
	}

	var rdb *redis.Client
	if cfg.Cache.Enabled {
		rdb, err = config.SetupRedis(&cfg.Cache, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("setup cache: %w", err)
		}
		defer func() {
			if !success {
				closeRedis(rdb, log.Logger)
			}
		}()
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := player.RegisterValidations(v); err != nil {
			return nil, fmt.Errorf("register validations: %w", err)
		}
	}

	// repository → (cache) → service → handler
	var repo domain.PlayerRepository = player.NewPlayerRepository(db)
	if rdb != nil {
		repo = player.NewCachedRepository(repo, rdb, cfg.Cache.TTLDuration(), cfg.Cache.KeyPrefix)
	}
	svc := player.NewPlayerService(repo, cfg.Player.DefaultPageSize)
	playerModule := player.NewModule(player.NewPlayerHandler(svc))

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics(cfg.Metrics.Namespace)
	}

	handlers := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(resolveCORSConfig(cfg.Server.Mode, &cfg.Server.CORS)),
	}
	if metrics != nil {
		handlers = append(handlers, metrics.Middleware())
	}
	engine.Use(handlers...)

	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:     []Module{playerModule},
		DB:          db,
		Redis:       rdb,
		Metrics:     metrics,
		MetricsPath: cfg.Metrics.Path,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		redis:  rdb,
		logger: log,
		cfg:    cfg,
	}, nil
}

// resolveCORSConfig overlays the configured CORS settings on the defaults.
// Release mode without an explicit allowlist denies cross-origin requests.
func resolveCORSConfig(mode string, cfg *config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	if cfg == nil {
		cfg = &config.CORSConfig{}
	}

	switch {
	case len(cfg.AllowOrigins) > 0:
		out.AllowOrigins = cfg.AllowOrigins
	case mode == gin.ReleaseMode:
		out.AllowOrigins = nil
	}
	if len(cfg.AllowMethods) > 0 {
		out.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		out.AllowHeaders = cfg.AllowHeaders
	}
	out.AllowCredentials = cfg.AllowCredentials
	if d, err := time.ParseDuration(cfg.MaxAge); err == nil && d > 0 {
		out.MaxAge = d
	}
	return out
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// requestTimeout returns server.timeout, or the default when it is unset or
// unparseable.
func requestTimeout(value string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return defaultRequestTimeout
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully and
// releases the database, cache and logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine, requestTimeout(a.cfg.Server.Timeout))

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	closeRedis(a.redis, log)
	closeDatabase(a.db, log)

	log.Info("server stopped")
	closeLogger(a.logger)

	return runErr
}

func closeDatabase(db *gorm.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

func closeRedis(rdb *redis.Client, log *slog.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		log.Error("cache close error", slog.Any("error", err))
		return
	}
	log.Info("cache connection closed")
}

func closeLogger(log *logger.Logger) {
	if log == nil {
		return
	}
	if err := log.Close(); err != nil {
		slog.Error("logger close error", slog.Any("error", err))
	}
}
