package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/simp-lee/playerbase/internal/middleware"
	"github.com/simp-lee/playerbase/internal/pkg"
)

const (
	restPrefix         = "/rest"
	defaultMetricsPath = "/metrics"
	healthPingTimeout  = time.Second
)

// RouteDeps holds everything RegisterRoutes mounts.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB
	// Redis is nil when the cache is disabled.
	Redis *redis.Client
	// Metrics is nil when metrics are disabled.
	Metrics     *middleware.Metrics
	MetricsPath string
}

// RegisterRoutes mounts the health and metrics endpoints, every module under
// /rest, and the JSON 404 fallback.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}

	r.GET("/health", healthHandler(deps.DB, deps.Redis))

	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = defaultMetricsPath
		}
		r.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	rest := r.Group(restPrefix)
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(rest)
	}

	r.NoRoute(pkg.NotFound)

	return nil
}

// healthHandler reports the database and, when configured, the cache.
// A failed database answers 503; a failed cache only degrades the status
// because reads fall back to the database.
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		components := gin.H{"database": "ok"}

		if err := pingDatabase(ctx, db); err != nil {
			components["database"] = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if rdb != nil {
			components["cache"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				components["cache"] = "error"
				status = "degraded"
			}
		} else {
			components["cache"] = "disabled"
		}

		c.JSON(code, gin.H{
			"status":     status,
			"components": components,
		})
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
