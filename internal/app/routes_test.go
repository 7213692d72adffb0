package app

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/simp-lee/playerbase/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type healthBody struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func getHealth(t *testing.T, h gin.HandlerFunc, ctx context.Context) (int, healthBody) {
	t.Helper()
	r := gin.New()
	r.GET("/health", h)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body healthBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return w.Code, body
}

func TestHealthHandler(t *testing.T) {
	closedDB := openTestSQLiteDB(t)
	if sqlDB, err := closedDB.DB(); err == nil {
		sqlDB.Close()
	}

	mr := miniredis.RunT(t)
	liveRedis := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { liveRedis.Close() })

	deadRedis := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { deadRedis.Close() })

	tests := []struct {
		name       string
		db         *gorm.DB
		rdb        *redis.Client
		wantCode   int
		wantStatus string
		wantDB     string
		wantCache  string
	}{
		{"all ok", openTestSQLiteDB(t), liveRedis, http.StatusOK, "ok", "ok", "ok"},
		{"cache disabled", openTestSQLiteDB(t), nil, http.StatusOK, "ok", "ok", "disabled"},
		{"cache down", openTestSQLiteDB(t), deadRedis, http.StatusOK, "degraded", "ok", "error"},
		{"database closed", closedDB, nil, http.StatusServiceUnavailable, "degraded", "error", "disabled"},
		{"database missing", nil, nil, http.StatusServiceUnavailable, "degraded", "error", "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := getHealth(t, healthHandler(tt.db, tt.rdb), nil)

			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			if body.Components["database"] != tt.wantDB {
				t.Errorf("database = %q, want %q", body.Components["database"], tt.wantDB)
			}
			if body.Components["cache"] != tt.wantCache {
				t.Errorf("cache = %q, want %q", body.Components["cache"], tt.wantCache)
			}
		})
	}
}

func TestHealthHandler_UsesRequestContextTimeout(t *testing.T) {
	registerBlockingPingDriver()

	sqlDB, err := sql.Open(blockingPingDriverName, "")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)

	start := time.Now()
	code, _ := getHealth(t, healthHandler(db, nil), ctx)
	elapsed := time.Since(start)

	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
	if elapsed > 300*time.Millisecond {
		t.Fatalf("expected health response to honor request context timeout, elapsed=%v", elapsed)
	}
}

type mockModule struct {
	called bool
	prefix string
}

func (m *mockModule) RegisterRoutes(rest *gin.RouterGroup) {
	m.called = true
	m.prefix = rest.BasePath()
	rest.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, "pong") })
}

func TestRegisterRoutes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		router  *gin.Engine
		deps    *RouteDeps
		wantErr string
	}{
		{"nil router", nil, &RouteDeps{}, "router is nil"},
		{"nil deps", gin.New(), nil, "route dependencies are nil"},
		{"no modules", gin.New(), &RouteDeps{}, "at least one module is required"},
		{"nil module entry", gin.New(), &RouteDeps{Modules: []Module{&mockModule{}, nil}}, "module at index 1 is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterRoutes(tt.router, tt.deps)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("RegisterRoutes() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterRoutes_MountsModulesUnderRest(t *testing.T) {
	m := &mockModule{}
	r := gin.New()
	if err := RegisterRoutes(r, &RouteDeps{Modules: []Module{m}, DB: openTestSQLiteDB(t)}); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	if !m.called {
		t.Fatal("expected module RegisterRoutes to be called")
	}
	if m.prefix != "/rest" {
		t.Errorf("module prefix = %q, want /rest", m.prefix)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rest/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /rest/ping = %d, want 200", w.Code)
	}
}

func TestRegisterRoutes_NoRoute(t *testing.T) {
	r := gin.New()
	if err := RegisterRoutes(r, &RouteDeps{Modules: []Module{&mockModule{}}}); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}

	for _, path := range []string{"/nonexistent", "/rest/unknown", "/api/v1/users"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
		if got := strings.TrimSpace(w.Body.String()); got != `{"code":404,"message":"not found","data":null}` {
			t.Errorf("%s: body = %s", path, got)
		}
	}
}

func TestRegisterRoutes_Metrics(t *testing.T) {
	tests := []struct {
		name     string
		metrics  *middleware.Metrics
		path     string
		request  string
		wantCode int
	}{
		{"default path", middleware.NewMetrics("test"), "", "/metrics", http.StatusOK},
		{"custom path", middleware.NewMetrics("test"), "/internal/metrics", "/internal/metrics", http.StatusOK},
		{"disabled", nil, "/metrics", "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			err := RegisterRoutes(r, &RouteDeps{
				Modules:     []Module{&mockModule{}},
				Metrics:     tt.metrics,
				MetricsPath: tt.path,
			})
			if err != nil {
				t.Fatalf("RegisterRoutes: %v", err)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.request, nil))
			if w.Code != tt.wantCode {
				t.Errorf("GET %s = %d, want %d", tt.request, w.Code, tt.wantCode)
			}
		})
	}
}

func openTestSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db
}

const blockingPingDriverName = "playerbase_blocking_ping"

var registerBlockingPingDriverOnce sync.Once

func registerBlockingPingDriver() {
	registerBlockingPingDriverOnce.Do(func() {
		sql.Register(blockingPingDriverName, blockingPingDriver{})
	})
}

type blockingPingDriver struct{}

func (blockingPingDriver) Open(string) (driver.Conn, error) {
	return blockingPingConn{}, nil
}

type blockingPingConn struct{}

func (blockingPingConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (blockingPingConn) Close() error                        { return nil }
func (blockingPingConn) Begin() (driver.Tx, error)           { return blockingPingTx{}, nil }

func (blockingPingConn) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type blockingPingTx struct{}

func (blockingPingTx) Commit() error   { return nil }
func (blockingPingTx) Rollback() error { return nil }
