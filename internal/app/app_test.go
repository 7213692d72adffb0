package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/playerbase/internal/config"
	"github.com/simp-lee/playerbase/internal/domain"
)

type fakeHTTPServer struct {
	listenErr      error
	listenStarted  chan struct{}
	shutdownCalled bool
	stopCh         chan struct{}
	mu             sync.Mutex
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenStarted != nil {
		close(f.listenStarted)
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	if f.stopCh != nil {
		<-f.stopCh
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdownCalled = true
	f.mu.Unlock()
	if f.stopCh != nil {
		close(f.stopCh)
	}
	return nil
}

func (f *fakeHTTPServer) wasShutdownCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdownCalled
}

// stubServerSeams swaps the server and signal seams for the test's lifetime.
func stubServerSeams(t *testing.T, server httpServer, ctx context.Context, cancel context.CancelFunc) {
	t.Helper()
	origServer, origNotify := newHTTPServer, notifyContext
	t.Cleanup(func() {
		newHTTPServer, notifyContext = origServer, origNotify
	})
	newHTTPServer = func(string, http.Handler, time.Duration) httpServer { return server }
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return ctx, cancel
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "players.db")},
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

func cleanupTestApp(t *testing.T, a *App) {
	t.Helper()
	if a == nil {
		return
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func TestResolveCORSConfig(t *testing.T) {
	tests := []struct {
		name            string
		mode            string
		cfg             *config.CORSConfig
		wantOrigins     []string
		wantMethods     int
		wantCredentials bool
		wantMaxAge      time.Duration
	}{
		{"debug default", gin.DebugMode, &config.CORSConfig{}, []string{"*"}, 4, false, 12 * time.Hour},
		{"nil config", gin.DebugMode, nil, []string{"*"}, 4, false, 12 * time.Hour},
		{"release denies by default", gin.ReleaseMode, &config.CORSConfig{}, nil, 4, false, 12 * time.Hour},
		{"release allowlist", gin.ReleaseMode, &config.CORSConfig{
			AllowOrigins: []string{"https://admin.example.com"},
		}, []string{"https://admin.example.com"}, 4, false, 12 * time.Hour},
		{"methods and credentials", gin.ReleaseMode, &config.CORSConfig{
			AllowOrigins:     []string{"https://example.com"},
			AllowMethods:     []string{"GET"},
			AllowCredentials: true,
		}, []string{"https://example.com"}, 1, true, 12 * time.Hour},
		{"max age", gin.DebugMode, &config.CORSConfig{MaxAge: "1h"}, []string{"*"}, 4, false, time.Hour},
		{"bad max age keeps default", gin.DebugMode, &config.CORSConfig{MaxAge: "soon"}, []string{"*"}, 4, false, 12 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveCORSConfig(tt.mode, tt.cfg)

			if strings.Join(got.AllowOrigins, ",") != strings.Join(tt.wantOrigins, ",") {
				t.Errorf("AllowOrigins = %v, want %v", got.AllowOrigins, tt.wantOrigins)
			}
			if len(got.AllowMethods) != tt.wantMethods {
				t.Errorf("AllowMethods = %v, want %d entries", got.AllowMethods, tt.wantMethods)
			}
			if got.AllowCredentials != tt.wantCredentials {
				t.Errorf("AllowCredentials = %v, want %v", got.AllowCredentials, tt.wantCredentials)
			}
			if got.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %v, want %v", got.MaxAge, tt.wantMaxAge)
			}
		})
	}
}

func TestValidateGinMode(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode} {
		if err := validateGinMode(mode); err != nil {
			t.Errorf("validateGinMode(%q) = %v, want nil", mode, err)
		}
	}
	if err := validateGinMode("staging"); err == nil {
		t.Error("validateGinMode(staging) = nil, want error")
	}
}

func TestRequestTimeout(t *testing.T) {
	tests := map[string]time.Duration{
		"":      defaultRequestTimeout,
		"   ":   defaultRequestTimeout,
		"bogus": defaultRequestTimeout,
		"-5s":   defaultRequestTimeout,
		"15s":   15 * time.Second,
	}
	for in, want := range tests {
		if got := requestTimeout(in); got != want {
			t.Errorf("requestTimeout(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	mr := miniredis.RunT(t)
	deadAddr := mr.Addr()
	mr.Close()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"invalid mode", func(c *config.Config) { c.Server.Mode = "staging" }, "invalid server.mode"},
		{"database failure", func(c *config.Config) { c.Database.Driver = "unsupported" }, "setup database"},
		{"cache unreachable", func(c *config.Config) {
			c.Cache = config.CacheConfig{Enabled: true, URL: "redis://" + deadAddr}
		}, "setup cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)

			a, err := New(cfg)
			if err == nil {
				cleanupTestApp(t, a)
				t.Fatal("New() error = nil, want error")
			}
			if a != nil {
				t.Fatalf("New() app = %#v, want nil", a)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("New() error = %q, want contains %q", err.Error(), tt.wantErr)
			}
		})
	}

	if _, err := New(nil); err == nil {
		t.Error("New(nil) error = nil, want error")
	}
}

func TestNew_AutoMigrateOnlyInDebug(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	tests := []struct {
		mode      string
		wantTable bool
	}{
		{gin.DebugMode, true},
		{gin.TestMode, false},
		{gin.ReleaseMode, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Server.Mode = tt.mode

			a, err := New(cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer cleanupTestApp(t, a)

			if got := a.db.Migrator().HasTable(&domain.Player{}); got != tt.wantTable {
				t.Errorf("player table present = %v, want %v", got, tt.wantTable)
			}
		})
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNew_ServesPlayerAPIWithCacheAndMetrics(t *testing.T) {
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Server.Mode = gin.DebugMode
	cfg.Cache = config.CacheConfig{Enabled: true, URL: "redis://" + mr.Addr() + "/0", TTL: "1m", KeyPrefix: "e2e"}
	cfg.Metrics = config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "playerbase"}
	cfg.Player.DefaultPageSize = 2

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cleanupTestApp(t, a)

	created := doJSON(t, a.engine, http.MethodPost, "/rest/players",
		`{"name":"Frodo","title":"Ring bearer","race":"HOBBIT","profession":"ROGUE","birthday":1000000000000,"experience":1000}`)
	if created.Code != http.StatusOK {
		t.Fatalf("create = %d, body %s", created.Code, created.Body.String())
	}
	var p domain.Player
	if err := json.Unmarshal(created.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID <= 0 || p.Level != 4 || p.UntilNextLevel != 500 || p.Banned {
		t.Errorf("created player = %+v", p)
	}

	// A custom race tag rejects values outside the enumeration.
	bad := doJSON(t, a.engine, http.MethodPost, "/rest/players",
		`{"name":"Smeagol","title":"x","race":"GOBLIN","profession":"ROGUE","birthday":1000000000000,"experience":1}`)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("create with bad race = %d, want 400", bad.Code)
	}

	if got := doJSON(t, a.engine, http.MethodGet, "/rest/players/1", ""); got.Code != http.StatusOK {
		t.Fatalf("get = %d", got.Code)
	}
	if !mr.Exists("e2e:player:1") {
		t.Error("expected player 1 to be cached after get")
	}

	for i := 0; i < 2; i++ {
		doJSON(t, a.engine, http.MethodPost, "/rest/players",
			`{"name":"Sam","title":"Gardener","race":"HOBBIT","profession":"WARRIOR","birthday":1000000000000,"experience":5000}`)
	}
	list := doJSON(t, a.engine, http.MethodGet, "/rest/players?race=HOBBIT", "")
	var players []domain.Player
	if err := json.Unmarshal(list.Body.Bytes(), &players); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(players) != 2 {
		t.Errorf("list returned %d players, want configured page size 2", len(players))
	}

	count := doJSON(t, a.engine, http.MethodGet, "/rest/players/count", "")
	if strings.TrimSpace(count.Body.String()) != "3" {
		t.Errorf("count body = %q, want 3", count.Body.String())
	}

	if got := doJSON(t, a.engine, http.MethodDelete, "/rest/players/1", ""); got.Code != http.StatusOK {
		t.Fatalf("delete = %d", got.Code)
	}
	if mr.Exists("e2e:player:1") {
		t.Error("expected cache entry to be evicted after delete")
	}
	if got := doJSON(t, a.engine, http.MethodGet, "/rest/players/1", ""); got.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", got.Code)
	}

	health := doJSON(t, a.engine, http.MethodGet, "/health", "")
	if !strings.Contains(health.Body.String(), `"cache":"ok"`) {
		t.Errorf("health body = %s", health.Body.String())
	}

	metrics := doJSON(t, a.engine, http.MethodGet, "/metrics", "")
	if !strings.Contains(metrics.Body.String(), `route="/rest/players/:id"`) {
		t.Errorf("metrics missing player route series:\n%s", metrics.Body.String())
	}
}

func TestRun_ReturnsError_WhenListenFails(t *testing.T) {
	listenErr := errors.New("listen failed")
	ctx, cancel := context.WithCancel(context.Background())
	stubServerSeams(t, &fakeHTTPServer{listenErr: listenErr}, ctx, cancel)

	a := &App{
		engine: gin.New(),
		logger: logger.Default(),
		cfg:    &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080}},
	}

	err := a.Run()
	if err == nil || !strings.Contains(err.Error(), "server error") {
		t.Fatalf("Run() error = %v, want server error", err)
	}
	if !errors.Is(err, listenErr) {
		t.Fatalf("Run() error = %v, want wraps %v", err, listenErr)
	}
}

func TestRun_ShutdownSignal_ReleasesResources(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	server := &fakeHTTPServer{listenStarted: make(chan struct{}), stopCh: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	stubServerSeams(t, server, ctx, cancel)

	a := &App{
		engine: gin.New(),
		db:     db,
		redis:  rdb,
		logger: logger.Default(),
		cfg:    &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080}},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case <-server.listenStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening in time")
	}

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return in time after shutdown signal")
	}

	if !server.wasShutdownCalled() {
		t.Error("expected server Shutdown() to be called")
	}
	if sqlDB.Ping() == nil {
		t.Error("expected database connection to be closed")
	}
	if !errors.Is(rdb.Ping(context.Background()).Err(), redis.ErrClosed) {
		t.Error("expected redis client to be closed")
	}
}

func TestRun_NilReceiverAndConfig(t *testing.T) {
	var nilApp *App
	if err := nilApp.Run(); err == nil {
		t.Error("nil app Run() = nil, want error")
	}
	if err := (&App{engine: gin.New()}).Run(); err == nil {
		t.Error("Run() without config = nil, want error")
	}
}
