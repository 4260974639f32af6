package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/bloggerbox/internal/store"
	pkgconfig "github.com/starford/bloggerbox/pkg/config"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache should be off without a redis address")
	}
	dialect, dsn := cfg.Database.Source()
	if dialect != store.DialectSQLite || dsn != "./bloggerbox.db" {
		t.Errorf("source = %s %s", dialect, dsn)
	}
}

func TestDatabaseConfig_UnknownDriver(t *testing.T) {
	cfg := DatabaseConfig{Driver: "oracle"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown driver should fail validation")
	}
}

func TestDatabaseConfig_PostgresNeedsDSN(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", SQLite: SQLiteConfig{Path: "x.db"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("postgres without dsn should fail")
	}
	cfg.Postgres.DSN = "postgres://localhost/blog"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("postgres with dsn should pass: %v", err)
	}
	dialect, dsn := cfg.Source()
	if dialect != store.DialectPostgres || dsn != "postgres://localhost/blog" {
		t.Errorf("source = %s %s", dialect, dsn)
	}
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	err := cfg.Validate()
	if err == nil {
		t.Fatal("out of range port should fail")
	}
	if !strings.HasPrefix(err.Error(), "app:") {
		t.Errorf("error should name the section: %v", err)
	}
}

func TestCacheConfig_RedisDB(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Cache.Redis = RedisConfig{Address: "localhost:6379", DB: 16}
	if err := cfg.Validate(); err == nil {
		t.Fatal("redis db 16 should fail")
	}
	cfg.Cache.Redis.DB = 2
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if !cfg.Cache.Enabled() {
		t.Error("cache should be on with an address")
	}
	if opts := cfg.Cache.Redis.Options(); opts.Address != "localhost:6379" || opts.DB != 2 {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("BLOGGERBOX_TEST_DSN", "postgres://db/blog")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  log_level: debug
  http:
    port: 9090
  cors:
    allowed_origins: ["https://blog.example"]
database:
  driver: postgres
  postgres:
    dsn: ${BLOGGERBOX_TEST_DSN}
cache:
  ttl: 30s
events:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Database.Postgres.DSN != "postgres://db/blog" {
		t.Errorf("dsn = %q, want env expanded", cfg.Database.Postgres.DSN)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Events.Enabled {
		t.Error("events should be disabled")
	}
	if cfg.Events.RefreshInterval != 2*time.Second {
		t.Errorf("unset keys should keep defaults, refresh = %v", cfg.Events.RefreshInterval)
	}
	if len(cfg.App.CORS.AllowedOrigins) != 1 || cfg.App.CORS.AllowedOrigins[0] != "https://blog.example" {
		t.Errorf("cors = %v", cfg.App.CORS.AllowedOrigins)
	}
}
