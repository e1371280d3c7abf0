package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bundlegraph/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
project_root = "game"
graph = "Assets/BundleGraph/main.toml"
target = "ios"
log_level = "debug"

[cache]
backend = "redis"
dir = "tmp/cache"
redis_addr = "cache:6379"
redis_db = 2
ttl = "36h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	base := filepath.Dir(path)
	if cfg.ProjectRoot != filepath.Join(base, "game") {
		t.Errorf("ProjectRoot = %q", cfg.ProjectRoot)
	}
	if cfg.Graph != filepath.Join(base, "Assets/BundleGraph/main.toml") {
		t.Errorf("Graph = %q", cfg.Graph)
	}
	if cfg.Target != "ios" || cfg.Level() != log.DebugLevel {
		t.Errorf("Target = %q, Level = %v", cfg.Target, cfg.Level())
	}
	want := CacheConfig{Backend: BackendRedis, Dir: filepath.Join(base, "tmp/cache"), RedisAddr: "cache:6379", RedisDB: 2, TTL: Duration{36 * time.Hour}}
	if cfg.Cache != want {
		t.Errorf("Cache = %+v, want %+v", cfg.Cache, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	cfg, err := Load(writeConfig(t, `graph = "g.json"`))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if cfg.Target != DefaultTarget || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Cache.Dir != filepath.Join("/tmp/xdg", "bundlegraph") {
		t.Errorf("Cache = %+v", cfg.Cache)
	}

	before := *cfg
	if err := cfg.ValidateAndSetDefaults(); err != nil || *cfg != before {
		t.Errorf("second ValidateAndSetDefaults changed config: %+v, err %v", cfg, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"unknown key", `grpah = "x"`, errors.ErrCodeInvalidInput},
		{"bad toml", `graph = `, errors.ErrCodeInvalidInput},
		{"bad ttl", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), FileName))
	if err != nil || cfg.Graph != "" {
		t.Errorf("LoadOptional(missing) = %+v, %v", cfg, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{Cache: CacheConfig{Backend: BackendNone}}, false},
		{"bad backend", Config{Cache: CacheConfig{Backend: "s3"}}, true},
		{"bad level", Config{LogLevel: "loud"}, true},
		{"negative db", Config{Cache: CacheConfig{Backend: BackendRedis, RedisDB: -1}}, true},
		{"negative ttl", Config{Cache: CacheConfig{Backend: BackendNone, TTL: Duration{-time.Second}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedisDefaultAddr(t *testing.T) {
	cfg := Config{Cache: CacheConfig{Backend: BackendRedis}}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.RedisAddr != DefaultRedisAddr {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
}
