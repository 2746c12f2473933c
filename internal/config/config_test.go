package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, path, err := Load(LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("config = %+v, want %+v", cfg, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	written := writeConfig(t, dir, `
[log]
level = "debug"

[cache]
backend = "redis"
ttl = "1h"

[redis]
addr = "cache.internal:6379"
`)

	cfg, path, err := Load(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != written {
		t.Errorf("path = %q, want %q", path, written)
	}
	if cfg.Log.Level != "debug" || cfg.Cache.Backend != "redis" || cfg.Cache.TTL != time.Hour {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Redis.Addr != "cache.internal:6379" || cfg.Redis.Prefix != "depsort:" {
		t.Errorf("redis = %+v", cfg.Redis)
	}

	opts := cfg.CacheOptions()
	if opts.Backend != "redis" || opts.RedisAddr != "cache.internal:6379" {
		t.Errorf("cache options = %+v", opts)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[server]\naddr = \":9000\"\n")
	t.Setenv("DEPSORT_SERVER_ADDR", ":9999")
	t.Setenv("DEPSORT_CACHE_BACKEND", "none")

	cfg, _, err := Load(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("server.addr = %q, want env value", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache.backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	if _, _, err := Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Error("missing explicit config file should fail")
	}

	path := writeConfig(t, t.TempDir(), "[mongo]\ndatabase = \"ordering\"\n")
	cfg, got, err := Load(LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatal(err)
	}
	if got != path || cfg.Mongo.Database != "ordering" {
		t.Errorf("Load = %+v, %q", cfg.Mongo, got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad backend": "[cache]\nbackend = \"memcached\"\n",
		"bad level":   "[log]\nlevel = \"loud\"\n",
		"bad toml":    "[cache\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, content)
			if _, _, err := Load(LoadOptions{ConfigDirPath: dir}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(dir, filepath.Join("cfg", AppName)) {
		t.Errorf("Dir = %q", dir)
	}
}
