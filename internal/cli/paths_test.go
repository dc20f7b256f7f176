package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/otsaudit/pkg/cache"
	"github.com/matzehuels/otsaudit/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home default", "", filepath.Join(home, ".cache", appName)},
		{"xdg cache home", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestOpenCacheLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")
	envDir := filepath.Join(t.TempDir(), "env-cache")
	configDir := filepath.Join(t.TempDir(), "config-cache")

	tests := []struct {
		name     string
		cfgDir   string
		env      map[string]string
		backend  string
		wantDir  string // empty when no file cache is expected
		location string
	}{
		{"default dir", "", nil, config.CacheFile, filepath.Join(home, ".cache", appName), filepath.Join(home, ".cache", appName)},
		{"config dir", configDir, nil, config.CacheFile, configDir, configDir},
		{"env overrides config dir", configDir, map[string]string{config.EnvCacheDir: envDir}, config.CacheFile, envDir, envDir},
		{"disabled", configDir, nil, config.CacheNone, "", "(disabled)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Cache.Dir = tt.cfgDir
			cfg.Cache.Backend = tt.backend
			config.ApplyEnv(&cfg, func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})

			ch, err := openCache(context.Background(), cfg)
			if err != nil {
				t.Fatalf("openCache: %v", err)
			}
			defer ch.Close()

			fc, isFile := ch.(*cache.FileCache)
			switch {
			case tt.wantDir == "" && isFile:
				t.Errorf("got file cache at %s, want no file cache", fc.Dir())
			case tt.wantDir != "" && !isFile:
				t.Fatalf("cache = %T, want *cache.FileCache", ch)
			case isFile && fc.Dir() != tt.wantDir:
				t.Errorf("Dir() = %q, want %q", fc.Dir(), tt.wantDir)
			}
			if tt.wantDir != "" {
				if _, err := os.Stat(tt.wantDir); err != nil {
					t.Errorf("cache dir not created: %v", err)
				}
			}
			if got := cacheLocation(cfg, ch); got != tt.location {
				t.Errorf("cacheLocation = %q, want %q", got, tt.location)
			}
		})
	}
}
