package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/otsaudit/pkg/errors"
)

// Environment variables read by [ApplyEnv].
const (
	EnvRedisURL   = "OTSAUDIT_REDIS_URL"
	EnvMongoURI   = "OTSAUDIT_MONGO_URI"
	EnvRepository = "OTSAUDIT_MAVEN_REPO"
	EnvCacheDir   = "OTSAUDIT_CACHE_DIR"
)

// Load reads a TOML (.toml) or YAML (.yaml, .yml) file over [Defaults].
// Keys absent from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Decode(filepath.Ext(path), data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, nil
}

// Decode decodes data in the format named by ext into cfg.
func Decode(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return err
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undec[0].String())
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored unless required is true.
func LoadEnvFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if !required && os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "env file")
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "env file %s", path)
	}
	return nil
}

// ApplyEnv overrides connection settings from the environment. lookup is
// usually os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		cfg.Cache.RedisURL = v
		if cfg.Cache.Backend == CacheFile {
			cfg.Cache.Backend = CacheRedis
		}
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		cfg.Store.MongoURI = v
	}
	if v, ok := lookup(EnvRepository); ok && v != "" {
		cfg.Repository = v
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		cfg.Cache.Dir = v
	}
}
