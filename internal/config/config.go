package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config is the effective runtime configuration.
type Config struct {
	Provider       string        `mapstructure:"provider"`
	Model          string        `mapstructure:"model"`
	BaseURL        string        `mapstructure:"baseUrl"`
	APIKey         string        `mapstructure:"apiKey"`
	TimeoutSeconds int           `mapstructure:"timeoutSeconds"`
	Strict         bool          `mapstructure:"strict"`
	Format         string        `mapstructure:"format"`
	MaxConcurrency int           `mapstructure:"maxConcurrency"`
	RulesFile      string        `mapstructure:"rulesFile"`
	Debug          bool          `mapstructure:"debug"`
	Cache          CacheConfig   `mapstructure:"cache"`
	Privacy        PrivacyConfig `mapstructure:"privacy"`
}

// CacheConfig controls the model response cache.
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Dir        string `mapstructure:"dir"`
	TTLSeconds int    `mapstructure:"ttlSeconds"`
}

// PrivacyConfig controls redaction of model traffic.
type PrivacyConfig struct {
	RedactSecrets bool     `mapstructure:"redactSecrets"`
	RedactPaths   []string `mapstructure:"redactPaths"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 30,
		Format:         "text",
		MaxConcurrency: 4,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "critic"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "critic"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "critic"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "critic"), nil
	default:
		return filepath.Join(home, ".config", "critic"), nil
	}
}

// Load builds the effective config: defaults <- file <- env <- overrides.
// path selects an explicit config file; empty falls back to config.yaml in
// the platform config directory. The overrides map comes from CLI flags and
// should only carry values the user actually set.
func Load(path string, overrides map[string]string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if dir, err := ConfigDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CRITIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	mergeOverrides(&cfg, overrides)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("provider", d.Provider)
	v.SetDefault("model", d.Model)
	v.SetDefault("baseUrl", d.BaseURL)
	v.SetDefault("apiKey", d.APIKey)
	v.SetDefault("timeoutSeconds", d.TimeoutSeconds)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("format", d.Format)
	v.SetDefault("maxConcurrency", d.MaxConcurrency)
	v.SetDefault("rulesFile", d.RulesFile)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttlSeconds", d.Cache.TTLSeconds)
	v.SetDefault("privacy.redactSecrets", d.Privacy.RedactSecrets)
	v.SetDefault("privacy.redactPaths", d.Privacy.RedactPaths)
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["baseUrl"]; ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["rulesFile"]; ok && v != "" {
		cfg.RulesFile = v
	}
	if v, ok := overrides["strict"]; ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Strict = b
		}
	}
	if v, ok := overrides["timeoutSeconds"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
}
