// Package config loads client settings from a .env file, an optional
// pocketchef.yaml, and POCKETCHEF_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Favorites modes.
const (
	// FavoritesServer keeps favorites on the backend.
	FavoritesServer = "server"
	// FavoritesLocal keeps favorites only in the client's durable store.
	FavoritesLocal = "local"
)

// Config holds every client setting.
type Config struct {
	APIURL        string
	DataDir       string
	LogLevel      string
	LogFile       string
	HTTPTimeout   time.Duration
	FavoritesMode string
	Chime         bool
}

// StorePath returns the location of the durable session database.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, "pocketchef.db")
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		APIURL:        "http://localhost:5000",
		DataDir:       ".pocketchef",
		LogLevel:      "normal",
		LogFile:       ".pocketchef-logs/pocketchef.log",
		HTTPTimeout:   15 * time.Second,
		FavoritesMode: FavoritesServer,
	}
}

// Load reads configuration. An explicit path must exist; without one, a
// pocketchef.yaml in the working directory or the user config directory
// is used when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	def := Defaults()
	v := viper.New()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("http_timeout", def.HTTPTimeout)
	v.SetDefault("favorites_mode", def.FavoritesMode)
	v.SetDefault("chime", def.Chime)

	v.SetEnvPrefix("POCKETCHEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pocketchef")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pocketchef"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		APIURL:        strings.TrimRight(strings.TrimSpace(v.GetString("api_url")), "/"),
		DataDir:       v.GetString("data_dir"),
		LogLevel:      v.GetString("log_level"),
		LogFile:       v.GetString("log_file"),
		HTTPTimeout:   v.GetDuration("http_timeout"),
		FavoritesMode: strings.ToLower(v.GetString("favorites_mode")),
		Chime:         v.GetBool("chime"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("config: api_url is empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("config: api_url %q must start with http:// or https://", c.APIURL)
	}
	if c.FavoritesMode != FavoritesServer && c.FavoritesMode != FavoritesLocal {
		return fmt.Errorf("config: favorites_mode must be %q or %q, got %q", FavoritesServer, FavoritesLocal, c.FavoritesMode)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
