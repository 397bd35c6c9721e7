// Package config resolves tool configuration from defaults, an optional
// config file, and PAIR_-prefixed environment variables.
//
// The result is an explicit Config value passed down to commands; nothing
// here installs process-global state, so the engine and store stay
// independently testable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ojermo/StudentPairingTool/internal/roster"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	// DataDir is where the database (and any exports without an explicit
	// path) live. Defaults to ~/.pair.
	DataDir string

	// DatabasePath is the SQLite file. Defaults to <DataDir>/pair.db.
	DatabasePath string

	// DefaultPreference is the track mode used when --mode is not given.
	DefaultPreference roster.TrackPreference
}

// Load resolves configuration. Precedence: environment (PAIR_DATA_DIR,
// PAIR_DATABASE, PAIR_PREFERENCE) over config file (<DataDir>/config.yaml,
// optional) over defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("database", "")
	v.SetDefault("preference", string(roster.NoPreference))

	v.SetEnvPrefix("PAIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// An absent config file is fine; a malformed one is not.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("data_dir"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	pref, err := roster.ParseTrackPreference(v.GetString("preference"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		DataDir:           v.GetString("data_dir"),
		DatabasePath:      v.GetString("database"),
		DefaultPreference: pref,
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "pair.db")
	}

	return cfg, nil
}

// EnsureDataDir creates the data directory if it does not exist yet.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", c.DataDir, err)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory; the CLI surfaces any
		// real permission problem when it opens the database.
		return ".pair"
	}
	return filepath.Join(home, ".pair")
}
