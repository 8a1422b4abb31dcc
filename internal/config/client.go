package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Client modes.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// EnvPrefix prefixes every client environment variable.
const EnvPrefix = "PROMPTOZER"

// ClientConfig configures promptctl.
type ClientConfig struct {
	// Mode selects the active record store: remote (server of record) or
	// local (device-only).
	Mode      string        `mapstructure:"mode"`
	ServerURL string        `mapstructure:"server_url"`
	DataDir   string        `mapstructure:"data_dir"`
	LogLevel  string        `mapstructure:"log_level"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DefaultClientConfig returns the client defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Mode:      ModeRemote,
		ServerURL: "http://localhost:8080",
		DataDir:   "~/.promptozer",
		LogLevel:  "warn",
		Timeout:   15 * time.Second,
	}
}

// LoadClient reads the client configuration. Precedence: flags bound from
// flags, PROMPTOZER_* environment variables, the YAML config file, defaults.
// cfgFile may be empty, in which case ./promptozer.yaml and
// ~/.promptozer/promptozer.yaml are tried; a missing file is not an error.
// flags may be nil.
func LoadClient(cfgFile string, flags *pflag.FlagSet) (*ClientConfig, error) {
	v := viper.New()

	defaults := DefaultClientConfig()
	v.SetDefault("mode", defaults.Mode)
	v.SetDefault("server_url", defaults.ServerURL)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("timeout", defaults.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("promptozer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".promptozer"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for key, name := range clientFlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	dir, err := expandPath(cfg.DataDir, "")
	if err != nil {
		return nil, fmt.Errorf("invalid data dir: %w", err)
	}
	cfg.DataDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// clientFlagKeys maps config keys to the cobra flag names bound to them.
var clientFlagKeys = map[string]string{
	"mode":       "mode",
	"server_url": "server",
	"data_dir":   "data-dir",
	"log_level":  "log-level",
	"timeout":    "timeout",
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	switch c.Mode {
	case ModeRemote:
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid server url: %q", c.ServerURL)
		}
	case ModeLocal:
	default:
		return fmt.Errorf("invalid mode: %s (must be remote or local)", c.Mode)
	}

	if c.DataDir == "" {
		return errors.New("data dir is required")
	}
	if !validLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// DevicePath is the directory of the device-local Badger store.
func (c *ClientConfig) DevicePath() string {
	return filepath.Join(c.DataDir, "device")
}
