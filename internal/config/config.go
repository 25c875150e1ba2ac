package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all imeetcal settings.
type Config struct {
	// Backend settings
	ServerURL string `mapstructure:"server_url"`

	// Display settings
	TimeFormat  string `mapstructure:"time_format"`
	DateFormat  string `mapstructure:"date_format"`
	StartupView string `mapstructure:"startup_view"`

	// Behavior settings
	RefreshRate   time.Duration `mapstructure:"refresh_rate"`
	ConfirmDelete bool          `mapstructure:"confirm_delete"`

	// Layout settings
	MinBlockMinutes int `mapstructure:"min_block_minutes"`

	// Diagnostics. The TUI owns the terminal, so logs go to a file.
	LogFile string `mapstructure:"log_file"`

	// OAuth sign-in (optional; password login works without it)
	OAuth OAuthConfig `mapstructure:"oauth"`

	// Path is the config file actually loaded, empty when running on
	// defaults. The watcher uses it.
	Path string `mapstructure:"-"`
}

type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// LoadConfig reads config.yaml from the usual locations (explicit path,
// $XDG_CONFIG_HOME/imeetcal, ~/.config/imeetcal, cwd) with environment
// overrides under the IMEETCAL prefix. A missing file is not an error;
// defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:7070")
	v.SetDefault("time_format", "15:04")
	v.SetDefault("date_format", "Jan 2, 2006")
	v.SetDefault("startup_view", "month")
	v.SetDefault("refresh_rate", time.Minute)
	v.SetDefault("confirm_delete", true)
	v.SetDefault("min_block_minutes", 20)

	v.SetEnvPrefix("IMEETCAL")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "imeetcal"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "imeetcal"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()

	return cfg, nil
}
