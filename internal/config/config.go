package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lumipallolabs/treescan/internal/matcher"
)

// EnvPrefix is prepended to upper-cased keys for environment overrides
const EnvPrefix = "TREESCAN"

// Config holds application settings that are not part of the scan target
type Config struct {
	LogLevel         string        `mapstructure:"log_level"`
	SettingsPath     string        `mapstructure:"settings_path"`
	PatternSyntax    string        `mapstructure:"pattern_syntax"`
	SkipHidden       bool          `mapstructure:"skip_hidden"`
	FollowSymlinks   bool          `mapstructure:"follow_symlinks"`
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	Watch            bool          `mapstructure:"watch"`

	// Syntax is PatternSyntax after validation
	Syntax matcher.Syntax `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("settings_path", "~/.treescan/settings.yaml")
	v.SetDefault("pattern_syntax", string(matcher.SyntaxRegex))
	v.SetDefault("skip_hidden", false)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("progress_interval", 50*time.Millisecond)
	v.SetDefault("watch", false)
}

// Load reads configuration. With path empty, treescan.yaml is looked up in
// the working directory and ~/.treescan and may be absent; an explicit path
// must exist. TREESCAN_* environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("treescan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.treescan")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	syntax, err := matcher.ParseSyntax(c.PatternSyntax)
	if err != nil {
		return err
	}
	c.Syntax = syntax

	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("progress_interval must not be negative, got %v", c.ProgressInterval)
	}
	return nil
}
