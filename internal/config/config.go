// Package config loads the settings the CLI forwards to the core:
// window size, cache capacity, encoding, and log file. Font, tabs, and
// theme settings are not loaded. The window-size and cache-capacity
// settings are forwarded to the file manager at buffer construction
// time. Only cmd/aquaedit imports this package, never the core
// packages (window, index, overlay, history, buffer, search),
// following GoogleCloudPlatform-gcsfuse's cfg/cmd split.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jansteyn/aquaedit/internal/window"
)

// Config mirrors the subset of front-end settings the core contract
// consumes at buffer-construction time.
type Config struct {
	WindowLengthBytes int64  `mapstructure:"window_length_bytes"`
	CacheCapacity     int    `mapstructure:"cache_capacity"`
	Encoding          string `mapstructure:"encoding"`
	LogFile           string `mapstructure:"log_file"`
}

func defaults() Config {
	return Config{
		WindowLengthBytes: window.DefaultWindowLength,
		CacheCapacity:     window.DefaultCacheCapacity,
		Encoding:          "utf-8",
	}
}

// Load reads YAML config from path, falling back to built-in defaults
// for any key path doesn't set. An empty path skips the file entirely
// and returns the defaults, matching gcsfuse's root.go behaviour when
// no --config-file flag is given.
func Load(path string) (*Config, error) {
	v := viper.New()
	d := defaults()
	v.SetDefault("window_length_bytes", d.WindowLengthBytes)
	v.SetDefault("cache_capacity", d.CacheCapacity)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("log_file", d.LogFile)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
