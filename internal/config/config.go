// Package config loads CLI settings with Viper from an optional file and
// FORMVALIDATE_* environment variables.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// AppName is used for the config file name and the env prefix.
const AppName = "formvalidate"

// Config is the resolved CLI configuration.
type Config struct {
	Schema    string `mapstructure:"schema"`
	Operation string `mapstructure:"operation"`
	Builtin   string `mapstructure:"builtin"`
	Output    string `mapstructure:"output"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// New returns a Viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("schema", "")
	v.SetDefault("operation", "")
	v.SetDefault("builtin", "")
	v.SetDefault("output", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	return v
}

// Load reads path, or searches the default locations when path is empty, and
// decodes the result. A missing file is only an error when path was given.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, errors.Wrap(err, "config: read")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	switch cfg.Output {
	case "text", "json":
	default:
		return nil, errors.Newf("config: output must be text or json, got %q", cfg.Output)
	}
	return &cfg, nil
}
