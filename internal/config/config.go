// Package config loads service configuration from a file and environment.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the server.
type Config struct {
	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	DB struct {
		Path string
	} `mapstructure:"db"`

	Log struct {
		Level string
	} `mapstructure:"log"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Auth struct {
		AdminPassword string `mapstructure:"admin_password"`
	} `mapstructure:"auth"`
}

// Load reads configuration from the given file, with APP_* environment
// variables taking precedence. A missing file is not an error: defaults
// and the environment alone are enough to run.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.path", "assetdesk.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.enabled", true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
