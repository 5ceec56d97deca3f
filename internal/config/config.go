package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting. Values come from PARK_* environment
// variables, optionally seeded from a .env file in the working directory.
type Config struct {
	Addr          string        `mapstructure:"addr"`
	DBPath        string        `mapstructure:"db"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	RedisURL      string        `mapstructure:"redis_url"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	WebDir        string        `mapstructure:"web_dir"`
	Build         string        `mapstructure:"build"`
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8008")
	v.SetDefault("db", "parking.db")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("token_ttl", time.Hour)
	v.SetDefault("redis_url", "")
	v.SetDefault("check_interval", 60*time.Second)
	v.SetDefault("web_dir", "")
	v.SetDefault("build", "dev")

	v.SetEnvPrefix("PARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine; a broken one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
