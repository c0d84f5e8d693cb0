package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "POKER"

type Config struct {
	Mode           string        `mapstructure:"mode" validate:"oneof=debug release test"`
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit" validate:"min=1"`
	PingPeriod     time.Duration `mapstructure:"ping_period" validate:"gt=0"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	SendBuffer     int           `mapstructure:"send_buffer" validate:"min=1"`
	Secret         string        `mapstructure:"secret" validate:"required"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	VoteVisibility string        `mapstructure:"vote_visibility" validate:"oneof=anonymous identified"`
	HistoryLimit   int           `mapstructure:"history_limit" validate:"min=0"`
	Backpressure   string        `mapstructure:"backpressure" validate:"oneof=ignore kick"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// AnonymousVotes reports whether vote announcements hide the voter.
func (c *Config) AnonymousVotes() bool {
	return c.VoteVisibility == "anonymous"
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) after loading
// .env into the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Str("module", "config").Msg("no .env file")
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName if it exists; POKER_* variables override it.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("vote_visibility", "anonymous")
	v.SetDefault("history_limit", 0)
	v.SetDefault("backpressure", "ignore")
	v.SetDefault("allowed_origins", []string{"*"})

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}
