package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr string `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	Redis    Redis  `yaml:"redis"`
	Otel     Otel   `yaml:"otel"`
	Game     Game   `yaml:"game"`
	Auth     Auth   `yaml:"auth"`
}

// Redis is optional; an empty address disables notification publishing.
type Redis struct {
	Addr                string `yaml:"addr" env:"REDIS_CONNSTRING"`
	EventsChannelPrefix string `yaml:"events-channel-prefix" env:"REDIS_EVENTS_CHANNEL_PREFIX" env-default:"channel:session:"`
}

// Otel is optional; an empty endpoint keeps the no-op providers.
type Otel struct {
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tictak"`
}

type Game struct {
	ComputerDelay     time.Duration `yaml:"computer-delay" env:"GAME_COMPUTER_DELAY" env-default:"500ms"`
	EasyOptimalChance int           `yaml:"easy-optimal-chance" env:"GAME_EASY_OPTIMAL_CHANCE" env-default:"20"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt-secret" env:"AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token-ttl" env:"AUTH_TOKEN_TTL" env-default:"72h"`
}

// Load reads the yaml file at path, then applies environment overrides and defaults.
// An empty path reads the environment only.
func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(path, config)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) validate() error {
	if c.Game.ComputerDelay < 0 {
		return fmt.Errorf("game.computer-delay must not be negative, got %s", c.Game.ComputerDelay)
	}
	if c.Game.EasyOptimalChance < 0 || c.Game.EasyOptimalChance > 100 {
		return fmt.Errorf("game.easy-optimal-chance must be within 0..100, got %d", c.Game.EasyOptimalChance)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token-ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log-level: %w", err)
	}
	return level, nil
}
