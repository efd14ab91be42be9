package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JacobChan182/NoMoreTears/internal/routing"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Backboard  BackboardConfig  `mapstructure:"backboard"`
	TwelveLabs TwelveLabsConfig `mapstructure:"twelvelabs"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Routing    routing.Config   `mapstructure:"routing"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type BackboardConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MemoryMode string        `mapstructure:"memory_mode"`
}

type TwelveLabsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	IndexID string `mapstructure:"index_id"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.request_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Mongo
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "nomoretears")
	v.SetDefault("mongo.connect_timeout", "5s")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Backboard
	v.SetDefault("backboard.base_url", "https://app.backboard.io/api")
	v.SetDefault("backboard.timeout", "60s")
	v.SetDefault("backboard.memory_mode", "auto")

	// TwelveLabs
	v.SetDefault("twelvelabs.base_url", "https://api.twelvelabs.io/v1.3")

	// Gemini
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	// Routing
	v.SetDefault("routing.default_provider", "openai")
	v.SetDefault("routing.default_model", "gpt-5")
	v.SetDefault("routing.fast_provider", "openai")
	v.SetDefault("routing.fast_model", "gpt-5-mini")
	v.SetDefault("routing.logical_provider", "anthropic")
	v.SetDefault("routing.logical_model", "claude-sonnet-4")

	// Rate limit
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("mongo.uri", "MONGODB_URI")
	v.BindEnv("mongo.database", "MONGODB_DATABASE")

	v.BindEnv("redis.password", "REDIS_PASSWORD")

	v.BindEnv("backboard.api_key", "BACKBOARD_API_KEY")
	v.BindEnv("backboard.base_url", "BACKBOARD_BASE_URL")

	v.BindEnv("twelvelabs.api_key", "TWELVELABS_API_KEY")
	v.BindEnv("twelvelabs.index_id", "TWELVELABS_INDEX_ID")

	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")

	v.BindEnv("logging.dir", "LOG_DIR")
}
