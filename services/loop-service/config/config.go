// Package config handles application configuration loading and management
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"loop/pkg/kafka"
	"loop/pkg/postgres"
	"loop/pkg/redis"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// EnvPrefix prefixes every environment override, e.g. LOOP_SERVER_PORT
const EnvPrefix = "LOOP"

// Config holds the entire application configuration
type Config struct {
	Application    ApplicationConfig    `mapstructure:"application"`
	Server         ServerConfig         `mapstructure:"server"`
	Log            LogConfig            `mapstructure:"log"`
	Store          StoreConfig          `mapstructure:"store"`
	Infrastructure InfrastructureConfig `mapstructure:"infrastructure"`
	Security       SecurityConfig       `mapstructure:"security"`
	Assistant      AssistantConfig      `mapstructure:"assistant"`
}

// ApplicationConfig holds the application-level configuration
type ApplicationConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds the HTTP server configuration. Timeouts are in seconds.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`
	WriteTimeout    int `mapstructure:"write_timeout"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

// LogConfig selects the log level and output format ("json" or "text")
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects the persistence substrate of the record store
type StoreConfig struct {
	// Backend is one of memory, redis or postgres
	Backend string `mapstructure:"backend"`
	// Prefix namespaces the redis keys
	Prefix string `mapstructure:"prefix"`
	// Seed writes the demo fixtures on first start
	Seed bool `mapstructure:"seed"`
}

// InfrastructureConfig holds the connection settings of external systems
type InfrastructureConfig struct {
	Postgres postgres.Config `mapstructure:"postgres"`
	Redis    redis.Config    `mapstructure:"redis"`
	Kafka    KafkaConfig     `mapstructure:"kafka"`
}

// KafkaConfig holds the producer settings plus the topic domain events go to
type KafkaConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Topic        string `mapstructure:"topic"`
	kafka.Config `mapstructure:",squash"`
}

// SecurityConfig holds the security configuration
type SecurityConfig struct {
	JWT  JWTConfig  `mapstructure:"jwt"`
	CORS CORSConfig `mapstructure:"cors"`
}

// JWTConfig holds the JWT configuration
type JWTConfig struct {
	AccessTokenSecret  string `mapstructure:"access_token_secret"`
	RefreshTokenSecret string `mapstructure:"refresh_token_secret"`
	// AccessTokenExpiry is in minutes
	AccessTokenExpiry int `mapstructure:"access_token_expiry"`
	// RefreshTokenExpiry is in hours
	RefreshTokenExpiry int `mapstructure:"refresh_token_expiry"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AssistantConfig holds the text generation API settings. An empty APIKey disables the assistant.
type AssistantConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	// Timeout is in seconds
	Timeout int `mapstructure:"timeout"`
	Retries int `mapstructure:"retries"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.name", "Loop")
	v.SetDefault("application.version", "1.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	// streaming answers can take a while
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.shutdown_timeout", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.prefix", "loop:")
	v.SetDefault("store.seed", true)
	v.SetDefault("infrastructure.postgres.host", "localhost")
	v.SetDefault("infrastructure.postgres.port", 5432)
	v.SetDefault("infrastructure.postgres.user", "")
	v.SetDefault("infrastructure.postgres.password", "")
	v.SetDefault("infrastructure.postgres.dbname", "loop")
	v.SetDefault("infrastructure.postgres.schema", "public")
	v.SetDefault("infrastructure.postgres.sslmode", "disable")
	v.SetDefault("infrastructure.postgres.max_idle_conns", 5)
	v.SetDefault("infrastructure.postgres.max_open_conns", 20)
	v.SetDefault("infrastructure.postgres.conn_max_idle_time", 5)
	v.SetDefault("infrastructure.postgres.conn_max_lifetime", 60)
	v.SetDefault("infrastructure.postgres.debug", false)
	v.SetDefault("infrastructure.postgres.connect_timeout", 5)
	v.SetDefault("infrastructure.redis.addrs", []string{"localhost:6379"})
	v.SetDefault("infrastructure.redis.username", "")
	v.SetDefault("infrastructure.redis.password", "")
	v.SetDefault("infrastructure.redis.db", 0)
	v.SetDefault("infrastructure.redis.dial_timeout", 5*time.Second)
	v.SetDefault("infrastructure.redis.read_timeout", 3*time.Second)
	v.SetDefault("infrastructure.redis.write_timeout", 3*time.Second)
	v.SetDefault("infrastructure.redis.pool_size", 10)
	v.SetDefault("infrastructure.kafka.enabled", false)
	v.SetDefault("infrastructure.kafka.topic", "loop.events")
	v.SetDefault("infrastructure.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("infrastructure.kafka.client_id", "loop-service")
	v.SetDefault("infrastructure.kafka.allow_auto_topic_creation", true)
	v.SetDefault("infrastructure.kafka.request_retries", 3)
	v.SetDefault("infrastructure.kafka.dial_timeout", 5*time.Second)
	v.SetDefault("infrastructure.kafka.delivery_timeout", 30*time.Second)
	// no default secrets; the empty defaults only make the keys visible to env overrides
	v.SetDefault("security.jwt.access_token_secret", "")
	v.SetDefault("security.jwt.refresh_token_secret", "")
	v.SetDefault("security.jwt.access_token_expiry", 60)
	v.SetDefault("security.jwt.refresh_token_expiry", 24*7)
	v.SetDefault("security.cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("assistant.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("assistant.model", "gemini-2.5-flash")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.timeout", 60)
	v.SetDefault("assistant.retries", 1)
}

// LoadConfig loads the application configuration. Sources, later ones winning: defaults,
// loop.yaml from the usual config directories, a .env file in the working directory, and
// LOOP_ prefixed environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("loop")
	v.SetConfigType("yaml")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		log.Println("Config file not found, using environment variables and defaults")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	if c.Security.JWT.AccessTokenSecret == "" {
		return errors.New("JWT access token secret is required")
	}
	if c.Security.JWT.RefreshTokenSecret == "" {
		return errors.New("JWT refresh token secret is required")
	}

	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Infrastructure.Postgres.User == "" {
			return errors.New("database user is required")
		}
		if c.Infrastructure.Postgres.Password == "" {
			return errors.New("database password is required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Infrastructure.Kafka.Enabled && len(c.Infrastructure.Kafka.Brokers) == 0 {
		return errors.New("kafka brokers are required when kafka is enabled")
	}
	return nil
}
