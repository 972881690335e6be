package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"restauReserva/internal/platform/apiclient"
	"restauReserva/internal/platform/tokenstore"
	"restauReserva/internal/shared/normalization"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Session SessionConfig `yaml:"session"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LoggingConfig struct {
	Directory string `yaml:"directory"`
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
}

type SessionConfig struct {
	Store string `yaml:"store"`
	File  string `yaml:"file"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type KafkaConfig struct {
	Brokers        []string            `yaml:"brokers"`
	GroupID        string              `yaml:"group_id"`
	Topics         map[string][]string `yaml:"topics"`
	AllowedActions []string            `yaml:"allowed_actions"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func defaults() *Config {
	return &Config{
		App:     AppConfig{Name: apiclient.DefaultAppName},
		API:     APIConfig{BaseURL: apiclient.DefaultBaseURL},
		Server:  ServerConfig{Port: "8080"},
		Logging: LoggingConfig{Directory: "./logs", Level: "info", Format: "text"},
		Session: SessionConfig{Store: tokenstore.KindFile},
		Redis:   RedisConfig{Address: "localhost:6379", PoolSize: 10},
		Kafka: KafkaConfig{
			GroupID: "restaureserva-client",
			Topics:  map[string][]string{},
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads the optional YAML file at path (environment references are expanded),
// then applies environment variable overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if trimmed := strings.TrimSpace(path); trimmed != "" {
		data, err := os.ReadFile(trimmed)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if cfg.Kafka.Topics == nil {
		cfg.Kafka.Topics = map[string][]string{}
	}
	setString(&cfg.App.Name, "APP_NAME")
	setString(&cfg.API.BaseURL, "API_BASE_URL")
	setString(&cfg.Server.Port, "SERVER_PORT", "PORT")
	setString(&cfg.Logging.Directory, "LOG_DIR")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.Session.Store, "TOKEN_STORE")
	setString(&cfg.Session.File, "TOKEN_FILE")
	setString(&cfg.Redis.Address, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Kafka.GroupID, "KAFKA_GROUP_ID")

	if raw, ok := lookup("API_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = timeout
	}
	if raw, ok := lookup("REDIS_DB"); ok {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	if raw, ok := lookup("METRICS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = enabled
	}
	if raw, ok := lookup("KAFKA_BROKERS", "KAFKA_BROKER"); ok {
		cfg.Kafka.Brokers = splitList(raw)
	}
	if raw, ok := lookup("KAFKA_ALLOWED_ACTIONS"); ok {
		cfg.Kafka.AllowedActions = splitList(raw)
	}
	if raw, ok := lookup("KAFKA_TOPICS_RESTAURANTS"); ok {
		cfg.Kafka.Topics[normalization.EntityRestaurants] = splitList(raw)
	}
	if raw, ok := lookup("KAFKA_TOPICS_RESERVATIONS"); ok {
		cfg.Kafka.Topics[normalization.EntityReservations] = splitList(raw)
	}
	return nil
}

func (c *Config) normalize() {
	c.App.Name = strings.TrimSpace(c.App.Name)
	if c.App.Name == "" {
		c.App.Name = apiclient.DefaultAppName
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	if c.Session.Store == "" {
		c.Session.Store = tokenstore.KindFile
	}
	if c.Session.Store == tokenstore.KindFile && strings.TrimSpace(c.Session.File) == "" {
		c.Session.File = tokenstore.DefaultFilePath(c.App.Name)
	}
	topics := make(map[string][]string, len(c.Kafka.Topics))
	for entity, list := range c.Kafka.Topics {
		key := normalization.NormalizeEntity(entity)
		for _, topic := range list {
			if trimmed := strings.TrimSpace(topic); trimmed != "" {
				topics[key] = append(topics[key], trimmed)
			}
		}
	}
	c.Kafka.Topics = topics
}

// Validate rejects configurations the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs = append(errs, fmt.Errorf("invalid API base url %q", c.API.BaseURL))
	}
	if err := tokenstore.ValidateKind(c.Session.Store); err != nil {
		errs = append(errs, err)
	}
	if c.Session.Store == tokenstore.KindRedis && strings.TrimSpace(c.Redis.Address) == "" {
		errs = append(errs, errors.New("redis token store requires an address"))
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %q", c.Server.Port))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("negative API timeout %s", c.API.Timeout))
	}
	for entity := range c.Kafka.Topics {
		if !normalization.IsCachedEntity(entity) {
			errs = append(errs, fmt.Errorf("kafka topics configured for unknown entity %q", entity))
		}
	}
	return errors.Join(errs...)
}

// TopicList flattens the configured Kafka topics.
func (k KafkaConfig) TopicList() []string {
	out := make([]string, 0)
	for _, topics := range k.Topics {
		out = append(out, topics...)
	}
	return out
}

func setString(target *string, keys ...string) {
	if value, ok := lookup(keys...); ok {
		*target = value
	}
}

func lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// TokenStore returns the settings for the persisted session token store.
func (c *Config) TokenStore() tokenstore.Config {
	return tokenstore.Config{
		Kind:     c.Session.Store,
		FilePath: c.Session.File,
		AppName:  c.App.Name,
		Redis: tokenstore.RedisConfig{
			Address:  c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			PoolSize: c.Redis.PoolSize,
		},
	}
}

// APIClient returns the options for the remote API client.
func (c *Config) APIClient() apiclient.Options {
	return apiclient.Options{BaseURL: c.API.BaseURL, AppName: c.App.Name, Timeout: c.API.Timeout}
}
