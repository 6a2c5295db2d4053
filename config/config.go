// Package config loads runtime configuration from defaults, an optional
// YAML file, and DESKMESH_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all settings for the triage service.
type Config struct {
	// Corpus locates the knowledge article dump.
	Corpus CorpusConfig `yaml:"corpus"`

	// TopK bounds knowledge search results per turn.
	TopK int `yaml:"top_k"`

	// Redis configures the optional conversation store. An empty Addr
	// selects the in-memory store.
	Redis RedisConfig `yaml:"redis"`

	// Postgres configures the optional account backend. An empty DSN
	// selects the in-memory backend.
	Postgres PostgresConfig `yaml:"postgres"`

	// Kafka configures the optional escalation hand-off. No brokers means
	// escalations are logged only.
	Kafka KafkaConfig `yaml:"kafka"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is json or text.
	LogFormat string `yaml:"log_format"`
}

// CorpusConfig locates the JSONL article corpus.
type CorpusConfig struct {
	Path    string `yaml:"path"`
	Account string `yaml:"account"`

	// ReloadPerTurn re-reads the corpus file on every knowledge search
	// instead of loading once at startup.
	ReloadPerTurn bool `yaml:"reload_per_turn"`
}

// RedisConfig configures the Redis-backed conversation store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// PostgresConfig configures the Postgres account backend.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// KafkaConfig configures the escalation publisher.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Default returns the built-in configuration: in-memory everything, info
// logging, four search results per turn.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Account: "default",
		},
		TopK:      4,
		Redis:     RedisConfig{TTL: 24 * time.Hour},
		Kafka:     KafkaConfig{Topic: "deskmesh.escalations"},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load builds the effective configuration. A non-empty path must point to a
// readable YAML file; an empty path skips the file layer. Environment
// overrides apply last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %q: %w", path, err)
		}
		if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
			return nil, fmt.Errorf("parse config from %q: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays DESKMESH_* environment variables on the config. Only
// variables that are set and non-empty take effect.
func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("DESKMESH_CORPUS_PATH", &c.Corpus.Path)
	setString("DESKMESH_CORPUS_ACCOUNT", &c.Corpus.Account)
	setString("DESKMESH_REDIS_ADDR", &c.Redis.Addr)
	setString("DESKMESH_REDIS_PASSWORD", &c.Redis.Password)
	setString("DESKMESH_POSTGRES_DSN", &c.Postgres.DSN)
	setString("DESKMESH_KAFKA_TOPIC", &c.Kafka.Topic)
	setString("DESKMESH_LOG_LEVEL", &c.LogLevel)
	setString("DESKMESH_LOG_FORMAT", &c.LogFormat)

	if v := os.Getenv("DESKMESH_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopK = n
		}
	}
	if v := os.Getenv("DESKMESH_KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
	}
	if v := os.Getenv("DESKMESH_REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Redis.TTL = d
		}
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if c.Corpus.ReloadPerTurn && c.Corpus.Path == "" {
		return fmt.Errorf("corpus.reload_per_turn requires corpus.path")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic must be set when brokers are configured")
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl must not be negative")
	}
	return nil
}
