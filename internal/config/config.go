package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BackendScheme  string
	BackendHost    string
	BackendPort    string
	BackendTimeout time.Duration
	ServerPort     string
	LogLevel       string
	KafkaEnabled   bool
	KafkaHost      string
	KafkaPort      string
	KafkaTopic     string
}

// LoadConfig reads config.yaml from configPath. A missing file is not an
// error: defaults and environment variables are enough to run.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetDefault("backend.scheme", "http")
	v.SetDefault("backend.host", "localhost")
	v.SetDefault("backend.port", "8080")
	v.SetDefault("backend.timeout", "0s")
	v.SetDefault("server.port", "3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.host", "localhost")
	v.SetDefault("kafka.port", "9092")
	v.SetDefault("kafka.topic", "product-created")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	kafkaEnabled, err := strconv.ParseBool(getConfigString(v, "kafka.enabled", "KAFKA_ENABLED"))
	if err != nil {
		return nil, fmt.Errorf("invalid kafka enabled flag: %w", err)
	}

	timeout, err := time.ParseDuration(getConfigString(v, "backend.timeout", "BACKEND_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend timeout: %w", err)
	}

	cfg := &Config{
		BackendScheme:  getConfigString(v, "backend.scheme", "BACKEND_SCHEME"),
		BackendHost:    getConfigString(v, "backend.host", "BACKEND_HOST"),
		BackendPort:    getConfigString(v, "backend.port", "BACKEND_PORT"),
		BackendTimeout: timeout,
		ServerPort:     getConfigString(v, "server.port", "SERVER_PORT"),
		LogLevel:       getConfigString(v, "log.level", "LOG_LEVEL"),
		KafkaEnabled:   kafkaEnabled,
		KafkaHost:      getConfigString(v, "kafka.host", "KAFKA_HOST"),
		KafkaPort:      getConfigString(v, "kafka.port", "KAFKA_PORT"),
		KafkaTopic:     getConfigString(v, "kafka.topic", "KAFKA_TOPIC"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BackendHost == "" {
		return fmt.Errorf("backend host is required")
	}
	if c.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("backend timeout must not be negative")
	}
	if c.KafkaEnabled && c.KafkaTopic == "" {
		return fmt.Errorf("kafka topic is required when kafka is enabled")
	}
	return nil
}

// BackendURL is the base the client and the /api proxy talk to.
func (c *Config) BackendURL() string {
	u := url.URL{
		Scheme: c.BackendScheme,
		Host:   c.BackendHost,
	}
	if c.BackendPort != "" {
		u.Host += ":" + c.BackendPort
	}
	return u.String()
}

func (c *Config) KafkaBroker() string {
	return c.KafkaHost + ":" + c.KafkaPort
}

func getConfigString(v *viper.Viper, key string, envVar string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return v.GetString(key)
}
