package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

// Config carries settings for the API, worker and purger processes.
// Values come from defaults, then the YAML file named by CONFIG_FILE, then the environment.
type Config struct {
	Port                 string        `yaml:"port"`
	Environment          string        `yaml:"environment"`
	LogLevel             string        `yaml:"logLevel"`
	OTLPEndpoint         string        `yaml:"otlpEndpoint"`
	OTLPInsecure         bool          `yaml:"otlpInsecure"`
	PostgresDSN          string        `yaml:"postgresDsn"`
	RedisURL             string        `yaml:"redisUrl"`
	TemporalAddress      string        `yaml:"temporalAddress"`
	TemporalNamespace    string        `yaml:"temporalNamespace"`
	TemporalDisabled     bool          `yaml:"temporalDisabled"`
	UploadDir            string        `yaml:"uploadDir"`
	AuthDisabled         bool          `yaml:"authDisabled"`
	SessionTTL           time.Duration `yaml:"-"`
	StoreTimeout         time.Duration `yaml:"-"`
	SessionPurgeInterval time.Duration `yaml:"-"`

	SessionTTLHours             int `yaml:"sessionTtlHours"`
	StoreTimeoutMillis          int `yaml:"storeTimeoutMs"`
	SessionPurgeIntervalMinutes int `yaml:"sessionPurgeIntervalMinutes"`
}

func defaultConfig() Config {
	return Config{
		Port:                        "8080",
		Environment:                 "local",
		LogLevel:                    "info",
		OTLPInsecure:                true,
		TemporalAddress:             client.DefaultHostPort,
		TemporalNamespace:           client.DefaultNamespace,
		UploadDir:                   "uploads",
		SessionTTLHours:             1,
		StoreTimeoutMillis:          5000,
		SessionPurgeIntervalMinutes: 60,
	}
}

// LoadConfig applies defaults, the optional YAML file and environment overrides, then validates.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLHours) * time.Hour
	cfg.StoreTimeout = time.Duration(cfg.StoreTimeoutMillis) * time.Millisecond
	cfg.SessionPurgeInterval = time.Duration(cfg.SessionPurgeIntervalMinutes) * time.Minute
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.PostgresDSN, "POSTGRES_DSN")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.TemporalAddress, "TEMPORAL_ADDRESS")
	setString(&c.TemporalNamespace, "TEMPORAL_NAMESPACE")
	setString(&c.UploadDir, "UPLOAD_DIR")
	setBool(&c.TemporalDisabled, "TEMPORAL_DISABLED")
	setBool(&c.AuthDisabled, "AUTH_DISABLED")
	if raw, ok := lookup("OTEL_EXPORTER_OTLP_INSECURE"); ok {
		c.OTLPInsecure = raw != "0" && !strings.EqualFold(raw, "false")
	}
	return errors.Join(
		setPositiveInt(&c.SessionTTLHours, "SESSION_TTL_HOURS"),
		setPositiveInt(&c.StoreTimeoutMillis, "STORE_TIMEOUT_MS"),
		setPositiveInt(&c.SessionPurgeIntervalMinutes, "SESSION_PURGE_INTERVAL_MINUTES"),
	)
}

func (c *Config) validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("port must be numeric, got %q", c.Port))
	}
	if c.SessionTTLHours <= 0 {
		errs = append(errs, errors.New("sessionTtlHours must be positive"))
	}
	if c.StoreTimeoutMillis <= 0 {
		errs = append(errs, errors.New("storeTimeoutMs must be positive"))
	}
	if c.SessionPurgeIntervalMinutes <= 0 {
		errs = append(errs, errors.New("sessionPurgeIntervalMinutes must be positive"))
	}
	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func setString(target *string, key string) {
	if value, ok := lookup(key); ok {
		*target = value
	}
}

func setBool(target *bool, key string) {
	if value, ok := lookup(key); ok {
		*target = isTruthy(value)
	}
}

func setPositiveInt(target *int, key string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fmt.Errorf("%s must be a positive integer", key)
	}
	*target = value
	return nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
