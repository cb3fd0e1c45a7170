// Package config loads service settings from an optional YAML file, a .env file
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	MongoURI        string        `yaml:"mongodb_uri"`
	DBName          string        `yaml:"db_name"`
	StoreDriver     string        `yaml:"store_driver"` // mongo | memory
	Port            string        `yaml:"port"`
	FrontendURL     string        `yaml:"frontend_url"` // CORS origin
	LogLevel        string        `yaml:"log_level"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Defaults() Config {
	return Config{
		DBName:          "USVisa",
		StoreDriver:     DriverMongo,
		Port:            "3001",
		FrontendURL:     "http://localhost:5173",
		LogLevel:        "info",
		PollInterval:    2 * time.Second,
		RetryBackoff:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads path (skipped when empty), then ./.env, then the environment.
func Load(path string) (Config, error) {
	return load(path, ".env", os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (Config, error) {
	c := Defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", envFile, err)
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	setString := func(key string, dst *string) {
		if v, ok := get(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) error {
		v, ok := get(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	setString("MONGODB_URI", &c.MongoURI)
	setString("DB_NAME", &c.DBName)
	setString("STORE_DRIVER", &c.StoreDriver)
	setString("PORT", &c.Port)
	setString("FRONTEND_URL", &c.FrontendURL)
	setString("LOG_LEVEL", &c.LogLevel)
	for key, dst := range map[string]*time.Duration{
		"POLL_INTERVAL":    &c.PollInterval,
		"RETRY_BACKOFF":    &c.RetryBackoff,
		"SHUTDOWN_TIMEOUT": &c.ShutdownTimeout,
	} {
		if err := setDuration(key, dst); err != nil {
			return Config{}, err
		}
	}

	c.StoreDriver = strings.ToLower(c.StoreDriver)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.DBName == "" {
		return errors.New("DB_NAME is empty")
	}
	if c.Port == "" {
		return errors.New("PORT is empty")
	}
	if c.PollInterval <= 0 || c.RetryBackoff <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("intervals must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
