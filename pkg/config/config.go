package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"VolPath/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Simulation struct {
		DefaultPaths int    `yaml:"default_paths"`
		DefaultSteps int    `yaml:"default_steps"`
		DefaultStyle string `yaml:"default_style"`
		MaxPaths     int    `yaml:"max_paths"`
		MaxSteps     int    `yaml:"max_steps"`
		Workers      int    `yaml:"workers"`
	} `yaml:"simulation"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Backend string        `yaml:"backend"` // memory, redis or layered
		TTL     time.Duration `yaml:"ttl"`
		Memory  struct {
			MaxSize int `yaml:"max_size"`
		} `yaml:"memory"`
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Publisher struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		Compression  string        `yaml:"compression"`
		RequiredAcks int           `yaml:"required_acks"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"publisher"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.Server.Port = util.ParseIntDefault(os.Getenv("VOLPATH_PORT"), c.Server.Port)
	c.Simulation.Workers = util.ParseIntDefault(os.Getenv("VOLPATH_WORKERS"), c.Simulation.Workers)
	if v := os.Getenv("VOLPATH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Publisher.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Publisher.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Simulation.DefaultPaths == 0 {
		c.Simulation.DefaultPaths = 20
	}
	if c.Simulation.DefaultSteps == 0 {
		c.Simulation.DefaultSteps = 1000
	}
	if c.Simulation.DefaultStyle == "" {
		c.Simulation.DefaultStyle = "moderate"
	}
	if c.Simulation.MaxPaths == 0 {
		c.Simulation.MaxPaths = 1000
	}
	if c.Simulation.MaxSteps == 0 {
		c.Simulation.MaxSteps = 100000
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.Cache.Memory.MaxSize == 0 {
		c.Cache.Memory.MaxSize = 256
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "volpath"
	}
	if c.Publisher.Compression == "" {
		c.Publisher.Compression = "gzip"
	}
	if c.Publisher.RequiredAcks == 0 {
		c.Publisher.RequiredAcks = -1
	}
	if c.Publisher.MaxAttempts == 0 {
		c.Publisher.MaxAttempts = 3
	}
	if c.Publisher.WriteTimeout == 0 {
		c.Publisher.WriteTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Simulation.DefaultStyle {
	case "conservative", "moderate", "aggressive":
	default:
		return fmt.Errorf("simulation.default_style %q must be conservative, moderate or aggressive", c.Simulation.DefaultStyle)
	}
	if c.Simulation.DefaultPaths < 1 || c.Simulation.DefaultPaths > c.Simulation.MaxPaths {
		return fmt.Errorf("simulation.default_paths %d must be in [1, %d]", c.Simulation.DefaultPaths, c.Simulation.MaxPaths)
	}
	if c.Simulation.DefaultSteps < 1 || c.Simulation.DefaultSteps > c.Simulation.MaxSteps {
		return fmt.Errorf("simulation.default_steps %d must be in [1, %d]", c.Simulation.DefaultSteps, c.Simulation.MaxSteps)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend %q must be memory, redis or layered", c.Cache.Backend)
	}
	if c.Publisher.Enabled {
		if len(c.Publisher.Brokers) == 0 {
			return fmt.Errorf("publisher.brokers required when publisher is enabled")
		}
		if c.Publisher.Topic == "" {
			return fmt.Errorf("publisher.topic required when publisher is enabled")
		}
	}
	return nil
}
