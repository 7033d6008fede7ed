package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Dataset  DatasetConfig  `yaml:"dataset" envconfig:"DATASET"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DatasetConfig locates the startup-investment source file
type DatasetConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"data/investments_VC.csv"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// Load loads configuration in three layers: built-in defaults, then the
// YAML config file, then explicitly set environment variables. The file
// is unmarshaled onto the default-filled config so only keys present in
// the document overwrite anything, which also works for booleans where
// a zero check cannot tell "false" from "unset". Env precedence is then
// restored per variable via os.LookupEnv, because envconfig applies
// default tags even when the variable is unset.
func Load() (*Config, error) {
	var envCfg Config
	if err := envconfig.Process("VCP", &envCfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg := envCfg
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		applyEnvOverrides(&cfg, envCfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides copies back every value whose environment variable
// was explicitly set, restoring env precedence over the file.
func applyEnvOverrides(cfg *Config, envCfg Config) {
	if envSet("VCP_SERVER_PORT") {
		cfg.Server.Port = envCfg.Server.Port
	}
	if envSet("VCP_SERVER_READ_TIMEOUT") {
		cfg.Server.ReadTimeout = envCfg.Server.ReadTimeout
	}
	if envSet("VCP_SERVER_WRITE_TIMEOUT") {
		cfg.Server.WriteTimeout = envCfg.Server.WriteTimeout
	}
	if envSet("VCP_SERVER_IDLE_TIMEOUT") {
		cfg.Server.IdleTimeout = envCfg.Server.IdleTimeout
	}
	if envSet("VCP_SERVER_SHUTDOWN_TIMEOUT") {
		cfg.Server.ShutdownTimeout = envCfg.Server.ShutdownTimeout
	}
	if envSet("VCP_LOGGING_LEVEL") {
		cfg.Logging.Level = envCfg.Logging.Level
	}
	if envSet("VCP_LOGGING_OUTPUT") {
		cfg.Logging.Output = envCfg.Logging.Output
	}
	if envSet("VCP_LOGGING_FILE_PATH") {
		cfg.Logging.FilePath = envCfg.Logging.FilePath
	}
	if envSet("VCP_DATASET_PATH") {
		cfg.Dataset.Path = envCfg.Dataset.Path
	}
	if envSet("VCP_SECURITY_ALLOWED_ORIGINS") {
		cfg.Security.AllowedOrigins = envCfg.Security.AllowedOrigins
	}
	if envSet("VCP_SECURITY_ENABLE_CORS") {
		cfg.Security.EnableCORS = envCfg.Security.EnableCORS
	}
	if envSet("VCP_SECURITY_RATE_LIMIT_ENABLED") {
		cfg.Security.RateLimit.Enabled = envCfg.Security.RateLimit.Enabled
	}
	if envSet("VCP_SECURITY_RATE_LIMIT_RPS") {
		cfg.Security.RateLimit.RPS = envCfg.Security.RateLimit.RPS
	}
	if envSet("VCP_SECURITY_RATE_LIMIT_BURST") {
		cfg.Security.RateLimit.Burst = envCfg.Security.RateLimit.Burst
	}
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path must not be empty")
	}

	return nil
}

// GetDatasetPath returns the dataset path resolved against the working
// directory when it is relative.
func (c *Config) GetDatasetPath() string {
	if filepath.IsAbs(c.Dataset.Path) {
		return c.Dataset.Path
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Dataset.Path
	}
	return filepath.Join(wd, c.Dataset.Path)
}

// getConfigFilePath returns the config file location, overridable by env
func getConfigFilePath() string {
	if path := os.Getenv("VCP_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// FileExists reports whether a path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
