package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/worksummary/internal/llm"
	"github.com/alexanderramin/worksummary/internal/timesheet"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Timesheet TimesheetConfig `yaml:"timesheet"`
	LLM       llm.LLMConfig   `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	MaxUploadBytes     int64  `yaml:"max_upload_bytes"`
	SessionIdleMinutes int    `yaml:"session_idle_minutes"`
	ShutdownTimeoutMs  int    `yaml:"shutdown_timeout_ms"`
}

// TimesheetConfig configures the loader.
type TimesheetConfig struct {
	// Policy is "skip" or "abort"; see timesheet.ParsePolicy.
	Policy   string `yaml:"policy"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// LogConfig configures the zap logger and its optional rotating file sink.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
	MaxSizeMB   int    `yaml:"max_size_mb"`
	MaxBackups  int    `yaml:"max_backups"`
	MaxAgeDays  int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               "127.0.0.1:7860",
			MaxUploadBytes:     timesheet.DefaultMaxBytes,
			SessionIdleMinutes: 30,
			ShutdownTimeoutMs:  5000,
		},
		Timesheet: TimesheetConfig{
			Policy:   timesheet.PolicySkip.String(),
			MaxBytes: timesheet.DefaultMaxBytes,
		},
		LLM: llm.DefaultConfig(),
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and WORKSUMMARY_* environment variables.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.applyEnvOverrides(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := getenv("WORKSUMMARY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("WORKSUMMARY_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Server.MaxUploadBytes = n
			c.Timesheet.MaxBytes = n
		}
	}
	if v := getenv("WORKSUMMARY_LOAD_POLICY"); v != "" {
		c.Timesheet.Policy = strings.ToLower(v)
	}
	if v := getenv("WORKSUMMARY_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("WORKSUMMARY_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	c.LLM.ApplyEnv(getenv)
}

// Validate rejects settings no component can run with. The LLM section is
// only checked when the client is enabled.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	if c.Timesheet.MaxBytes <= 0 {
		return errors.New("timesheet.max_bytes must be positive")
	}
	if _, err := timesheet.ParsePolicy(c.Timesheet.Policy); err != nil {
		return fmt.Errorf("timesheet.policy: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.LLM.Enabled {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	}
	return nil
}

// LoadOptions returns the loader settings.
func (c *Config) LoadOptions() timesheet.LoadOptions {
	policy, _ := timesheet.ParsePolicy(c.Timesheet.Policy)
	return timesheet.LoadOptions{Policy: policy, MaxBytes: c.Timesheet.MaxBytes}
}

// SessionIdleTimeout returns the session idle timeout as a duration.
func (c *Config) SessionIdleTimeout() time.Duration {
	if c.Server.SessionIdleMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Server.SessionIdleMinutes) * time.Minute
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeoutMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Server.ShutdownTimeoutMs) * time.Millisecond
}
