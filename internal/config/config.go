package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/san-kum/rve/internal/logging"
	"github.com/san-kum/rve/internal/park"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPark         = "demo"
	DefaultTickInterval = 250 * time.Millisecond
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

type Config struct {
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	LogFile      string        `yaml:"log_file"`
	Park         string        `yaml:"park"`
	TickInterval time.Duration `yaml:"tick_interval"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	Multiplier   int           `yaml:"multiplier"`
	// DebugNames prefixes ride labels with their id.
	DebugNames bool `yaml:"debug_names"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Park:         DefaultPark,
		TickInterval: DefaultTickInterval,
		Multiplier:   1,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the editor cannot run with.
func (c *Config) Validate() error {
	switch c.Multiplier {
	case 1, 10, 100:
	default:
		return fmt.Errorf("multiplier %d: must be 1, 10 or 100", c.Multiplier)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval %s: must be positive", c.TickInterval)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}

// MultiplierIndex is the position of Multiplier in the x1/x10/x100 list.
func (c *Config) MultiplierIndex() int {
	switch c.Multiplier {
	case 10:
		return 1
	case 100:
		return 2
	default:
		return 0
	}
}

// Logger builds the logger described by the config. LogFile takes precedence
// over fallback; the returned func closes it.
func (c *Config) Logger(fallback io.Writer) (logging.Logger, func() error, error) {
	out, closeFn := fallback, func() error { return nil }
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, f.Close
	}
	return logging.New(logging.Config{Level: c.LogLevel, Format: c.LogFormat, Output: out}), closeFn, nil
}

// OpenPark returns the park named by Park: a bundled preset or the path of a
// park file.
func (c *Config) OpenPark(log logging.Logger) (*park.Park, error) {
	name := c.Park
	if name == "" {
		name = DefaultPark
	}
	if f := GetPreset(name); f != nil {
		return park.Build(*f, log)
	}
	p, err := park.Load(name, log)
	if err != nil {
		return nil, fmt.Errorf("open park %q: %w", name, err)
	}
	return p, nil
}
