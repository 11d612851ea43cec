package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Log struct {
	Verbose bool   `toml:"verbose"`
	File    string `toml:"file"`
}

type Translate struct {
	Provider        string `toml:"provider"`
	Model           string `toml:"model"`
	BatchSize       int    `toml:"batch_size"`
	Concurrency     int    `toml:"concurrency"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
}

type Video struct {
	ProbeTimeout Duration `toml:"probe_timeout"`
}

// Config holds the full application configuration.
type Config struct {
	Server    Server    `toml:"server"`
	Log       Log       `toml:"log"`
	Translate Translate `toml:"translate"`
	Video     Video     `toml:"video"`
}

// Duration lets TOML carry values like "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Server: Server{
			Host: "127.0.0.1",
			Port: 8890,
		},
		Translate: Translate{
			Provider:        "gemini",
			BatchSize:       50,
			Concurrency:     3,
			RateLimitPerMin: 0,
		},
		Video: Video{
			ProbeTimeout: Duration{15 * time.Second},
		},
	}
}

var resolveConfigPath = defaultConfigPath

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "capstudio", "config.toml"), nil
}

// Path returns path, or the per-user default location when it is empty.
func Path(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return resolveConfigPath()
}

// LoadOrCreate reads the config at path. A missing file is created with
// defaults and created is reported true.
func LoadOrCreate(path string) (cfg *Config, created bool, err error) {
	path, err = Path(path)
	if err != nil {
		return nil, false, err
	}

	cfg = Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := Save(cfg, path); err != nil {
			return nil, false, err
		}
		created = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, created, nil
}

// Save writes cfg as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	path, err := Path(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Translate.BatchSize <= 0 {
		return fmt.Errorf("translate.batch_size must be positive, got %d", c.Translate.BatchSize)
	}
	if c.Translate.Concurrency <= 0 {
		return fmt.Errorf("translate.concurrency must be positive, got %d", c.Translate.Concurrency)
	}
	if c.Translate.RateLimitPerMin < 0 {
		return fmt.Errorf("translate.rate_limit_per_min must not be negative")
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
