package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// ProfileEnv names the environment variable pointing at an optional TOML
// profile. Values from the profile are applied before the environment.
const ProfileEnv = "BROWSER_PROFILE"

// Config holds all browser configuration.
type Config struct {
	StartPage string          `envconfig:"BROWSER_START_PAGE" toml:"start_page"`
	Viewport  ViewportConfig  `toml:"viewport"`
	Transport TransportConfig `toml:"transport"`
	Logging   LogConfig       `toml:"logging"`
}

// ViewportConfig holds the initial window size in pixels.
type ViewportConfig struct {
	Width  int `envconfig:"VIEWPORT_WIDTH" toml:"width"`
	Height int `envconfig:"VIEWPORT_HEIGHT" toml:"height"`
}

// TransportConfig holds connection settings.
type TransportConfig struct {
	UserAgent          string   `envconfig:"USER_AGENT" toml:"user_agent"`
	DialTimeout        Duration `envconfig:"DIAL_TIMEOUT" toml:"dial_timeout"`
	RequestsPerSecond  float64  `envconfig:"REQUESTS_PER_SECOND" toml:"requests_per_second"`
	BreakerThreshold   uint32   `envconfig:"BREAKER_THRESHOLD" toml:"breaker_threshold"`
	BreakerCooldown    Duration `envconfig:"BREAKER_COOLDOWN" toml:"breaker_cooldown"`
	InsecureSkipVerify bool     `envconfig:"TLS_INSECURE" toml:"tls_insecure"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development"`
}

// Duration is a time.Duration written as "10s" in both TOML and the
// environment.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load builds configuration from defaults, then the profile named by
// BROWSER_PROFILE (if set), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ProfileEnv); path != "" {
		if err := cfg.applyProfile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or returns the defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		StartPage: DefaultStartPage(),
		Viewport: ViewportConfig{
			Width:  800,
			Height: 600,
		},
		Transport: TransportConfig{
			UserAgent:        "MyBrowser/",
			DialTimeout:      Duration{10 * time.Second},
			BreakerThreshold: 3,
			BreakerCooldown:  Duration{30 * time.Second},
		},
		Logging: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultStartPage is the local test document opened when no locator is
// given: ~/Documents/webbrowser/testfile.
func DefaultStartPage() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	return "file://" + filepath.Join(home, "Documents", "webbrowser", "testfile")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport size must not be negative: %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Transport.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative: %v", c.Transport.RequestsPerSecond)
	}
	if c.Transport.DialTimeout.Duration < 0 {
		return fmt.Errorf("dial timeout must not be negative: %s", c.Transport.DialTimeout)
	}
	return nil
}

func (c *Config) applyProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return nil
}
