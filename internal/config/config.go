// Package config loads the settings of the hollywood CLI.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/granchi/hollywood/internal/logging"
)

// Preference backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written as "250ms", "1s"...
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Redis holds the connection settings of the redis backend.
type Redis struct {
	Addr     string   `yaml:"addr" json:"addr"`
	Password string   `yaml:"password" json:"password"`
	DB       int      `yaml:"db" json:"db"`
	Prefix   string   `yaml:"prefix" json:"prefix"`
	TTL      Duration `yaml:"ttl" json:"ttl"`
}

// Preferences selects where preferences are stored.
type Preferences struct {
	Backend   string `yaml:"backend" json:"backend"`
	Namespace string `yaml:"namespace" json:"namespace"`
	Redis     Redis  `yaml:"redis" json:"redis"`
	// EncryptionKey is a base64 AES-256 key. When set, values are stored
	// encrypted. FallbackKeys still decrypt values sealed before a rotation.
	EncryptionKey string   `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys" json:"fallback_keys"`
	// Mask lists key patterns whose values are replaced by "***" before
	// saving. The original values are not stored and load back as "***".
	Mask []string `yaml:"mask" json:"mask"`
}

// Keys decodes the encryption keys. It returns nil when encryption is off.
func (p Preferences) Keys() (active []byte, fallback [][]byte, err error) {
	if p.EncryptionKey == "" {
		if len(p.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("%w: fallback keys need an encryption key", ErrInvalid)
		}
		return nil, nil, nil
	}
	decode := func(s string) ([]byte, error) {
		k, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: encryption key is not base64: %v", ErrInvalid, err)
		}
		if len(k) != 32 {
			return nil, fmt.Errorf("%w: encryption key must decode to 32 bytes, got %d", ErrInvalid, len(k))
		}
		return k, nil
	}
	if active, err = decode(p.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for _, s := range p.FallbackKeys {
		k, err := decode(s)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, k)
	}
	return active, fallback, nil
}

// Config is the content of the CLI configuration file.
type Config struct {
	LogLevel    string      `yaml:"log_level" json:"log_level"`
	LogJSON     bool        `yaml:"log_json" json:"log_json"`
	MetricsAddr string      `yaml:"metrics_addr" json:"metrics_addr"`
	Count       int         `yaml:"count" json:"count"`
	Interval    Duration    `yaml:"interval" json:"interval"`
	Preferences Preferences `yaml:"preferences" json:"preferences"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Count:    5,
		Interval: Duration(time.Second),
		Preferences: Preferences{
			Backend:   BackendMemory,
			Namespace: "countdown",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "hollywood:prefs:",
			},
		},
	}
}

// Load reads a YAML or JSON file over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values are usable.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalid, c.Count)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalid, c.Interval)
	}
	switch c.Preferences.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Preferences.Redis.Addr == "" {
			return fmt.Errorf("%w: redis backend needs an address", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown preferences backend %q", ErrInvalid, c.Preferences.Backend)
	}
	if c.Preferences.Namespace == "" {
		return fmt.Errorf("%w: preferences namespace is empty", ErrInvalid)
	}
	if _, _, err := c.Preferences.Keys(); err != nil {
		return err
	}
	for _, p := range c.Preferences.Mask {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: mask pattern %q: %v", ErrInvalid, p, err)
		}
	}
	return nil
}
