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

	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/result"
)

// Environment overrides applied after the YAML file.
const (
	EnvAddr     = "FORMBUILDER_ADDR"
	EnvLogLevel = "FORMBUILDER_LOG_LEVEL"
	EnvTheme    = "FORMBUILDER_THEME"
	EnvOutput   = "FORMBUILDER_OUTPUT"
)

// DefaultEnvFile is loaded when present and no env files are named.
const DefaultEnvFile = ".env"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Builder BuilderConfig `yaml:"builder"`
	Theme   ThemeConfig   `yaml:"theme"`
	Log     LogConfig     `yaml:"log"`
	Output  string        `yaml:"output"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	Title           string        `yaml:"title"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SecureCookie    bool          `yaml:"secure_cookie"`
}

type BuilderConfig struct {
	DefaultType string `yaml:"default_type"`
	Reorder     bool   `yaml:"reorder"`
}

type ThemeConfig struct {
	Name     string `yaml:"name"`
	Variant  string `yaml:"variant"`
	Manifest string `yaml:"manifest"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Title:           "Form builder",
			SessionTTL:      30 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Builder: BuilderConfig{
			DefaultType: string(field.DefaultKind),
			Reorder:     true,
		},
		Output: string(result.OutputFormatPretty),
	}
}

// Load reads .env files, the optional YAML file at path and environment
// overrides, in that order, then validates the result.
func Load(path string, envFiles ...string) (Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvAddr); ok && strings.TrimSpace(v) != "" {
		c.Server.Addr = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTheme); ok && strings.TrimSpace(v) != "" {
		c.Theme.Name = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvOutput); ok && strings.TrimSpace(v) != "" {
		c.Output = strings.TrimSpace(v)
	}
}

// Validate rejects unknown kinds and output formats and non-positive
// durations.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("server.session_ttl must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if _, err := field.ParseKind(c.Builder.DefaultType); err != nil {
		errs = append(errs, fmt.Errorf("builder.default_type: %w", err))
	}
	if _, err := result.ParseFormat(c.Output); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultKind returns the configured default kind, falling back to text.
func (c Config) DefaultKind() field.Kind {
	kind, err := field.ParseKind(c.Builder.DefaultType)
	if err != nil {
		return field.DefaultKind
	}
	return kind
}

// OutputFormat returns the configured output format, falling back to pretty.
func (c Config) OutputFormat() result.OutputFormat {
	format, err := result.ParseFormat(c.Output)
	if err != nil {
		return result.OutputFormatPretty
	}
	return format
}

// loadEnv populates the process environment without overriding variables
// that are already set.
func loadEnv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		files = []string{DefaultEnvFile}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}
