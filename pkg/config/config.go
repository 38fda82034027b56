// Package config loads gantta's YAML configuration: file values are merged over the
// defaults, then the environment overrides a few keys.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/gantta/pkg/columns"
	"github.com/harrisonrobin/gantta/pkg/layout"
	"github.com/harrisonrobin/gantta/pkg/normalize"
	"github.com/harrisonrobin/gantta/pkg/runner"
)

const (
	xdgAppName = "gantta"
	configFile = "config.yaml"

	DefaultCalendar = "Gantt"

	EnvCalendar      = "GANTTA_CALENDAR"
	EnvPython        = "GANTTA_PYTHON"
	EnvScriptTimeout = "GANTTA_SCRIPT_TIMEOUT"
)

// ErrInvalid is matched by every configuration that cannot be decoded or validated.
var ErrInvalid = errors.New("invalid configuration")

// Formats lists every output format gantta can render.
var Formats = []string{"svg", "html", "pdf", "csv", "deck-script", "doc-script", "pptx", "docx", "calendar"}

type Config struct {
	// Calendar is the Google Calendar events are published to.
	Calendar  string   `yaml:"calendar,omitempty" validate:"required"`
	Title     string   `yaml:"title,omitempty"`
	OutputDir string   `yaml:"output_dir,omitempty" validate:"required"`
	Formats   []string `yaml:"formats,omitempty" validate:"min=1,dive,oneof=svg html pdf csv deck-script doc-script pptx docx calendar"`

	Python        string        `yaml:"python,omitempty" validate:"required"`
	ScriptTimeout time.Duration `yaml:"script_timeout,omitempty" validate:"gt=0"`

	DefaultCategory     string           `yaml:"default_category,omitempty"`
	MissingPlaceholders []string         `yaml:"missing_placeholders,omitempty"`
	Columns             columns.Synonyms `yaml:"columns,omitempty"`
	Layout              layout.Config    `yaml:"layout,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	norm := normalize.DefaultOptions()
	return &Config{
		Calendar:            DefaultCalendar,
		Title:               "Gantt chart",
		OutputDir:           ".",
		Formats:             []string{"svg", "html"},
		Python:              runner.DefaultInterpreter,
		ScriptTimeout:       runner.DefaultTimeout,
		DefaultCategory:     norm.DefaultCategory,
		MissingPlaceholders: norm.MissingPlaceholders,
		Columns:             norm.Synonyms,
		Layout:              layout.DefaultConfig(),
	}
}

// Normalize returns the normalizer options the configuration describes.
func (c *Config) Normalize() normalize.Options {
	return normalize.Options{
		Synonyms:            c.Columns,
		DefaultCategory:     c.DefaultCategory,
		MissingPlaceholders: c.MissingPlaceholders,
	}
}

// Dir is the directory holding the configuration file and the OAuth files.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// Path is the default location of the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration at path, or at Path when path is empty. Only an explicit
// path has to exist. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	file, err := read(path)
	switch {
	case err == nil:
		if err := mergo.Merge(cfg, *file, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalid, path, err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvCalendar)); v != "" {
		cfg.Calendar = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPython)); v != "" {
		cfg.Python = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvScriptTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, EnvScriptTimeout, err)
		}
		cfg.ScriptTimeout = d
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field of cfg, including the layout dimensions.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SetCalendar stores name as the default calendar in the file at path (Path when
// empty), keeping every other value of the file.
func SetCalendar(path, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty calendar name", ErrInvalid)
	}
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}
	cfg, err := read(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return err
	}
	cfg.Calendar = name
	return Save(path, cfg)
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
