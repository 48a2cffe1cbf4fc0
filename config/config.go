// Package config loads tjv settings from the environment.
//
// A .env file in the working directory is loaded once, best-effort, before
// the first parse. Variables already set in the environment win over .env.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/reoring/tjv/i18n"
	"github.com/reoring/tjv/internal/logging"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	// ErrInvalidConfig is returned when a parsed value is out of range.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrNilPointer is returned when a nil pointer is provided to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)

// Color modes for diagnostic output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the process-wide settings.
type Config struct {
	MaxDepth  int    `env:"TJV_MAX_DEPTH" envDefault:"64"`
	Workers   int    `env:"TJV_WORKERS" envDefault:"4"`
	LogLevel  string `env:"TJV_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"TJV_LOG_FORMAT" envDefault:"text"`
	Lang      string `env:"TJV_LANG" envDefault:"en"`
	Color     string `env:"TJV_COLOR" envDefault:"auto"`
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{MaxDepth: 64, Workers: 4, LogLevel: "warn", LogFormat: "text", Lang: "en", Color: ColorAuto}
}

var dotenvLoaded sync.Once

// Load parses the environment into cfg and validates the result.
func Load(cfg *Config) error {
	dotenvLoaded.Do(func() {
		// the .env file is optional
		_ = godotenv.Load()
	})
	if cfg == nil {
		return ErrNilPointer
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return cfg.Validate()
}

// MustLoad works like Load but panics if loading fails.
func MustLoad() Config {
	var cfg Config
	if err := Load(&cfg); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("TJV_MAX_DEPTH must be positive, got %d", c.MaxDepth))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("TJV_WORKERS must be positive, got %d", c.Workers))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, err)
	}
	if !supported(c.Lang) {
		errs = append(errs, fmt.Errorf("TJV_LANG %q is not supported", c.Lang))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("TJV_COLOR must be %s, %s or %s, got %q", ColorAuto, ColorAlways, ColorNever, c.Color))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Logger builds the logger described by the config. Invalid settings fall
// back to info level text output.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		format = logging.FormatText
	}
	return logging.New(level, format, w)
}

// Apply makes Lang the active diagnostic language.
func (c Config) Apply() {
	i18n.SetLanguage(c.Lang)
}

func supported(lang string) bool {
	for _, l := range i18n.Languages() {
		if l == lang {
			return true
		}
	}
	return false
}
