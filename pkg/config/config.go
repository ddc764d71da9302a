// 14 Oct 2026
// Package config holds the settings for the ssbond commands. Values
// come from, in rising order of priority, the defaults here, an
// optional yaml file, SSBOND_* environment variables and command
// line flags bound by the caller.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/andrew-torda/ssbond/pkg/logging"
	"github.com/andrew-torda/ssbond/pkg/ssbond"
)

const envPrefix = "SSBOND"

// Keys, so that flag binding and defaults agree.
const (
	KeyScanCutoff   = "scan.cutoff"
	KeyExportCutoff = "export.cutoff"
	KeyTolerance    = "match.tolerance"
	KeyWindow       = "fingerprint.window"
	KeyWorkers      = "survey.workers"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeyOutput       = "output"
)

// Output formats for reports.
const (
	OutText = "text"
	OutJSON = "json"
)

type Scan struct {
	Cutoff float64 `mapstructure:"cutoff"`
}

type Export struct {
	Cutoff float64 `mapstructure:"cutoff"`
}

type Match struct {
	Tolerance float64 `mapstructure:"tolerance"`
}

type Fingerprint struct {
	Window int `mapstructure:"window"`
}

type Survey struct {
	Workers int `mapstructure:"workers"` // 0 means one per cpu
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is everything the commands can be told.
type Config struct {
	Scan        Scan        `mapstructure:"scan"`
	Export      Export      `mapstructure:"export"`
	Match       Match       `mapstructure:"match"`
	Fingerprint Fingerprint `mapstructure:"fingerprint"`
	Survey      Survey      `mapstructure:"survey"`
	Log         Log         `mapstructure:"log"`
	Output      string      `mapstructure:"output"`
}

// New gives a viper with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyScanCutoff, ssbond.DefaultCutoff)
	v.SetDefault(KeyExportCutoff, ssbond.DefaultExportCut)
	v.SetDefault(KeyTolerance, ssbond.DefaultTolerance)
	v.SetDefault(KeyWindow, ssbond.DefaultWindow)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyOutput, OutText)
	return v
}

// Load reads path, if it is not empty, into v and returns the
// checked result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default is the configuration with nothing set.
func Default() *Config {
	cfg, err := Load(New(), "")
	if err != nil {
		panic("config: defaults do not validate: " + err.Error())
	}
	return cfg
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	if c.Scan.Cutoff <= 0 {
		return fmt.Errorf("config: %s must be > 0, got %g", KeyScanCutoff, c.Scan.Cutoff)
	}
	if c.Export.Cutoff <= 0 {
		return fmt.Errorf("config: %s must be > 0, got %g", KeyExportCutoff, c.Export.Cutoff)
	}
	if c.Match.Tolerance <= 0 {
		return fmt.Errorf("config: %s must be > 0, got %g", KeyTolerance, c.Match.Tolerance)
	}
	if c.Fingerprint.Window < 0 {
		return fmt.Errorf("config: %s must be >= 0, got %d", KeyWindow, c.Fingerprint.Window)
	}
	if c.Survey.Workers < 0 {
		return fmt.Errorf("config: %s must be >= 0, got %d", KeyWorkers, c.Survey.Workers)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %s: %w", KeyLogLevel, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: %s %q, want console or json", KeyLogFormat, c.Log.Format)
	}
	switch c.Output {
	case OutText, OutJSON:
	default:
		return fmt.Errorf("config: %s %q, want %s or %s", KeyOutput, c.Output, OutText, OutJSON)
	}
	return nil
}

// LogConfig is the part the logger wants.
func (c *Config) LogConfig() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Options turns the settings into options for the bond operations.
func (c *Config) Options() *ssbond.Options {
	return &ssbond.Options{Window: c.Fingerprint.Window, Cutoff: c.Scan.Cutoff}
}
