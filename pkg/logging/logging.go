// 14 Oct 2026
// Package logging builds the zap logger used by the command line
// programs. Logs go to stderr so they do not mix with reports on
// stdout.

package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config says how much to log and in which format.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Paths  []string
}

// ParseLevel maps a level name to zap's. Unknown names give an error
// rather than quietly logging at info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var encCfg zapcore.EncoderConfig
	encoding := "json"
	switch cfg.Format {
	case "", "console":
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	case "json":
		encCfg = zap.NewProductionEncoderConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	zcfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encCfg,
		OutputPaths:       paths,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	z, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return z, nil
}

// Nop throws everything away.
func Nop() *zap.Logger { return zap.NewNop() }
