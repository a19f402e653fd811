// Package logging builds the zap loggers used by the command line and TUI.
package logging

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps routine runs quiet; parse diagnostics are debug.
const DefaultLevel = "warn"

// ParseLevel maps a level name to a zap level. Names are case-insensitive and
// "trace" is accepted as an alias for debug.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		level = DefaultLevel
	case "trace":
		level = "debug"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "log level %q", level)
	}
	return lvl, nil
}

// Config returns a console-encoded zap config writing to path, or to stderr
// when path is empty.
func Config(level zapcore.Level, path string) zap.Config {
	out := "stderr"
	if path != "" {
		out = path
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       false,
		DisableStacktrace: true,
		Encoding:          "console",
		OutputPaths:       []string{out},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     enc,
	}
}

// New builds a logger at the named level.
func New(level, path string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log, err := Config(lvl, path).Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return log, nil
}
