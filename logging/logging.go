// Package logging builds the zap loggers used across the map view.
package logging

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level and format of a logger.
type Config struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level"`
	// Encoding is "console" or "json".
	Encoding string `yaml:"encoding"`
	// Development enables stack traces on warnings and panics on DPanic.
	Development bool `yaml:"development"`
	// OutputPaths are zap sink URLs; defaults to stderr so stdout stays free for command output.
	OutputPaths []string `yaml:"output_paths"`
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "console", OutputPaths: []string{"stderr"}}
}

// New constructs a zap logger from cfg.
//
// Parameters:
//   - cfg: the logger configuration
//
// Returns:
//   - *zap.Logger: the logger
//   - error: an error if the level or encoding is invalid
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrap(err, "parse log level")
		}
		level = l
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "console"
	}
	if encoding != "console" && encoding != "json" {
		return nil, errors.Errorf("unknown log encoding %q", encoding)
	}

	zc := StandardConfig(encoding, level)
	zc.Development = cfg.Development
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l, nil
}

// Must is New that panics on error.
func Must(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to construct zap logger: %v", err))
	}
	return l
}

// StandardConfig returns a zap config with the given encoding and level, writing to stderr.
func StandardConfig(encoding string, level zapcore.Level) zap.Config {
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "level",
			TimeKey:        "ts",
			CallerKey:      "caller",
			NameKey:        "name",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}
}
