// Package log builds the zap logger used by the command line tools.
//
// The query packages do not log; they report through returned errors.
package log

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures a logger
type Config struct {
	// Level: debug, info, warn, error, dpanic, panic, fatal
	Level string `yaml:"level"`

	// Encoding: json or console
	Encoding string `yaml:"encoding"`

	// OutputPaths lists destinations: stdout, stderr or file paths
	OutputPaths []string `yaml:"output_paths"`

	// ErrorOutputPaths receive error and above only
	ErrorOutputPaths []string `yaml:"error_output_paths"`

	Development   bool `yaml:"development"`
	DisableCaller bool `yaml:"disable_caller"`
}

// DefaultConfig logs to stderr so that stdout carries query results only
func DefaultConfig() Config {
	return Config{
		Level:       "warn",
		Encoding:    "console",
		OutputPaths: []string{"stderr"},
	}
}

// NewLogger creates a logger from cfg
func NewLogger(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	newEncoder := func() (zapcore.Encoder, error) {
		switch cfg.Encoding {
		case "json":
			return zapcore.NewJSONEncoder(encoderConfig), nil
		case "console", "":
			return zapcore.NewConsoleEncoder(encoderConfig), nil
		}
		return nil, fmt.Errorf("invalid log encoding %q (must be json or console)", cfg.Encoding)
	}

	var cores []zapcore.Core
	addCore := func(path string, enabler zapcore.LevelEnabler) error {
		writer, err := openWriter(path)
		if err != nil {
			return err
		}
		encoder, err := newEncoder()
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(encoder, writer, enabler))
		return nil
	}

	for _, path := range cfg.OutputPaths {
		if err := addCore(path, level); err != nil {
			return nil, err
		}
	}
	for _, path := range cfg.ErrorOutputPaths {
		if slices.Contains(cfg.OutputPaths, path) {
			continue
		}
		if err := addCore(path, zapcore.ErrorLevel); err != nil {
			return nil, err
		}
	}

	var opts []zap.Option
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return zap.New(zapcore.NewTee(cores...), opts...), nil
}

func openWriter(path string) (zapcore.WriteSyncer, error) {
	switch path {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.AddSync(f), nil
}
