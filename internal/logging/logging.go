package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// Config configures the application logger.
type Config struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string `yaml:"level"`
	// File is the log destination. Empty means stderr.
	File string `yaml:"file"`
	// Disabled discards all log output.
	Disabled bool `yaml:"-"`
}

// New builds a production logger for the given config.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Disabled {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = level
	loggerConfig.Encoding = "console"
	loggerConfig.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	if cfg.File != "" {
		loggerConfig.OutputPaths = []string{cfg.File}
		loggerConfig.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Named("memwarn"), nil
}
