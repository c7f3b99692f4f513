package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go.
type Options struct {
	Environment string
	// File, when set, receives JSON logs in addition to stdout and is rotated by size.
	File      string
	MaxSizeMB int
}

// New builds the process logger. Production uses the JSON encoder with
// ISO-8601 timestamps, everything else uses the colored console encoder.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if opts.File == "" {
		log, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		return log, nil
	}

	level := zap.NewAtomicLevelAt(cfg.Level.Level())
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), zapcore.AddSync(os.Stdout), level)

	fileEncoderConfig := cfg.EncoderConfig
	fileEncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: 5,
		Compress:   true,
	}
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(rotator), level)

	return zap.New(zapcore.NewTee(consoleCore, fileCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
