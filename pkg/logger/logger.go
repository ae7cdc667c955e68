package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls the zap backend behind the package-level helpers.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
}

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	format := "console"
	if os.Getenv("ENVIRONMENT") == "production" {
		format = "json"
	}
	if err := Init(Config{Level: "debug", Format: format, OutputPath: "stdout"}); err != nil {
		base = zap.NewNop()
		sugar = base.Sugar()
	}
}

// Init replaces the process logger. Safe to call once at startup before
// any goroutines log.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.Format != "json" && cfg.Format != "console" {
		cfg.Format = "console"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stdout"
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         cfg.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{cfg.OutputPath},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	base = l
	sugar = l.Sugar()
	return nil
}

// L returns the structured logger for code that wants typed fields.
func L() *zap.Logger {
	return base.WithOptions(zap.AddCallerSkip(-1))
}

func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	_ = base.Sync()
}
