package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger every layer receives. Error and Fatal take the
// failure separately so call sites never forget to attach it.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, err error, fields ...zap.Field)
	Fatal(msg string, err error, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

type zapAdapter struct {
	z *zap.Logger
}

// configFor returns JSON output for production and colored console output elsewhere.
func configFor(env string) zap.Config {
	if env != "production" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg
}

// NewZapLogger builds the process logger. A logger that cannot be built leaves the
// process with nowhere to report, so it exits.
func NewZapLogger(env string) Logger {
	z, err := configFor(env).Build(zap.AddCallerSkip(1), zap.Fields(zap.String("env", env)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init zap logger: %v\n", err)
		os.Exit(1)
	}
	return &zapAdapter{z: z}
}

// NewNopLogger discards everything. Used by tests and the CLI's quiet mode.
func NewNopLogger() Logger {
	return &zapAdapter{z: zap.NewNop()}
}

func withErr(err error, fields []zap.Field) []zap.Field {
	if err == nil {
		return fields
	}
	return append(fields, zap.Error(err))
}

func (l *zapAdapter) Info(msg string, fields ...zap.Field) { l.z.Info(msg, fields...) }

func (l *zapAdapter) Warn(msg string, fields ...zap.Field) { l.z.Warn(msg, fields...) }

func (l *zapAdapter) Error(msg string, err error, fields ...zap.Field) {
	l.z.Error(msg, withErr(err, fields)...)
}

func (l *zapAdapter) Fatal(msg string, err error, fields ...zap.Field) {
	l.z.Fatal(msg, withErr(err, fields)...)
}

func (l *zapAdapter) With(fields ...zap.Field) Logger {
	return &zapAdapter{z: l.z.With(fields...)}
}

func (l *zapAdapter) Sync() error { return l.z.Sync() }
