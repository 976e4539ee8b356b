package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the subset of zap.SugaredLogger used across the tools.
//
// Loggers are injected and usually Named: lggr.Named("lifecycle")
type Logger interface {
	Name() string
	Named(name string) Logger
	With(keysAndValues ...any) Logger

	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Debugf(format string, values ...any)
	Infof(format string, values ...any)
	Warnf(format string, values ...any)
	Errorf(format string, values ...any)

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	Sync() error
}

type Config struct {
	Level string
	// File enables a rotated log file next to stderr
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New builds a production JSON logger
func New(c Config) (Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	if c.File != "" {
		maxSize := c.MaxSizeMB
		if maxSize == 0 {
			maxSize = 50
		}

		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    maxSize,
			MaxBackups: c.MaxBackups,
			Compress:   true,
		})

		fcore := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), w, lvl)
		z = z.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fcore)
		}))
	}

	return &logger{z.Sugar()}, nil
}

// Test returns a logger writing to tb
func Test(tb testing.TB) Logger {
	tb.Helper()
	return &logger{zaptest.NewLogger(tb).Sugar()}
}

// Nop returns a no-op Logger.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Name() string {
	return l.Desugar().Name()
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

func (l *logger) With(keysAndValues ...any) Logger {
	return &logger{l.SugaredLogger.With(keysAndValues...)}
}
