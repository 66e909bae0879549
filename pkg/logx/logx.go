package logx

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar  = build("console")
	format = "console"
)

func build(f string) *zap.SugaredLogger {
	var cfg zap.Config
	if f == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = level
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLevel changes the minimum level emitted
func SetLevel(l Level) {
	level.SetLevel(toZap(l))
}

// GetLevel returns the current minimum level
func GetLevel() Level {
	switch level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// SetFormat switches between "json" and "console" encoding
func SetFormat(f string) {
	f = strings.ToLower(f)
	if f != "json" {
		f = "console"
	}

	mu.Lock()
	defer mu.Unlock()
	if f == format {
		return
	}
	_ = sugar.Sync()
	sugar = build(f)
	format = f
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZap(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Sync flushes buffered entries
func Sync() {
	_ = logger().Sync()
}

func Debug(args ...any) { logger().Debug(args...) }
func Info(args ...any)  { logger().Info(args...) }
func Warn(args ...any)  { logger().Warn(args...) }
func Error(args ...any) { logger().Error(args...) }
func Fatal(args ...any) { logger().Fatal(args...) }

func Debugf(template string, args ...any) { logger().Debugf(template, args...) }
func Infof(template string, args ...any)  { logger().Infof(template, args...) }
func Warnf(template string, args ...any)  { logger().Warnf(template, args...) }
func Errorf(template string, args ...any) { logger().Errorf(template, args...) }
func Fatalf(template string, args ...any) { logger().Fatalf(template, args...) }

// With returns a child logger carrying structured fields
func With(keysAndValues ...any) *zap.SugaredLogger {
	return logger().With(keysAndValues...)
}
