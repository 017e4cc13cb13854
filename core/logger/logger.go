// Package logger provides the application-wide structured logger.
// It wraps a zap SugaredLogger behind package-level functions so call
// sites stay short: logger.Info("EventService:Register:Start", "event_id", id).
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.SugaredLogger
	once   sync.Once
)

// Config holds logger settings.
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoder + colors when true
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the global logger. Safe to call more than once; only the
// first call wins.
func Init(cfg Config) {
	once.Do(func() {
		zapCfg := zap.NewProductionConfig()
		if cfg.Development {
			zapCfg = zap.NewDevelopmentConfig()
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		l, err := zapCfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		global = l.Sugar()
	})
}

func get() *zap.SugaredLogger {
	if global == nil {
		Init(Config{Level: "info"})
	}
	return global
}

// Debug logs at debug level with alternating key/value pairs.
func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, keysAndValues...)
}

// Info logs at info level with alternating key/value pairs.
func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, keysAndValues...)
}

// Warn logs at warn level with alternating key/value pairs.
func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, keysAndValues...)
}

// Error logs at error level with alternating key/value pairs.
func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, keysAndValues...)
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = get().Sync()
}
