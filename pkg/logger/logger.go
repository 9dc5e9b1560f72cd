package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tickerpulse/pkg/errors"
)

// Logger is a thin veneer over zap's SugaredLogger. Error-level entries
// are mirrored to the error tracker through a core hook, so call sites
// log normally and the report still reaches Sentry.
type Logger struct {
	*zap.SugaredLogger
}

var (
	mu      sync.RWMutex
	global  *Logger
	tracker errors.Tracker
)

// Init builds the global logger. Production logs JSON to stdout;
// everything else gets a colored console encoder.
func Init(level, env string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if env == "production" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	zl := zap.New(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Hooks(capture),
	)

	mu.Lock()
	global = &Logger{SugaredLogger: zl.Sugar()}
	mu.Unlock()
	return nil
}

// SetErrorTracker routes error-level entries to the given tracker.
// Called once during bootstrap, before any workers start.
func SetErrorTracker(t errors.Tracker) {
	mu.Lock()
	tracker = t
	mu.Unlock()
}

// capture mirrors error-and-above entries to the tracker. The hook
// rides on the core, so child loggers created via With inherit it.
func capture(entry zapcore.Entry) error {
	mu.RLock()
	t := tracker
	mu.RUnlock()

	if t != nil && entry.Level >= zapcore.ErrorLevel {
		_ = t.CaptureMessage(context.Background(), entry.Message, errors.LevelError, nil)
	}
	return nil
}

// Get returns the global logger, building a development fallback when
// Init has not run (tests, early startup).
func Get() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		zl, _ := zap.NewDevelopment(zap.Hooks(capture))
		global = &Logger{SugaredLogger: zl.Sugar()}
	}
	return global
}

// With creates a child logger with additional structured fields
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// ErrorWithContext logs an error and reports it to the tracker with
// request-scoped tags, which the plain hook cannot carry.
func (l *Logger) ErrorWithContext(ctx context.Context, err error, tags map[string]string) {
	l.SugaredLogger.Error(err)

	mu.RLock()
	t := tracker
	mu.RUnlock()
	if t != nil {
		_ = t.CaptureError(ctx, err, tags)
	}
}

// Sync flushes any buffered log entries
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		return global.SugaredLogger.Sync()
	}
	return nil
}
