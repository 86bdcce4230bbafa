package logging

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// Logger reports tolerated input problems.
// Records beyond the rate limit are dropped so that a large malformed input can't flood the sink.
type Logger struct {
	limiter *rate.Limiter
	logFn   func(msg string, args ...any)
}

// NewLogger creates a logger that writes to l at verbosity 1.
func NewLogger(l logr.Logger) *Logger {
	return &Logger{
		// Hardcoded safety limit to avoid spewing too many logs
		limiter: rate.NewLimiter(rate.Every(time.Second), 50),
		logFn: func(msg string, args ...any) {
			l.V(1).Info(msg, args...)
		},
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(logr.Discard())
}

// FromZap adapts a zap logger, adding the given name to every entry when it isn't empty.
func FromZap(zl *zap.Logger, name string) logr.Logger {
	logger := zapr.NewLogger(zl)
	if name != "" {
		logger = logger.WithName(name)
	}
	return logger
}

// NewZapLogger builds a zap production logger, at debug level when requested, wrapped with zapr.
func NewZapLogger(debug bool) (logr.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zl, err := zapCfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

// Log writes the message unless the rate limit has been exceeded.
// It reports whether the message was written.
func (l *Logger) Log(msg string, field ...any) bool {
	if !l.limiter.Allow() {
		return false
	}
	l.logFn(msg, field...)
	return true
}

func (l *Logger) WithLogFn(fn func(msg string, args ...any)) *Logger {
	l.logFn = fn
	return l
}

// WithLimit replaces the rate limit.
func (l *Logger) WithLimit(limit rate.Limit, burst int) *Logger {
	l.limiter = rate.NewLimiter(limit, burst)
	return l
}
