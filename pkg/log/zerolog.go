package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ezoic/descent/pkg/errors"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// zerologProvider is the default LoggerProvider backed by zerolog.
type zerologProvider struct {
	mu     sync.RWMutex
	root   zerolog.Logger
	output io.Writer
}

var (
	defaultProvider *zerologProvider
	providerOnce    sync.Once
)

func provider() *zerologProvider {
	providerOnce.Do(func() {
		out := io.Writer(os.Stderr)
		defaultProvider = &zerologProvider{
			root:   zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
			output: out,
		}
		// Route library warnings through structured logging. Warning types
		// implementing zerolog.LogObjectMarshaler keep their fields.
		errors.SetZerologWarnFunc(func(warning error) {
			rl := defaultProvider.rootLogger()
			ev := rl.Warn()
			if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
				ev.Object("warning", obj)
			}
			ev.Msg(warning.Error())
		})
	})
	return defaultProvider
}

func (p *zerologProvider) rootLogger() zerolog.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.root
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	return &zerologLogger{zl: provider().rootLogger()}
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: provider().rootLogger().With().Str(ComponentKey, name).Logger()}
}

// SetLevel sets the minimum level for the default provider.
func SetLevel(level Level) {
	p := provider()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = p.root.Level(toZerologLevel(level))
}

// SetOutput redirects the default provider's output. Intended for tests and
// for embedding the library in applications with their own log plumbing.
func SetOutput(w io.Writer) {
	p := provider()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
	p.root = zerolog.New(w).Level(p.root.GetLevel()).With().Timestamp().Logger()
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func fromZerologLevel(level zerolog.Level) Level {
	switch level {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}

// Debug implements Logger.
func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

// Info implements Logger.
func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

// Warn implements Logger.
func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error implements Logger.
func (l *zerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if obj, objOk := err.(zerolog.LogObjectMarshaler); objOk {
				ev = ev.Object("error_detail", obj)
			}
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

// With implements Logger.
func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.
func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return fromZerologLevel(l.zl.GetLevel()) <= level
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}
