package log

import (
	"context"
	"sync"
)

// Record is a captured log record.
type Record struct {
	Level  Level
	Msg    string
	Fields map[string]any
}

// TestLogger is a Logger implementation that captures records in memory.
// It is safe for concurrent use.
type TestLogger struct {
	mu      sync.Mutex
	records []Record
	base    map[string]any
	shared  *[]Record
}

// NewTestLogger creates a TestLogger with no pre-populated fields.
func NewTestLogger() *TestLogger {
	records := make([]Record, 0)
	return &TestLogger{shared: &records}
}

// Records returns a copy of everything logged so far, including records
// emitted through derived (With) loggers.
func (t *TestLogger) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(*t.shared))
	copy(out, *t.shared)
	return out
}

// Reset clears captured records.
func (t *TestLogger) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.shared = (*t.shared)[:0]
}

// HasMessage reports whether any record carries the given message.
func (t *TestLogger) HasMessage(msg string) bool {
	for _, r := range t.Records() {
		if r.Msg == msg {
			return true
		}
	}
	return false
}

func (t *TestLogger) capture(level Level, msg string, fields []any) {
	rec := Record{Level: level, Msg: msg, Fields: make(map[string]any, len(t.base)+len(fields)/2)}
	for k, v := range t.base {
		rec.Fields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			rec.Fields[key] = fields[i+1]
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.shared = append(*t.shared, rec)
}

// Debug implements Logger.
func (t *TestLogger) Debug(msg string, fields ...any) { t.capture(LevelDebug, msg, fields) }

// Info implements Logger.
func (t *TestLogger) Info(msg string, fields ...any) { t.capture(LevelInfo, msg, fields) }

// Warn implements Logger.
func (t *TestLogger) Warn(msg string, fields ...any) { t.capture(LevelWarn, msg, fields) }

// Error implements Logger.
func (t *TestLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{"error", err.Error()}, fields[1:]...)
		}
	}
	t.capture(LevelError, msg, fields)
}

// With implements Logger; the derived logger shares the capture buffer.
func (t *TestLogger) With(fields ...any) Logger {
	base := make(map[string]any, len(t.base)+len(fields)/2)
	for k, v := range t.base {
		base[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			base[key] = fields[i+1]
		}
	}
	return &TestLogger{base: base, shared: t.shared}
}

// Enabled implements Logger; the test logger captures everything.
func (t *TestLogger) Enabled(_ context.Context, _ Level) bool { return true }
