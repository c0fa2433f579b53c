package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogFile = "kiosk-imagemap.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	level        = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger       *zap.Logger
	// tracer shares logger's sink but ignores level so --trace always writes.
	tracer       *zap.Logger
)

// Error writes errors to the shared log file. The terminal belongs to the
// UI, so nothing is ever printed to stdout.
func Error(err error) {
	if err == nil {
		return
	}
	current().Error(err.Error())
}

// Info records an informational message with structured fields.
func Info(msg string, fields ...zap.Field) {
	current().Info(msg, fields...)
}

// Debug records a debug message with structured fields.
func Debug(msg string, fields ...zap.Field) {
	current().Debug(msg, fields...)
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether trace entries are emitted.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	currentTracer().Info("trace", zap.String("event", event), zap.Any("payload", payload))
}

// SetLevel adjusts the minimum level of the shared logger. Unknown values
// leave the level unchanged and return an error.
func SetLevel(name string) error {
	trimmed := strings.TrimSpace(strings.ToLower(name))
	if trimmed == "" {
		return nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(trimmed)); err != nil {
		return fmt.Errorf("unknown log level %q", name)
	}
	level.SetLevel(lvl)
	return nil
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	target := strings.TrimSpace(path)
	if target == "" {
		target = defaultLogFile
	} else if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		target = defaultLogFile
	}
	if logger != nil {
		_ = logger.Sync()
	}
	logPath = target
	logger, tracer = build(target)
}

// Path returns the current log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Sync flushes buffered entries.
func Sync() {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}

func current() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger, tracer = build(logPath)
	}
	return logger
}

func currentTracer() *zap.Logger {
	current()
	mu.Lock()
	defer mu.Unlock()
	return tracer
}

// build returns the level-filtered logger and the unfiltered trace logger,
// both writing to path.
func build(path string) (*zap.Logger, *zap.Logger) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	base, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return zap.NewNop(), zap.NewNop()
	}
	return base.WithOptions(zap.IncreaseLevel(level)), base
}
