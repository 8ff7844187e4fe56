package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// defaultBufferSize bounds the log history kept for stream replay.
const defaultBufferSize = 1000

// Logger is a duck-typed interface satisfied by *slog.Logger, for
// packages that only need the four leveled methods.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

var (
	mutex           sync.RWMutex
	moduleLoggers   = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	globalConfig    Config
	isInitialized   bool
	logBuffer       *RingBuffer
	logCallback     LogCallback
)

// Initialize applies the configuration. Loggers handed out before this
// call stay valid: their LevelVars are retuned in place and their
// handlers rebuilt with the configured format and the history buffer.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	isInitialized = true
	logBuffer = NewRingBuffer(defaultBufferSize)

	fallback := slog.LevelInfo
	if level, ok := parseLevel(config.Level); ok {
		fallback = level
	}

	for module, levelVar := range moduleLevelVars {
		levelVar.Set(resolveModuleLevel(config, module, fallback))
		moduleLoggers[module] = slog.New(buildHandler(config.Format, levelVar)).With("module", module)
	}

	rootLevel := &slog.LevelVar{}
	rootLevel.Set(fallback)
	slog.SetDefault(slog.New(buildHandler(config.Format, rootLevel)))
}

// GetBuffer returns the log history buffer, nil before Initialize.
func GetBuffer() *RingBuffer {
	mutex.RLock()
	defer mutex.RUnlock()
	return logBuffer
}

// SetLogCallback installs a callback invoked for every captured log
// entry, used to bridge logs onto the event bus.
func SetLogCallback(callback LogCallback) {
	mutex.Lock()
	defer mutex.Unlock()
	logCallback = callback
}

// GetLogger returns the shared logger for a module, creating it on
// first use. Loggers are cached, so callers may hold on to them.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	if logger, ok := moduleLoggers[module]; ok {
		mutex.RUnlock()
		return logger
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()

	// Double-check in case another goroutine created it
	if logger, ok := moduleLoggers[module]; ok {
		return logger
	}

	level := slog.LevelInfo
	format := "text"
	if isInitialized {
		format = globalConfig.Format
		if parsed, ok := parseLevel(globalConfig.Level); ok {
			level = parsed
		}
		level = resolveModuleLevel(globalConfig, module, level)
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	logger := slog.New(buildHandler(format, levelVar)).With("module", module)
	moduleLoggers[module] = logger
	moduleLevelVars[module] = levelVar
	return logger
}

// resolveModuleLevel picks the per-module override when one is set.
func resolveModuleLevel(config Config, module string, fallback slog.Level) slog.Level {
	if raw, ok := config.Modules[module]; ok {
		if level, parsed := parseLevel(raw); parsed {
			return level
		}
	}
	return fallback
}

// buildHandler assembles the handler chain: stdout in the configured
// format, the journal when running under systemd, and the capture
// handler feeding the history buffer. Caller must hold the mutex.
func buildHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	targets := []slog.Handler{stdout}
	if IsJournalAvailable() {
		targets = append(targets, NewJournalHandler(level))
	}
	// The capture handler looks the buffer up per record, so adding it
	// before Initialize creates the buffer is harmless.
	targets = append(targets, NewBufferHandler(level))

	return NewMultiHandler(targets...)
}

// parseLevel converts a config string to a slog level. The second
// return is false for unrecognized values.
func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
