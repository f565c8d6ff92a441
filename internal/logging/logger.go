package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// HistorySize is the number of entries kept for /api/logs.
const HistorySize = 1000

var (
	mutex           sync.RWMutex
	globalConfig    Config
	isInitialized   bool
	globalLevelVar  = &slog.LevelVar{}
	moduleLoggers   = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	logHistory      *History
	logCallback     LogCallback
)

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// levelFor resolves the effective level of module under cfg.
func (cfg Config) levelFor(module string) slog.Level {
	level := slog.LevelInfo
	if parsed := parseLevel(cfg.Level); parsed != nil {
		level = *parsed
	}
	if module != "" {
		if parsed := parseLevel(cfg.Modules[module]); parsed != nil {
			level = *parsed
		}
	}
	return level
}

// Initialize sets up the logging system. Loggers obtained earlier are
// rebuilt so that they also feed the history and journal.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	isInitialized = true
	logHistory = NewHistory(HistorySize)

	globalLevelVar.Set(config.levelFor(""))
	for module, levelVar := range moduleLevelVars {
		levelVar.Set(config.levelFor(module))
		moduleLoggers[module] = slog.New(createHandler(config.Format, levelVar)).With("module", module)
	}

	slog.SetDefault(slog.New(createHandler(config.Format, globalLevelVar)))
}

// SetLevels re-applies global and per-module levels without rebuilding
// handlers. Used when the config file changes at runtime.
func SetLevels(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig.Level = config.Level
	globalConfig.Modules = config.Modules

	globalLevelVar.Set(config.levelFor(""))
	for module, levelVar := range moduleLevelVars {
		levelVar.Set(config.levelFor(module))
	}
}

// GetHistory returns the in-memory log history, nil before Initialize.
func GetHistory() *History {
	mutex.RLock()
	defer mutex.RUnlock()
	return logHistory
}

// SetLogCallback sets a callback to be called for each new log entry.
// Used for publishing log events to SSE clients.
func SetLogCallback(callback LogCallback) {
	mutex.Lock()
	defer mutex.Unlock()
	logCallback = callback
}

// GetLogger returns a logger for the specified module, creating it if needed.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	logger, exists := moduleLoggers[module]
	mutex.RUnlock()
	if exists {
		return logger
	}

	mutex.Lock()
	defer mutex.Unlock()

	if logger, exists := moduleLoggers[module]; exists {
		return logger
	}

	levelVar := &slog.LevelVar{}
	format := "text"
	if isInitialized {
		levelVar.Set(globalConfig.levelFor(module))
		format = globalConfig.Format
	}

	logger = slog.New(createHandler(format, levelVar)).With("module", module)
	moduleLoggers[module] = logger
	moduleLevelVars[module] = levelVar
	return logger
}

// createHandler builds the output chain: stdout when attached, the journal
// when running under systemd, and always the history.
func createHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	var handlers fanout
	if isStdoutAvailable() {
		handlers = append(handlers, stdout)
	}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, NewBufferHandler(level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return handlers
}

// isStdoutAvailable reports whether stdout goes somewhere other than
// /dev/null: a terminal, pipe, socket or regular file.
func isStdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&os.ModeCharDevice != 0 || mode&os.ModeNamedPipe != 0 || mode&os.ModeSocket != 0 || mode.IsRegular()
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) *slog.Level {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil
	}
	return &l
}
