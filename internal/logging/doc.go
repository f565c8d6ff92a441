// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"render": "debug",  // Per-module overrides
//			"http":   "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mymodule")
//	logger.Info("Starting up", "port", 8080)
//	logger.Debug("Details", "config", cfg)
//	logger.Warn("Something unusual", "error", err)
//	logger.Error("Failed", "error", err)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("render").With("driver", drv.Name())
//	logger.Info("Render loop started")  // Includes driver in all logs
//
// # Log Levels
//
//	debug - Verbose debugging information
//	info  - General operational messages
//	warn  - Warning conditions
//	error - Error conditions
//
// Every logger also feeds a numbered in-memory [History] ([GetHistory]).
// /api/logs queries it and /api/logs/stream replays it, resuming from the
// Last-Event-ID a reconnecting browser sends.
//
// # Output Destinations
//
// The system automatically detects available outputs:
//
//	Journal available + stdout available → both, plus the history
//	Journal available only              → JournalHandler + history
//	Stdout available only               → TextHandler or JSONHandler + history
//
// Journal availability is checked via [github.com/coreos/go-systemd/v22/journal.Enabled].
//
// # Viewing Logs
//
// When running as a systemd service or on a system with journald:
//
//	journalctl -t lichtwerk              # All lichtwerk logs
//	journalctl -t lichtwerk -f           # Follow live
//	journalctl -t lichtwerk --since "5m" # Last 5 minutes
//	journalctl -t lichtwerk -p err       # Errors only
//
// Filter by structured fields:
//
//	journalctl -t lichtwerk MODULE=render
//	journalctl -t lichtwerk DRIVER=spi
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only. [SetLevels] applies new
// levels to existing loggers at runtime, which the config watcher uses.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	render = "debug"
//	http = "warn"
//	mqtt = "error"
package logging
