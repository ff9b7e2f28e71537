package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is one step below slog.LevelDebug. Per-line stream diagnostics
// are logged here so they stay hidden unless explicitly enabled.
const LevelTrace = slog.LevelDebug - 4

// ParseLogLevel parses a level name case-insensitively. Supported values are
// TRACE, DEBUG, INFO, WARN, WARNING and ERROR; anything else yields INFO.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLogLevelFromEnv reads DEEPCHAT_LOG_LEVEL, then LOG_LEVEL. Default INFO.
func GetLogLevelFromEnv() slog.Level {
	level := os.Getenv("DEEPCHAT_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	return ParseLogLevel(level)
}

// replaceLevel renders LevelTrace as "TRACE" instead of slog's "DEBUG-4".
func replaceLevel(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level < slog.LevelDebug {
		return slog.String(slog.LevelKey, "TRACE")
	}
	return attr
}
