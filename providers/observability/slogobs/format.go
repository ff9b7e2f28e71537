package slogobs

import (
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatText is slog's key=value text output (default).
	FormatText Format = "text"
	// FormatJSON is one JSON object per line, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string; anything unknown maps to FormatText.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// GetFormatFromEnv reads DEEPCHAT_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	if format := os.Getenv("DEEPCHAT_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return ParseFormat(os.Getenv("LOG_FORMAT"))
}

func (f Format) String() string {
	return string(f)
}
