// Package slogobs provides an observability.Provider backed by log/slog.
// Spans and metric updates become DEBUG records, log calls map to slog levels
// with an extra TRACE level below DEBUG. Output is text or JSON; format and
// level default to DEEPCHAT_LOG_FORMAT and DEEPCHAT_LOG_LEVEL.
package slogobs
