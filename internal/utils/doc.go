// Package utils provides shared low-level helpers used throughout the deepchat
// internals: bounded response-body reads, close-and-log for HTTP bodies,
// lenient JSON decoding backed by jsonrepair, and small generic pointer and
// string utilities.
//
// Key entry points: [ReadLimited] and [CloseWithLog] for response bodies,
// [UnmarshalLenient] for JSON that may come back from the upstream slightly
// malformed, [Ptr] for optional request fields, and [TruncateString] for log
// previews.
package utils
