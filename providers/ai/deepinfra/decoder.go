package deepinfra

import (
	"encoding/json"
	"strings"
)

// doneSentinel ends a stream. It is checked before any JSON parsing.
const doneSentinel = "[DONE]"

// RecordKind classifies one decoded stream line.
type RecordKind int

const (
	// RecordNoop is a line that carries nothing to emit: not JSON, no
	// choices, or an empty delta.
	RecordNoop RecordKind = iota
	// RecordDelta carries a non-empty content fragment.
	RecordDelta
	// RecordDone is the end-of-stream sentinel.
	RecordDone
)

func (k RecordKind) String() string {
	switch k {
	case RecordDelta:
		return "delta"
	case RecordDone:
		return "done"
	default:
		return "noop"
	}
}

// Record is the result of decoding one line. Line is the cleaned text the
// record was built from.
type Record struct {
	Kind    RecordKind
	Content string
	Line    string
}

// DecodeChunk decodes one raw transport chunk into records, in line order.
//
// Each line has its "data:" prefix and one following space removed and is
// then trimmed. Blank lines produce nothing. The [DONE] sentinel yields a
// RecordDone and ends decoding, so bytes after it in the same chunk are never
// looked at. Lines that are not JSON, lack choices[0], or have an empty
// choices[0].delta.content become RecordNoop.
//
// DecodeChunk keeps no state between calls.
func DecodeChunk(chunk []byte) []Record {
	var records []Record

	for _, rawLine := range strings.Split(string(chunk), "\n") {
		if rawLine == "" {
			continue
		}

		line := cleanLine(rawLine)
		if line == "" {
			continue
		}

		if line == doneSentinel {
			return append(records, Record{Kind: RecordDone, Line: line})
		}

		records = append(records, decodeLine(line))
	}

	return records
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	if rest, found := strings.CutPrefix(line, "data:"); found {
		line = strings.TrimPrefix(rest, " ")
	}
	return strings.TrimSpace(line)
}

func decodeLine(line string) Record {
	noop := Record{Kind: RecordNoop, Line: line}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(line), &chunk); err != nil {
		return noop
	}
	if len(chunk.Choices) == 0 {
		return noop
	}

	content := chunk.Choices[0].Delta.Content
	if content == "" {
		return noop
	}
	return Record{Kind: RecordDelta, Content: content, Line: line}
}
