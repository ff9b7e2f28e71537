package deepinfra

import (
	"strings"
	"testing"
)

func deltaLine(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n"
}

func kinds(records []Record) []RecordKind {
	result := make([]RecordKind, len(records))
	for i, record := range records {
		result[i] = record.Kind
	}
	return result
}

// TestDecodeChunk_SingleDelta verifies the basic data line.
func TestDecodeChunk_SingleDelta(t *testing.T) {
	records := DecodeChunk([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n"))

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Kind != RecordDelta || records[0].Content != "Hi" {
		t.Errorf("expected delta \"Hi\", got %+v", records[0])
	}
}

// TestDecodeChunk_Sentinel verifies that [DONE] yields only a done record.
func TestDecodeChunk_Sentinel(t *testing.T) {
	records := DecodeChunk([]byte("data: [DONE]\n"))

	if len(records) != 1 || records[0].Kind != RecordDone {
		t.Fatalf("expected a single done record, got %+v", records)
	}
}

// TestDecodeChunk_MultipleRecordsInOrder verifies that every line of a chunk
// is decoded in order.
func TestDecodeChunk_MultipleRecordsInOrder(t *testing.T) {
	records := DecodeChunk([]byte(deltaLine("A") + deltaLine("B")))

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Content != "A" || records[1].Content != "B" {
		t.Errorf("expected A then B, got %q then %q", records[0].Content, records[1].Content)
	}
}

// TestDecodeChunk_SentinelStopsChunk verifies that lines after [DONE] in the
// same chunk are never evaluated, while lines before it are.
func TestDecodeChunk_SentinelStopsChunk(t *testing.T) {
	chunk := deltaLine("before") + "data: [DONE]\n" + deltaLine("after") + "data: {not json\n"

	records := DecodeChunk([]byte(chunk))

	expected := []RecordKind{RecordDelta, RecordDone}
	got := kinds(records)
	if len(got) != len(expected) || got[0] != expected[0] || got[1] != expected[1] {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	if records[0].Content != "before" {
		t.Errorf("expected content before the sentinel, got %q", records[0].Content)
	}
}

// TestDecodeChunk_Noops verifies the lines that parse but carry nothing.
func TestDecodeChunk_Noops(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", "data: {broken"},
		{"keep-alive comment", ": ping"},
		{"no choices", `data: {"id":"x"}`},
		{"empty choices", `data: {"choices":[]}`},
		{"no delta", `data: {"choices":[{"index":0}]}`},
		{"null content", `data: {"choices":[{"delta":{"content":null}}]}`},
		{"empty content", `data: {"choices":[{"delta":{"content":""}}]}`},
		{"role only", `data: {"choices":[{"delta":{"role":"assistant"}}]}`},
		{"choices not an array", `data: {"choices":{"delta":{"content":"x"}}}`},
		{"json string", `data: "[DONE]"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := DecodeChunk([]byte(tt.line + "\n"))
			if len(records) != 1 || records[0].Kind != RecordNoop {
				t.Errorf("expected a single noop, got %+v", records)
			}
		})
	}
}

// TestDecodeChunk_LineCleaning verifies prefix stripping and trimming.
func TestDecodeChunk_LineCleaning(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{"no space after prefix", `data:{"choices":[{"delta":{"content":"x"}}]}` + "\n", "x"},
		{"carriage return", `data: {"choices":[{"delta":{"content":"x"}}]}` + "\r\n", "x"},
		{"surrounding spaces", `data:   {"choices":[{"delta":{"content":"x"}}]}  ` + "\n", "x"},
		{"bare json", `{"choices":[{"delta":{"content":"x"}}]}`, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := DecodeChunk([]byte(tt.chunk))
			if len(records) != 1 || records[0].Kind != RecordDelta || records[0].Content != tt.want {
				t.Errorf("expected delta %q, got %+v", tt.want, records)
			}
		})
	}
}

// TestDecodeChunk_SentinelWithoutPrefix verifies that a bare or padded
// sentinel still terminates.
func TestDecodeChunk_SentinelWithoutPrefix(t *testing.T) {
	for _, chunk := range []string{"[DONE]", "data:[DONE]\r\n", "  data: [DONE]  \n"} {
		records := DecodeChunk([]byte(chunk))
		if len(records) != 1 || records[0].Kind != RecordDone {
			t.Errorf("chunk %q: expected done, got %+v", chunk, records)
		}
	}
}

// TestDecodeChunk_BlankLines verifies that blank lines produce no records.
func TestDecodeChunk_BlankLines(t *testing.T) {
	records := DecodeChunk([]byte("\n\n   \n\r\n" + deltaLine("x") + "\n\n"))

	if len(records) != 1 || records[0].Content != "x" {
		t.Errorf("expected only the delta, got %+v", records)
	}
	if len(DecodeChunk(nil)) != 0 {
		t.Error("expected no records for an empty chunk")
	}
}

// TestDecodeChunk_SplitLineIsLost verifies that decoding is stateless: a line
// cut across two chunks is discarded on both sides.
func TestDecodeChunk_SplitLineIsLost(t *testing.T) {
	line := deltaLine("lost")
	cut := len(line) / 2

	first := DecodeChunk([]byte(line[:cut]))
	second := DecodeChunk([]byte(line[cut:]))

	for _, record := range append(first, second...) {
		if record.Kind == RecordDelta {
			t.Errorf("expected no delta from a split line, got %+v", record)
		}
	}
}

// TestDecodeChunk_Unicode verifies multi-byte content and escapes.
func TestDecodeChunk_Unicode(t *testing.T) {
	records := DecodeChunk([]byte(`data: {"choices":[{"delta":{"content":"ciao è 日本"}}]}` + "\n"))

	if len(records) != 1 || records[0].Content != "ciao è 日本" {
		t.Errorf("unexpected records %+v", records)
	}
}

// TestDecodeChunk_ConcatenationProperty verifies that joining the deltas of a
// mixed chunk sequence gives the expected text.
func TestDecodeChunk_ConcatenationProperty(t *testing.T) {
	chunks := []string{
		deltaLine("The") + ": ping\n" + deltaLine(" quick"),
		`data: {"choices":[]}` + "\n" + deltaLine(" brown"),
		"data: {garbage\n" + deltaLine(" fox"),
	}

	var builder strings.Builder
	for _, chunk := range chunks {
		for _, record := range DecodeChunk([]byte(chunk)) {
			if record.Kind == RecordDelta {
				builder.WriteString(record.Content)
			}
		}
	}

	if builder.String() != "The quick brown fox" {
		t.Errorf("unexpected concatenation %q", builder.String())
	}
}

func TestRecordKind_String(t *testing.T) {
	if RecordDelta.String() != "delta" || RecordDone.String() != "done" || RecordNoop.String() != "noop" {
		t.Error("unexpected record kind names")
	}
}
