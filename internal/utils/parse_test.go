package utils

import "testing"

type envelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// TestUnmarshalLenient_StrictJSON verifies that valid JSON decodes without repair.
func TestUnmarshalLenient_StrictJSON(t *testing.T) {
	var target envelope
	if err := UnmarshalLenient([]byte(`{"error":{"message":"bad request"}}`), &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Error.Message != "bad request" {
		t.Errorf("expected message %q, got %q", "bad request", target.Error.Message)
	}
}

// TestUnmarshalLenient_RepairsSingleQuotes verifies that a JSON-ish payload
// with single quotes and a trailing comma is repaired and decoded.
func TestUnmarshalLenient_RepairsSingleQuotes(t *testing.T) {
	var target envelope
	if err := UnmarshalLenient([]byte(`{'error': {'message': 'rate limited',},}`), &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Error.Message != "rate limited" {
		t.Errorf("expected message %q, got %q", "rate limited", target.Error.Message)
	}
}

// TestUnmarshalLenient_TypeMismatch verifies that a repaired payload that still
// does not fit the target type returns an error.
func TestUnmarshalLenient_TypeMismatch(t *testing.T) {
	var target []int
	if err := UnmarshalLenient([]byte(`{"a": 1}`), &target); err == nil {
		t.Fatal("expected error decoding an object into a slice")
	}
}
