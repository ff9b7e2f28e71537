package utils

import (
	"errors"
	"strings"
	"testing"
)

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("close failed")
}

// TestReadLimited_ReadsWholeBody verifies a small body is returned untouched.
func TestReadLimited_ReadsWholeBody(t *testing.T) {
	data, err := ReadLimited(strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("expected body to be returned as-is, got %q", string(data))
	}
}

// TestCloseWithLog_ErrorPath verifies that a failing Close is swallowed.
func TestCloseWithLog_ErrorPath(t *testing.T) {
	closer := &failingCloser{}
	CloseWithLog(closer)
	if !closer.closed {
		t.Error("expected Close to be called")
	}

	// nil closers are ignored
	CloseWithLog(nil)
}

// TestIsSuccessStatus checks the 2xx boundaries.
func TestIsSuccessStatus(t *testing.T) {
	cases := map[int]bool{199: false, 200: true, 204: true, 299: true, 300: false, 400: false, 500: false}
	for code, want := range cases {
		if got := IsSuccessStatus(code); got != want {
			t.Errorf("IsSuccessStatus(%d) = %v, want %v", code, got, want)
		}
	}
}
