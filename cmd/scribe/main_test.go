package main

import (
	"strings"
	"testing"
)

func TestParseExtras(t *testing.T) {
	extras, err := parseExtras([]string{"x=hello", "count=2", "note=a=b"})
	if err != nil {
		t.Fatalf("parseExtras: %v", err)
	}
	if extras["x"] != "hello" {
		t.Errorf("x = %v", extras["x"])
	}
	if extras["count"] != "2" {
		t.Errorf("count = %v", extras["count"])
	}
	// Only the first '=' splits.
	if extras["note"] != "a=b" {
		t.Errorf("note = %v", extras["note"])
	}
}

func TestParseExtrasRejectsMalformedPairs(t *testing.T) {
	for _, pair := range []string{"nokey", "=value", "  =value"} {
		if _, err := parseExtras([]string{pair}); err == nil {
			t.Errorf("pair %q accepted", pair)
		}
	}
}

func TestParseExtrasEmpty(t *testing.T) {
	extras, err := parseExtras(nil)
	if err != nil {
		t.Fatalf("parseExtras(nil): %v", err)
	}
	if extras != nil {
		t.Errorf("expected nil fields, got %v", extras)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Time", "Level", "Message"},
		[][]string{
			{"2026-08-23 10:00:00", "INFO", "hello"},
			{"2026-08-23 10:00:01", "ERROR"},
		},
	)
	for _, want := range []string{"Time", "Level", "Message", "hello", "ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// The second row is short one cell and must still render.
	if lines := strings.Count(out, "\n"); lines < 4 {
		t.Errorf("expected bordered table with both rows:\n%s", out)
	}
}

func TestRenderTableNoColumns(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestRenderExtras(t *testing.T) {
	if got := renderExtras(nil); got != "" {
		t.Errorf("nil extras rendered as %q", got)
	}
	got := renderExtras(map[string]any{"x": "hello"})
	if got != `{"x":"hello"}` {
		t.Errorf("extras rendered as %q", got)
	}
}
