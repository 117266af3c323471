package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		obs := New(&bytes.Buffer{}, format, true)
		if obs == nil || obs.log == nil {
			t.Fatalf("format %q: expected logger", format)
		}
	}
	if d := Discard(); d == nil || d.Log() == nil {
		t.Fatal("expected non-nil discard observer")
	}
}

func TestJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, "json", true)

	obs.Log().Info().Str("session", "sess-123").Int("turn", 2).Msg("turn complete")
	obs.Log().Warn().Msg("slow translation")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("line is not JSON: %q", line)
		}
	}
	if !strings.Contains(lines[0], "turn complete") || !strings.Contains(lines[0], "sess-123") {
		t.Errorf("missing message or field: %q", lines[0])
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, "console", true)

	obs.Log().Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got %q", output)
	}
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("console output should not be JSON, got %q", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	testCases := []struct {
		name     string
		verbose  bool
		wantInfo bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			obs := New(buf, "json", tc.verbose)

			obs.Log().Info().Msg("info line")
			obs.Log().Warn().Msg("warn line")

			output := buf.String()
			if got := strings.Contains(output, "info line"); got != tc.wantInfo {
				t.Errorf("info logged = %v, want %v: %q", got, tc.wantInfo, output)
			}
			if !strings.Contains(output, "warn line") {
				t.Errorf("warnings must always be logged, got %q", output)
			}
		})
	}
}

func TestObserver_StartSpan(t *testing.T) {
	obs := Discard()

	spanCtx, span := obs.StartSpan(context.Background(), "test-span")
	if spanCtx == nil {
		t.Fatal("expected non-nil context from StartSpan")
	}
	if span == nil {
		t.Fatal("expected non-nil span from StartSpan")
	}
	span.End()
}
