package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"persona-bot/internal/analytics"
	"persona-bot/internal/observe"
)

func TestStartRegistersReport(t *testing.T) {
	s := New("0 21 * * *", observe.Discard())
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if len(s.cron.Entries()) != 1 {
		t.Fatalf("report should be scheduled")
	}
}

func TestStartDisabled(t *testing.T) {
	s := New("", observe.Discard())
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(s.cron.Entries()) != 0 {
		t.Fatalf("empty schedule should leave scheduler idle")
	}

	s = New("0 21 * * *", observe.Discard())
	if err := s.Start(); err != nil || len(s.cron.Entries()) != 0 {
		t.Fatalf("missing report function should leave scheduler idle")
	}
}

func TestStartInvalidSpec(t *testing.T) {
	s := New("every day", observe.Discard())
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err == nil {
		t.Fatalf("expected invalid spec error")
	}
}

func TestRunLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	s := New("@every 1h", observe.New(&buf, "json", true))
	s.SetReportFunction(func(context.Context) error { return errors.New("boom") })
	s.run()
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("failure not logged: %s", buf.String())
	}
}

func TestAnalyticsReport(t *testing.T) {
	var buf bytes.Buffer
	stats := analytics.NewAggregator()
	stats.RecordTurn("kvalita práce", time.Second)

	report := AnalyticsReport(stats, observe.New(&buf, "json", false))
	if err := report(context.Background()); err != nil {
		t.Fatalf("report: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "analytics report") || !strings.Contains(out, "kvalita") {
		t.Fatalf("report not logged: %s", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := report(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled report should fail, got %v", err)
	}
}
