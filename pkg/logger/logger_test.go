package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &Logger{Logger: zap.New(core)}

	log.WithRequest("corr-123", "T1").Info("turn failed")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["correlation_id"] != "corr-123" {
		t.Errorf("correlation_id = %v, want corr-123", fields["correlation_id"])
	}
	if fields["tenant_id"] != "T1" {
		t.Errorf("tenant_id = %v, want T1", fields["tenant_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"WARN", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"unknown", "info"},
		{"", "info"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
