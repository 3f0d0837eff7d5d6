package log_test

import (
	"context"
	"testing"

	"time-tracking-bot/pkg/log"
)

func TestTraceID(t *testing.T) {
	t.Run("Explicit id", func(t *testing.T) {
		ctx := log.WithTraceID(context.Background(), "update-42")
		if got := log.TraceID(ctx); got != "update-42" {
			t.Errorf("TraceID() = %q, want %q", got, "update-42")
		}
	})

	t.Run("Generated id", func(t *testing.T) {
		ctx := log.WithTraceID(context.Background(), "")
		if got := log.TraceID(ctx); len(got) != 36 {
			t.Errorf("expected generated uuid, got %q", got)
		}
	})

	t.Run("Missing id", func(t *testing.T) {
		if got := log.TraceID(context.Background()); got != "" {
			t.Errorf("expected empty trace id, got %q", got)
		}
	})
}

func TestInit(t *testing.T) {
	l := log.Init(log.ZapConfig{Level: "nonsense", Mode: log.ModeProduction, Encoding: log.EncodingJSON})
	if l == nil {
		t.Fatal("expected logger")
	}
	l.Infof(log.WithTraceID(context.Background(), ""), "logger %s", "ready")
	log.NewNop().Error(context.Background(), "discarded")
}
