package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithLogger(context.Background(), l)

	retrieved := FromContext(ctx)
	if retrieved == nil {
		t.Fatal("FromContext returned nil")
	}

	retrieved.Info("test message")
	if buf.Len() == 0 {
		t.Error("Logger from context should produce output")
	}
}

func TestFromContext_Default(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Error("FromContext should return default logger, got nil")
	}
}

func TestWithOpID(t *testing.T) {
	ctx := WithOpID(context.Background(), "01J9Z8Y7X6W5V4T3S2R1Q0P9N8")

	if got := OpIDFromContext(ctx); got != "01J9Z8Y7X6W5V4T3S2R1Q0P9N8" {
		t.Errorf("OpIDFromContext() = %q", got)
	}
	if got := OpIDFromContext(context.Background()); got != "" {
		t.Errorf("OpIDFromContext() = %q, want empty string", got)
	}
}

func TestL(t *testing.T) {
	tests := []struct {
		name   string
		opID   string
		wantID bool
	}{
		{name: "with op id", opID: "op-1", wantID: true},
		{name: "without op id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Config{Level: "info", Format: "json", Output: &buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			ctx := WithLogger(context.Background(), l)
			if tt.opID != "" {
				ctx = WithOpID(ctx, tt.opID)
			}
			L(ctx).Info("test message")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}
			got, ok := entry["op_id"]
			if ok != tt.wantID {
				t.Fatalf("op_id present = %v, want %v", ok, tt.wantID)
			}
			if tt.wantID && got != tt.opID {
				t.Errorf("op_id = %v, want %q", got, tt.opID)
			}
		})
	}
}
