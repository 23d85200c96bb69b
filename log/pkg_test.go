package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_UsesDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithPretty(false)))
	Config(WithLevel(LevelTrace))

	ctx := context.Background()

	tests := []struct {
		fn    func()
		level string
	}{
		{func() { Trace("m", slog.String("key", "value")) }, "TRACE"},
		{func() { TraceContext(ctx, "m", slog.String("key", "value")) }, "TRACE"},
		{func() { Debug("m", slog.String("key", "value")) }, "DEBUG"},
		{func() { DebugContext(ctx, "m", slog.String("key", "value")) }, "DEBUG"},
		{func() { Info("m", slog.String("key", "value")) }, "INFO"},
		{func() { InfoContext(ctx, "m", slog.String("key", "value")) }, "INFO"},
		{func() { Warn("m", slog.String("key", "value")) }, "WARN"},
		{func() { WarnContext(ctx, "m", slog.String("key", "value")) }, "WARN"},
		{func() { Error("m", slog.String("key", "value")) }, "ERROR"},
		{func() { ErrorContext(ctx, "m", slog.String("key", "value")) }, "ERROR"},
		{func() { With(slog.String("key", "value")).Info("m") }, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn()

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) || !strings.Contains(out, `"key":"value"`) {
				t.Errorf("output = %s", out)
			}
		})
	}
}
