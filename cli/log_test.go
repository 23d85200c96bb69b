package cli

import (
	"testing"

	"github.com/ardnew/tmplfn/log"
)

func TestLogScan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	tests := []struct {
		name   string
		args   []string
		level  log.Level
		format log.Format
		pretty bool
		caller bool
	}{
		{"none", []string{"eval", "1"}, log.LevelInfo, log.FormatJSON, true, false},
		{"assigned", []string{"--log-level=debug", "--log-format=text"}, log.LevelDebug, log.FormatText, true, false},
		{"separate", []string{"--log-level", "warn", "x"}, log.LevelWarn, log.FormatJSON, true, false},
		{"negated", []string{"--no-log-pretty", "--log-caller"}, log.LevelInfo, log.FormatJSON, false, true},
		{"bool_value", []string{"--log-pretty=false", "--log-caller=1"}, log.LevelInfo, log.FormatJSON, false, true},
		{"invalid", []string{"--log-level=loud"}, log.LevelInfo, log.FormatJSON, true, false},
		{"missing_value", []string{"--log-level", "--log-caller"}, log.LevelInfo, log.FormatJSON, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{
				Level:  logLevel(log.LevelInfo),
				Format: logFormat(log.FormatJSON),
				Pretty: true,
			}

			f.scan(tt.args)

			if got := log.Level(f.Level); got != tt.level {
				t.Errorf("Level = %v, want %v", got, tt.level)
			}

			if got := log.Format(f.Format); got != tt.format {
				t.Errorf("Format = %v, want %v", got, tt.format)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("Pretty = %t, want %t", f.Pretty, tt.pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("Caller = %t, want %t", f.Caller, tt.caller)
			}
		})
	}
}

func TestLogLevelString(t *testing.T) {
	var l logLevel
	if err := l.UnmarshalText([]byte("TRACE")); err != nil {
		t.Fatal(err)
	}

	if s := l.String(); s != "trace" {
		t.Errorf("String() = %q, want trace", s)
	}
}
