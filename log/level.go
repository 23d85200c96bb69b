package log

//go:generate go tool stringer --linecomment --type Format --output format_string.go

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levelNames = []struct {
	name  string
	level Level
}{
	{"trace", LevelTrace},
	{"debug", LevelDebug},
	{"info", LevelInfo},
	{"warn", LevelWarn},
	{"error", LevelError},
}

// String returns the lowercase name of l. Levels between the named ones are
// written relative to the nearest lower name, as in "info+2".
func (l Level) String() string {
	for i := len(levelNames) - 1; i >= 0; i-- {
		e := levelNames[i]

		if l == e.level {
			return e.name
		}

		if l > e.level {
			return fmt.Sprintf("%s+%d", e.name, int(l-e.level))
		}
	}

	return fmt.Sprintf("trace%d", int(l-LevelTrace))
}

// UnmarshalText implements [encoding.TextUnmarshaler] so that levels can be
// read from flags and configuration files.
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	if strings.EqualFold(s, "trace") {
		*l = LevelTrace

		return nil
	}

	var sl slog.Level
	if err := sl.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid log level %q", s)
	}

	*l = Level(sl)

	return nil
}

// ParseLevel parses a level name, optionally followed by a signed offset.
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	var l Level
	if l.UnmarshalText([]byte(s)) != nil {
		return DefaultLevel
	}

	return l
}

// Levels returns an iterator over the names of the defined levels, from
// most to least verbose.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range levelNames {
			if !yield(e.name) {
				return
			}
		}
	}
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json

	formatCount int = iota
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))

	for i := range formatCount {
		if s == Format(i).String() {
			*f = Format(i)

			return nil
		}
	}

	return fmt.Errorf("invalid log format %q", s)
}

// ParseFormat parses a format name. Unrecognized input yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	var f Format
	if f.UnmarshalText([]byte(s)) != nil {
		return DefaultFormat
	}

	return f
}

// Formats returns an iterator over the names of the defined formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := range formatCount {
			if !yield(Format(i).String()) {
				return
			}
		}
	}
}
