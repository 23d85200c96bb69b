// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is an immutable value made by [Make] from an output and a list
// of functional options. Every logging method takes typed [slog.Attr]
// values only:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//
//	logger.Debug("resolved", slog.String("name", "sum"))
//
// Loggers derived with [Logger.With], [Logger.WithGroup] and [Logger.Wrap]
// leave the original untouched.
//
// # Levels
//
// In addition to the four levels of [log/slog], [LevelTrace] sits below
// [LevelDebug]. Levels are written in records and parsed from flags by name.
//
// # Formats
//
// Records are encoded as JSON ([FormatJSON]) or as key=value text
// ([FormatText]). With [WithPretty], the default, text stays on one line and
// JSON is indented, both colored when the output is a terminal.
//
// # Package-level logging
//
// The functions [Trace], [Debug], [Info], [Warn] and [Error], and their
// Context variants, log through a process-wide default logger that can be
// reconfigured with [Config] or replaced with [SetDefault]. Functions that do
// not take a context use [DefaultContextProvider].
package log
