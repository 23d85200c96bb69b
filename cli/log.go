package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplfn/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// that the format applies to errors reported while parsing continues.
type logFormat log.Format

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	if err := (*log.Format)(f).UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithFormat(log.Format(*f)))

	return nil
}

func (f logFormat) String() string { return log.Format(f).String() }

// logLevel configures the logger level as a side effect of parsing.
type logLevel log.Level

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	if err := (*log.Level)(l).UnmarshalText(text); err != nil {
		return err
	}

	log.Config(log.WithLevel(log.Level(*l)))

	return nil
}

func (l logLevel) String() string { return log.Level(l).String() }

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevels}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"json"    enum:"${logFormats}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                      help:"Set timestamp format."`
	Caller     bool      `default:"false"                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies every parsed logger option to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.Level(f.Level)),
		log.WithFormat(log.Format(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", f.Level.String()),
		slog.String("format", f.Format.String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan makes an early pass over args and applies the logger flags it finds
// before kong parses anything. Invalid values are left for kong to report.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		flag, negated := strings.CutPrefix(args[i], "--no-log-")
		if !negated {
			var ok bool
			if flag, ok = strings.CutPrefix(args[i], "--log-"); !ok {
				continue
			}
		}

		name, val, assigned := strings.Cut(flag, "=")

		// Value flags may take their value from the next argument.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return val
		}

		// Boolean flags only take a value after "=".
		boolean := func() (bool, bool) {
			if !assigned {
				return !negated, true
			}

			b, err := strconv.ParseBool(val)

			return b != negated, err == nil
		}

		switch {
		case name == "level" && !negated:
			_ = f.Level.UnmarshalText([]byte(next()))

		case name == "format" && !negated:
			_ = f.Format.UnmarshalText([]byte(next()))

		case name == "pretty":
			if b, ok := boolean(); ok {
				f.Pretty = b
				log.Config(log.WithPretty(b))
			}

		case name == "caller":
			if b, ok := boolean(); ok {
				f.Caller = b
				log.Config(log.WithCaller(b))
			}
		}
	}
}
