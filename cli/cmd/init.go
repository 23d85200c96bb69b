package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/pkg"
	"github.com/ardnew/tmplfn/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return pkg.ErrWriteConfig.Wrap(errors.New("no command context"))
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return pkg.ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(pkg.ErrFileExists)
	}

	b, err := yaml.MarshalContext(ctx, i.config(ktx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return pkg.ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, b, fs.FileMode(0o600)); err != nil {
		return pkg.ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// config returns the current flag values in declaration order. Unset and
// hidden flags are omitted, as are help and profiling flags.
func (i *Init) config(ktx *kong.Context) yaml.MapSlice {
	var items yaml.MapSlice

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := configValue(ktx.FlagValue(flag)); ok {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return items
}

// configValue reports the YAML form of a flag value, or false when the flag
// has nothing worth writing.
func configValue(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case map[string]string:
		if len(v) == 0 {
			return nil, false
		}

		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		m := make(yaml.MapSlice, len(keys))
		for n, k := range keys {
			m[n] = yaml.MapItem{Key: k, Value: v[k]}
		}

		return m, true

	case interface{ String() string }:
		return v.String(), true

	default:
		return v, true
	}
}
