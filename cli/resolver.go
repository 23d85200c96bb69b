package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmplfn/log"
)

// load is a [kong.ConfigurationLoader] that reads a YAML mapping of flag
// names to values, as written by the init command:
//
//	log-level: debug
//	data:
//	  - site.yaml
//	global:
//	  site: tmplfn
//
// Keys may use underscores in place of hyphens. Command-line flags override
// configuration values. An empty or malformed file yields no values.
func load(r io.Reader) (kong.Resolver, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		log.Warn("ignoring invalid configuration", slog.Any("error", err))

		return config{}, nil
	}

	cfg := make(config, len(raw))
	for k, v := range raw {
		cfg[k] = flagValue(v)
	}

	return cfg, nil
}

// config implements [kong.Resolver] over a decoded configuration file.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if v, ok := r[name]; ok {
			return v, nil
		}
	}

	return nil, nil
}

// flagValue converts a decoded YAML value into the form kong's mappers
// accept: numbers become strings, sequences become string slices, and
// mappings become key=value maps of strings.
func flagValue(v any) any {
	switch t := v.(type) {
	case nil, bool, string:
		return t

	case int:
		return strconv.Itoa(t)

	case int64:
		return strconv.FormatInt(t, 10)

	case uint64:
		return strconv.FormatUint(t, 10)

	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)

	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fmt.Sprint(flagValue(e))
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fmt.Sprint(flagValue(e))
		}

		return out

	default:
		return fmt.Sprint(t)
	}
}
