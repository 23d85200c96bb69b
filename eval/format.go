package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmplfn/pkg"
	"github.com/ardnew/tmplfn/value"
)

// Output selects how results are written.
type Output int

//go:generate go tool stringer --linecomment --type Output --output output_string.go

const (
	// OutputNative writes the string form of a result, as it would be
	// interpolated into a template.
	OutputNative Output = iota // native
	// OutputJSON writes JSON, preserving key order.
	OutputJSON // json
	// OutputYAML writes YAML, preserving key order.
	OutputYAML // yaml

	outputCount int = iota
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Output) UnmarshalText(text []byte) error {
	for i := range outputCount {
		if strings.EqualFold(Output(i).String(), string(text)) {
			*o = Output(i)

			return nil
		}
	}

	return pkg.ErrInvalidFormat.With(slog.String("output", string(text)))
}

// Outputs returns the names of all outputs.
func Outputs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := range outputCount {
			if !yield(Output(i).String()) {
				return
			}
		}
	}
}

// Write writes v to w in the given output followed by a newline. A positive
// indent spreads JSON and YAML containers over several lines; zero keeps
// them on one.
func Write(ctx context.Context, w io.Writer, v value.Value, out Output, indent int) error {
	var (
		b   []byte
		err error
	)

	switch out {
	case OutputNative:
		b = []byte(value.Text(v))

	case OutputJSON:
		b, err = formatJSON(v, indent)

	case OutputYAML:
		b, err = formatYAML(ctx, v, indent)

	default:
		return pkg.ErrInvalidFormat.With(slog.String("output", out.String()))
	}

	if err != nil {
		return pkg.ErrMarshal.Wrap(err).With(slog.String("output", out.String()))
	}

	b = append(bytes.TrimRight(b, "\n"), '\n')

	_, err = w.Write(b)

	return err
}

func formatJSON(v value.Value, indent int) ([]byte, error) {
	src := []byte(value.JSON(v))
	if indent <= 0 {
		return src, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, src, "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func formatYAML(ctx context.Context, v value.Value, indent int) ([]byte, error) {
	doc := toYAML(value.Native(v))

	if indent <= 0 {
		return yaml.MarshalContext(ctx, doc, yaml.Flow(true))
	}

	return yaml.MarshalContext(ctx, doc, yaml.Indent(indent))
}

// toYAML converts the ordered entries of [value.Native] into map slices.
func toYAML(x any) any {
	switch t := x.(type) {
	case []value.Entry:
		m := make(yaml.MapSlice, len(t))
		for i, e := range t {
			m[i] = yaml.MapItem{Key: e.Key, Value: toYAML(e.Value)}
		}

		return m

	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toYAML(e)
		}

		return out

	default:
		return t
	}
}
