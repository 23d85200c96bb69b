package eval

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/tmplfn/pkg"
)

func TestWrite(t *testing.T) {
	v := decode(t, `{"b": "x", "a": ["y", "z"]}`)

	tests := []struct {
		name   string
		out    Output
		indent int
		want   []string
	}{
		{"native", OutputNative, 0, []string{"[object Object]\n"}},
		{"json", OutputJSON, 0, []string{`{"b":"x","a":["y","z"]}` + "\n"}},
		{"json_indent", OutputJSON, 2, []string{"{\n  \"b\": \"x\",\n  \"a\": [\n    \"y\",\n    \"z\"\n  ]\n}\n"}},
		{"yaml", OutputYAML, 2, []string{"b: x\n", "- y\n", "- z\n"}},
		{"yaml_flow", OutputYAML, 0, []string{"{", "b: x", "[y, z]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := Write(context.Background(), &buf, v, tt.out, tt.indent); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			got := buf.String()

			if len(tt.want) == 1 && got != tt.want[0] {
				t.Errorf("Write() = %q, want %q", got, tt.want[0])
			}

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Write() = %q, want it to contain %q", got, w)
				}
			}

			if tt.out == OutputYAML && strings.Index(got, "b:") > strings.Index(got, "a:") {
				t.Errorf("Write() = %q, want key order preserved", got)
			}
		})
	}
}

func TestWriteInvalid(t *testing.T) {
	err := Write(context.Background(), &bytes.Buffer{}, decode(t, `1`), Output(9), 0)
	if !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("Write() error = %v, want %v", err, pkg.ErrInvalidFormat)
	}
}

func TestOutput(t *testing.T) {
	if got, want := slices.Collect(Outputs()), []string{"native", "json", "yaml"}; !slices.Equal(got, want) {
		t.Fatalf("Outputs() = %v, want %v", got, want)
	}

	for i, name := range slices.Collect(Outputs()) {
		var o Output

		if err := o.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", name, err)
		}

		if o != Output(i) || o.String() != name {
			t.Errorf("UnmarshalText(%q) = %v, want %s", name, o, name)
		}
	}

	var o Output
	if err := o.UnmarshalText([]byte("xml")); !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("UnmarshalText(xml) error = %v, want %v", err, pkg.ErrInvalidFormat)
	}

	if s := Output(7).String(); s != "Output(7)" {
		t.Errorf("String() = %q, want %q", s, "Output(7)")
	}
}
