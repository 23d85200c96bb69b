package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmplfn/pkg"
)

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: pkg.ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Data   []string          `short:"d"`
				Global map[string]string `short:"g"`
				Href   string
				Trace  bool
				Hidden string `hidden:""`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{
				"-d", "a.yaml", "-d", "b.json", "-g", "site=tmplfn", "--trace", "--hidden=x",
			})
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(context.Background(), ktx))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, pkg.ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			for _, key := range []string{"data", "global", "trace"} {
				if _, ok := got[key]; !ok {
					t.Errorf("generated config %q has no %q", content, key)
				}
			}

			for _, key := range []string{"href", "hidden", "help"} {
				if _, ok := got[key]; ok {
					t.Errorf("generated config %q has %q", content, key)
				}
			}

			if !strings.Contains(string(content), "site: tmplfn") {
				t.Errorf("generated config %q does not contain the global", content)
			}
		})
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		in   any
		name string
		ok   bool
	}{
		{nil, "nil", false},
		{"", "empty_string", false},
		{"x", "string", true},
		{[]string{}, "empty_slice", false},
		{[]string{"a"}, "slice", true},
		{map[string]string{}, "empty_map", false},
		{map[string]string{"b": "2", "a": "1"}, "map", true},
		{true, "bool", true},
		{3, "int", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := configValue(tt.in); ok != tt.ok {
				t.Errorf("configValue(%v) ok = %t, want %t", tt.in, ok, tt.ok)
			}
		})
	}

	v, _ := configValue(map[string]string{"b": "2", "a": "1"})
	if m, ok := v.(yaml.MapSlice); !ok || m[0].Key != "a" {
		t.Errorf("configValue(map) = %v, want a sorted yaml.MapSlice", v)
	}
}
