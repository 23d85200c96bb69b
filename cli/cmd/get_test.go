package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/pkg"
)

func TestGetRun(t *testing.T) {
	tests := []struct {
		name string
		cmd  Get
		want []string
	}{
		{"key", Get{Path: "title"}, []string{"Groceries\n"}},
		{"case", Get{Path: "ITEMS.1.Name"}, []string{"pear\n"}},
		{"mapped", Get{Path: "items.price", Output: eval.OutputJSON}, []string{"[2,5]\n"}},
		{"query", Get{Path: "items.id=2.name"}, []string{"pear\n"}},
		{"root", Get{Output: eval.OutputJSON}, []string{`{"title":"Groceries"`}},
		{"meta", Get{Path: "items.1", Meta: true}, []string{"property: \"1\"\n", "writable: true\n"}},
		{"meta_mapped", Get{Path: "items.name", Meta: true}, []string{"writable: false\n"}},
		{"meta_query", Get{Path: "items.id=2", Meta: true}, []string{"query: id=2\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, writeFile(t, t.TempDir(), "doc.json", document))

			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Get.Run() error = %v", err)
			}

			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("Get.Run() output = %q, want it to contain %q", out.String(), w)
				}
			}
		})
	}
}

func TestGetRunNoData(t *testing.T) {
	for name, files := range map[string][]string{
		"none":    nil,
		"missing": {filepath.Join(t.TempDir(), "absent.json")},
	} {
		t.Run(name, func(t *testing.T) {
			ctx, _ := testContext(t, files...)

			if err := (&Get{Path: "title"}).Run(ctx); !errors.Is(err, pkg.ErrNoData) {
				t.Errorf("Get.Run() error = %v, want %v", err, pkg.ErrNoData)
			}
		})
	}
}
