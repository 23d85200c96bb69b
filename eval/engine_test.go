package eval

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/ardnew/tmplfn/builtin"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/pkg"
	"github.com/ardnew/tmplfn/value"
)

const document = `{
  "price": 21,
  "Name": "Ada",
  "tags": ["x", "y"],
  "items": [
    {"id": 1, "name": "a", "price": 2},
    {"id": 2, "name": "b", "price": 5}
  ]
}`

func decode(t testing.TB, src string) value.Value {
	t.Helper()

	v, err := value.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	return v
}

func newEngine(opts ...Option) *Engine {
	base := []Option{
		WithLogger(log.Make(nil)),
		WithHost(builtin.NewStaticHost("https://example.com/p/7?q=x#top")),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}

	return New(append(base, opts...)...)
}

func TestEval(t *testing.T) {
	e := newEngine(WithGlobals(map[string]any{"site": "tmplfn"}))

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"builtin", "sum(1, 2, 3)", "6"},
		{"builtin_case", "SUM(1, 2)", "3"},
		{"predicate_name", "count(tags)", "2"},
		{"math", "max(3, 9, 4)", "9"},
		{"math_constant", "PI > 3", "true"},
		{"top_level", "price * 2", "42"},
		{"top_level_case", "PRICE + 1", "22"},
		{"reserved", "data.Name", "Ada"},
		{"member_case", "data.name", "Ada"},
		{"string_fn", "uppercase(name)", "ADA"},
		{"length", "tags.length", "2"},
		{"len", "len(name)", "3"},
		{"index", "items[1].name", "b"},
		{"mapped", "items.name", "a,b"},
		{"mapped_sum", "sum(items.price)", "7"},
		{"in", `"x" in tags`, "true"},
		{"and", "price > 20 && name", "true"},
		{"not", "!count(tags)", ""},
		{"ternary", "price > 100 ? 'big' : 'small'", "small"},
		{"iff", "iff(price > 20, 'yes', 'no')", "yes"},
		{"expr_filter", "filter(items, .price > 3)[0].name", "b"},
		{"expr_map", "map(items, .id)", "1,2"},
		{"let", "let x = price; x + 1", "22"},
		{"unknown", "nowhere", "nowhere"},
		{"unknown_call", "nowhere(1)", ""},
		{"hash", "$hash", "top"},
		{"url", "url('q')", "x"},
		{"digits", "digits(4, 42)", "0042"},
		{"global", "uppercase(site)", "TMPLFN"},
		{"blank", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(context.Background(), tt.src, decode(t, document))
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.src, err)
			}

			if s := value.Text(got); s != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.src, s, tt.want)
			}
		})
	}
}

func TestEvalShadowedName(t *testing.T) {
	e := newEngine()
	data := decode(t, `{"sum": 7, "Max": [1, 2], "total": 3}`)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"call", "sum(1, 2)", "3"},
		{"call_case", "SUM(4, 5)", "9"},
		{"read", "sum", "7"},
		{"arithmetic", "sum + 1", "8"},
		{"math_call", "max(3, 8)", "8"},
		{"math_read", "max", "1,2"},
		{"not_callable", "total(1)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(context.Background(), tt.src, data)
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.src, err)
			}

			if s := value.Text(got); s != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.src, s, tt.want)
			}
		})
	}
}

func TestEvalAction(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	data := decode(t, document)

	if _, err := e.Eval(ctx, "set(data, 'price', 5)", data); err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	if got, _ := e.Eval(ctx, "price", data); value.Text(got) != "21" {
		t.Fatalf("set outside an action changed price to %q", value.Text(got))
	}

	if _, err := e.EvalAction(ctx, "set(data, 'price', 5)", data); err != nil {
		t.Fatalf("EvalAction() error = %v", err)
	}

	if got, _ := e.Eval(ctx, "price", data); value.Text(got) != "5" {
		t.Errorf("price = %q, want %q", value.Text(got), "5")
	}

	scoped := newEngine(WithActionScope(true))

	if _, err := scoped.Eval(ctx, "add(tags, 'z')", data); err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	if got, _ := e.Eval(ctx, "tags", data); value.Text(got) != "x,y,z" {
		t.Errorf("tags = %q, want %q", value.Text(got), "x,y,z")
	}
}

func TestEvalErrors(t *testing.T) {
	e := newEngine()
	data := decode(t, document)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		ctx  context.Context
		want error
		name string
		src  string
	}{
		{context.Background(), pkg.ErrCompile, "syntax", "1 +"},
		{context.Background(), pkg.ErrEvaluate, "runtime", "price / name"},
		{canceled, pkg.ErrEvaluate, "canceled", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Eval(tt.ctx, tt.src, data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Eval(%q) error = %v, want %v", tt.src, err, tt.want)
			}

			var perr *pkg.Error
			if !errors.As(err, &perr) {
				t.Fatalf("Eval(%q) error is %T, want *pkg.Error", tt.src, err)
			}
		})
	}
}

func TestCompileCache(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	a, err := e.Compile(ctx, "sum(1, 2)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	b, err := e.Compile(ctx, "sum(1, 2)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if a != b {
		t.Error("Compile() did not reuse the cached program")
	}

	_, err1 := e.Compile(ctx, "(")
	_, err2 := e.Compile(ctx, "(")

	if err1 == nil || err1 != err2 {
		t.Errorf("Compile() errors = %v, %v, want the same cached error", err1, err2)
	}
}

func TestEvalConcurrent(t *testing.T) {
	e := newEngine()
	data := decode(t, document)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			src := fmt.Sprintf("sum(items.price) + %d", i%4)

			got, err := e.Eval(context.Background(), src, data)
			if err != nil {
				t.Errorf("Eval(%q) error = %v", src, err)

				return
			}

			if want := value.FormatNumber(float64(7 + i%4)); value.Text(got) != want {
				t.Errorf("Eval(%q) = %q, want %q", src, value.Text(got), want)
			}
		})
	}

	wg.Wait()
}

func TestNames(t *testing.T) {
	names := newEngine(WithGlobals(map[string]any{"SUM": 1, "site": 2})).Names()

	seen := map[string]int{}
	for _, n := range names {
		seen[n]++
	}

	for _, want := range []string{"sum", "set", "PI", "$hash", "site"} {
		if seen[want] != 1 {
			t.Errorf("Names() lists %q %d times, want once", want, seen[want])
		}
	}

	if seen["SUM"] != 0 {
		t.Error("Names() lists a global that folds onto a built-in")
	}
}

func BenchmarkEval(b *testing.B) {
	e := newEngine()
	data := decode(b, document)
	ctx := context.Background()

	for b.Loop() {
		if _, err := e.Eval(ctx, "sum(items.price) * price", data); err != nil {
			b.Fatal(err)
		}
	}
}
