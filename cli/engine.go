package cli

import (
	"context"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplfn/builtin"
	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/value"
)

type engineConfig struct {
	Global map[string]string `help:"Global value visible to expressions (decoded as YAML)" placeholder:"NAME=VALUE" short:"g"`
	Href   string            `help:"Page URL reported by url() and $hash"                  placeholder:"URL"`
	Seed   uint64            `help:"Seed for random() and shuffle() (0 picks one)"         default:"0"`
}

func (*engineConfig) group() kong.Group {
	var group kong.Group

	group.Key = "engine"
	group.Title = "Expression options"

	return group
}

// globals decodes each global value so that numbers, booleans and
// collections keep their kind. A value that does not decode is a string.
func (c *engineConfig) globals() map[string]any {
	out := make(map[string]any, len(c.Global))

	for name, raw := range c.Global {
		v, err := value.Decode([]byte(raw))
		if err != nil || v.IsNullish() {
			v = value.String(raw)
		}

		out[name] = v
	}

	return out
}

// build returns the engine shared by every command.
func (c *engineConfig) build(ctx context.Context, logger log.Logger) *eval.Engine {
	opts := []eval.Option{
		eval.WithLogger(logger),
		eval.WithHost(builtin.NewStaticHost(c.Href)),
		eval.WithGlobals(c.globals()),
	}

	if c.Seed != 0 {
		opts = append(opts, eval.WithRand(rand.New(rand.NewPCG(c.Seed, c.Seed))))
	}

	logger.DebugContext(ctx, "engine configured",
		slog.Any("globals", slices.Sorted(maps.Keys(c.Global))),
		slog.String("href", c.Href),
		slog.Uint64("seed", c.Seed),
	)

	return eval.New(opts...)
}
