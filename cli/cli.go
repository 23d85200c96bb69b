package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplfn/cli/cmd"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/pkg"
)

// CLI is the top-level command-line interface for tmplfn.
type CLI struct {
	Log    logConfig    `embed:"" group:"log"    prefix:"log-"`
	Pprof  pprofConfig  `embed:"" group:"pprof"  prefix:"pprof-"`
	Engine engineConfig `embed:"" group:"engine"`

	Data    []string `help:"Data document(s), JSON or YAML, or '-' for stdin" name:"data"    placeholder:"FILE" short:"d"`
	Include []string `help:"Directories searched for relative data files"     name:"include" placeholder:"DIR"  short:"I" type:"path"`

	Init  cmd.Init  `cmd:"" help:"Initialize configuration file"`
	Get   cmd.Get   `cmd:"" help:"Resolve a property path in the data document"`
	Funcs cmd.Funcs `cmd:"" help:"List callable names"`
	Repl  cmd.Repl  `cmd:"" help:"Start an interactive session"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate expressions"`
}

// Run executes the tmplfn CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that they take effect
	// regardless of their position, including boolean flags that never reach
	// an UnmarshalText method.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Engine.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(load, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// TimeLayout and Caller are only known once parsing completes.
	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEngine(ctx, cli.Engine.build(ctx, log.Default()))
	ctx = cmd.WithDataFiles(ctx, cli.Data, searchPath(cli.Include))

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
