// Package cli contains the command line interface for tmplfn.
//
// # Usage
//
// Expressions are evaluated against a data document merged from every
// --data file, in order. Relative data paths are searched for in the
// working directory, then each --include directory, then each directory
// in TMPLFN_PATH.
//
//	tmplfn -d site.yaml 'upper(title)'
//	tmplfn -d site.yaml get items.0.label
//	tmplfn funcs date
//	tmplfn repl -d site.yaml
//
// # Configuration
//
// Flags may be given defaults in config.yaml under the user configuration
// directory. The init command writes the current flag values there:
//
//	tmplfn --log-level=debug -g site=tmplfn init
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tmplfn .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/tmplfn/pprof)
package cli
