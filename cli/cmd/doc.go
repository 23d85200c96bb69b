// Package cmd implements the tmplfn subcommands. Each command loads the data
// documents named on the command line, merges them, and works against the
// result with the expression engine stored in its context.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
