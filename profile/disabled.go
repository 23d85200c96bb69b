//go:build !pprof

package profile

// Modes returns nil in builds without profiling.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
