// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the build tag named by [Tag]. Without
// it, [Modes] is empty and [Profiler.Start] returns a session whose Stop
// does nothing, so callers never need their own build constraints:
//
//	p := profile.New(profile.WithMode("cpu"), profile.WithPath(dir))
//	defer p.Start().Stop()
//
// Profiles are written to the configured directory and named after their
// mode, for example cpu.pprof. Analyze them with go tool pprof. Builds with
// the tag also register the handlers of [net/http/pprof].
package profile
