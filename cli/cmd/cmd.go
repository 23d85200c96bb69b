package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmplfn/eval"
	"github.com/ardnew/tmplfn/log"
	"github.com/ardnew/tmplfn/pkg"
	"github.com/ardnew/tmplfn/value"
)

type (
	contextKey   struct{}
	engineKey    struct{}
	dataFilesKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output of the running command.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// WithEngine returns a new context.Context carrying the expression engine
// used by every command.
func WithEngine(ctx context.Context, e *eval.Engine) context.Context {
	return context.WithValue(ctx, engineKey{}, e)
}

// engineFrom returns the engine stored by [WithEngine], or a default engine
// logging through the default logger.
func engineFrom(ctx context.Context) *eval.Engine {
	if e, ok := ctx.Value(engineKey{}).(*eval.Engine); ok && e != nil {
		return e
	}

	return eval.New(eval.WithLogger(log.Default()))
}

// dataFiles is the ordered, deduplicated list of data documents.
type dataFiles struct {
	stdin io.Reader
	paths []string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithDataFiles returns a new context.Context naming the data documents to
// load.
//
// Relative paths that do not exist in the working directory are searched
// for in each directory of search, in order. Files reached through several
// names are loaded once. Stdin, named by "-", is read last.
func WithDataFiles(ctx context.Context, sources, search []string) context.Context {
	return context.WithValue(ctx, dataFilesKey{}, buildDataFiles(sources, search))
}

func buildDataFiles(sources, search []string) *dataFiles {
	var files dataFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			files.stdin = os.Stdin

			continue
		}

		path, ok := locate(src, search)
		if !ok {
			log.Warn("data file not found", slog.String("file", src))

			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		key, ok := makeFileKey(info)
		if ok {
			if key == stdinKey {
				files.stdin = os.Stdin

				continue
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		files.paths = append(files.paths, path)
	}

	return &files
}

// locate resolves src against the working directory and then each search
// directory. The returned path has its symlinks resolved.
func locate(src string, search []string) (string, bool) {
	candidates := []string{src}

	if !filepath.IsAbs(src) {
		for _, dir := range search {
			candidates = append(candidates, filepath.Join(dir, src))
		}
	}

	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}

		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			continue
		}

		if info, err := os.Stat(resolved); err == nil && info.Mode().IsRegular() {
			return resolved, true
		}
	}

	return "", false
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// load decodes every document and merges them into one. Mapping documents
// are merged key by key, later documents winning and renaming keys that
// differ only in case. Any other document replaces what came before it.
// Without documents the result is an empty mapping.
func (f *dataFiles) load(ctx context.Context) (value.Value, error) {
	merged := value.MapOf(value.NewMap())

	if f == nil {
		return merged, nil
	}

	add := func(name string, r io.Reader) error {
		b, err := io.ReadAll(r)
		if err != nil {
			return pkg.ErrReadData.Wrap(err).With(slog.String("file", name))
		}

		doc, err := value.Decode(b)
		if err != nil {
			return pkg.ErrDecodeData.Wrap(err).With(slog.String("file", name))
		}

		log.TraceContext(ctx, "data loaded",
			slog.String("file", name),
			slog.String("kind", doc.Kind().String()),
		)

		merged = merge(merged, doc)

		return nil
	}

	for _, path := range f.paths {
		file, err := os.Open(path)
		if err != nil {
			return value.Undefined(), pkg.ErrReadData.Wrap(err).
				With(slog.String("file", path))
		}

		err = add(path, file)
		_ = file.Close()

		if err != nil {
			return value.Undefined(), err
		}
	}

	if f.stdin != nil {
		if err := add(stdinSource, f.stdin); err != nil {
			return value.Undefined(), err
		}
	}

	return merged, nil
}

func merge(into, doc value.Value) value.Value {
	dst, src := into.Map(), doc.Map()
	if dst == nil || src == nil {
		return doc
	}

	for k, v := range src.All() {
		if key, ok := value.CanonicalKey(dst, k); ok && key != k {
			dst.Delete(key)
		}

		dst.Set(k, v)
	}

	return into
}

// hasData reports whether [WithDataFiles] named at least one readable
// document.
func hasData(ctx context.Context) bool {
	f, _ := ctx.Value(dataFilesKey{}).(*dataFiles)

	return f != nil && (f.stdin != nil || len(f.paths) > 0)
}

// dataFrom loads the data documents named by [WithDataFiles].
func dataFrom(ctx context.Context) (value.Value, error) {
	f, _ := ctx.Value(dataFilesKey{}).(*dataFiles)

	return f.load(ctx)
}
