package pkg

import (
	"errors"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "tmplfn" {
		t.Errorf("Name = %q", Name)
	}
}

func TestVersion(t *testing.T) {
	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(Version) {
		t.Errorf("Version = %q, want a semantic version", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Author = %v", Author)
	}
}

func TestError(t *testing.T) {
	err := ErrReadData.
		With(slog.String("file", "data.yaml")).
		Wrap(io.ErrUnexpectedEOF).
		With(slog.Int("line", 3))

	if got, want := err.Error(), "failed to read data: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrReadData) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrDecodeData) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("derived error does not match its cause")
	}

	if len(ErrReadData.Attrs()) != 0 {
		t.Error("With modified the sentinel")
	}

	group := err.LogValue().Group()

	keys := make([]string, len(group))
	for i, a := range group {
		keys[i] = a.Key
	}

	if want := []string{"error", "cause", "file", "line"}; !slices.Equal(keys, want) {
		t.Errorf("LogValue keys = %v, want %v", keys, want)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil) != nil {
		t.Error("WrapError(nil) != nil")
	}

	if WrapError(ErrCompile) != ErrCompile {
		t.Error("WrapError did not return an existing *Error")
	}

	plain := errors.New("plain")
	if got := WrapError(plain); got.Error() != "plain" || !errors.Is(got, plain) {
		t.Errorf("WrapError(plain) = %v", got)
	}
}
