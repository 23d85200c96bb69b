package pkg

import (
	"errors"
	"log/slog"
	"strings"
)

// Sentinel errors shared by the expression host and the command line.
// Compare with [errors.Is]; the values returned by [Error.Wrap] and
// [Error.With] match the sentinel they were derived from.
var (
	ErrCompile       = NewError("expression compilation failed")
	ErrEvaluate      = NewError("expression evaluation failed")
	ErrReadData      = NewError("failed to read data")
	ErrDecodeData    = NewError("failed to decode data")
	ErrInvalidFormat = NewError("invalid format")
	ErrMarshal       = NewError("marshal error")
	ErrNoData        = NewError("no data document")
	ErrWriteConfig   = NewError("write configuration file")
	ErrFileExists    = NewError("file exists (use --force to overwrite)")
)

// Error is an error with an optional cause and structured logging
// attributes. It implements [slog.LogValuer].
type Error struct {
	base  *Error
	err   error
	msg   string
	attrs []slog.Attr
}

// NewError returns an Error with message msg.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError converts err into an *Error, returning err itself when it
// already is one.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error returns "msg: cause", or whichever of the two is set.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e or the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for x := e; x != nil; x = x.base {
		if x == t {
			return true
		}
	}

	return false
}

// Attrs returns the attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{base: e.root(), msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		base:  e.root(),
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
	}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}
