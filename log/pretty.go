package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles render plain text
// when the output does not support color.
type palette struct {
	key, str, num, yes, no, null, when lipgloss.Style
	level                              map[Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		yes:  fg("2"),
		no:   fg("1"),
		null: fg("8"),
		when: fg("4"),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("5"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3"),
			LevelError: fg("1").Bold(true),
		},
	}
}

func (p palette) forLevel(l Level) lipgloss.Style {
	for _, lvl := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if l >= lvl {
			return p.level[lvl]
		}
	}

	return p.level[LevelTrace]
}

// prettyHandler writes records for a human reader. Text records are a single
// line of key=value pairs. JSON records are indented over several lines.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	attrs  []slog.Attr
	groups []string
	format Format
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		style:  makePalette(w),
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := slog.LevelInfo
	if h.opts.Level != nil {
		lvl = h.opts.Level.Level()
	}

	return level >= lvl
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Concat(h.attrs, qualify(h.groups, attrs))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, h.replace(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	var own []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	fields = append(fields, qualify(h.groups, own)...)

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		h.writeJSON(buf, fields, r.Level)
	} else {
		h.writeText(buf, fields, r.Level)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// replace runs the configured ReplaceAttr hook over a built-in attribute.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// qualify resolves attrs and flattens groups into dotted keys.
func qualify(groups []string, attrs []slog.Attr) []slog.Attr {
	prefix := strings.Join(groups, ".")
	if prefix != "" {
		prefix += "."
	}

	var out []slog.Attr

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() == slog.KindGroup {
			sub := groups
			if a.Key != "" {
				sub = append(slices.Clip(groups), a.Key)
			}

			out = append(out, qualify(sub, a.Value.Group())...)

			continue
		}

		a.Key = prefix + a.Key
		out = append(out, a)
	}

	return out
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.render(a, level, false))
	}
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	buf.WriteString("{")

	first := true

	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(h.render(a, level, true))
	}

	buf.WriteString("\n}")
}

// render styles the value of a by its kind. Strings are quoted only in JSON.
func (h *prettyHandler) render(a slog.Attr, level slog.Level, quote bool) string {
	v := a.Value
	quoted := func(s string) string {
		if quote {
			return strconv.Quote(s)
		}

		return s
	}
	str := func(s string) string { return h.style.str.Render(quoted(s)) }

	if a.Key == slog.LevelKey {
		return h.style.forLevel(Level(level)).Render(quoted(v.String()))
	}

	switch v.Kind() {
	case slog.KindString:
		return str(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.num.Render(quoted(v.Duration().String()))

	case slog.KindTime:
		return h.style.when.Render(quoted(v.Time().Format(time.RFC3339)))

	default:
		return h.renderAny(v.Any(), str)
	}
}

func (h *prettyHandler) renderAny(v any, str func(string) string) string {
	switch val := v.(type) {
	case nil:
		return h.style.null.Render("null")

	case json.RawMessage:
		return h.style.str.Render(string(val))

	case error:
		return str(val.Error())

	case fmt.Stringer:
		return str(val.String())
	}

	if b, err := json.Marshal(v); err == nil {
		return h.style.str.Render(string(b))
	}

	return str(fmt.Sprint(v))
}
