package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one line per record:
//
//	2024-05-01T12:00:00Z WARN enrichment: provider lookup failed item_id=42 provider=yelp error="timeout"
//
// Subject fields (item, restaurant, provider) lead; the run id is only kept
// in the JSON copy.
type consoleHandler struct {
	out    *syncWriter
	level  slog.Leveler
	caller bool
	fields []field
	group  string
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line)
	return err
}

type field struct {
	key   string
	value slog.Value
}

var subjectFields = []string{FieldItemID, FieldRestaurant, FieldProvider}

func newConsoleHandler(w io.Writer, level slog.Leveler, caller bool) *consoleHandler {
	return &consoleHandler{out: &syncWriter{w: w}, level: level, caller: caller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, rec slog.Record) error {
	fields := slices.Clone(h.fields)
	rec.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.group, a)
		return true
	})

	var component string
	var subject, rest []field
	for _, f := range fields {
		switch {
		case f.key == FieldComponent:
			if component == "" {
				component = f.value.String()
			}
		case f.key == FieldRunID:
		case slices.Contains(subjectFields, f.key):
			subject = append(subject, f)
		default:
			rest = append(rest, f)
		}
	}
	slices.SortStableFunc(subject, func(a, b field) int {
		return slices.Index(subjectFields, a.key) - slices.Index(subjectFields, b.key)
	})

	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(ts.UTC().Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(rec.Level.String())
	b.WriteByte(' ')
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	if msg := strings.TrimSpace(rec.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteByte('-')
	}
	for _, f := range append(subject, rest...) {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(renderValue(f.value))
	}
	if h.caller && rec.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{rec.PC}).Next()
		fmt.Fprintf(&b, " @%s:%d", filepath.Base(frame.File), frame.Line)
	}
	b.WriteByte('\n')
	return h.out.write(b.String())
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = slices.Clone(h.fields)
	for _, a := range attrs {
		next.fields = appendField(next.fields, h.group, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, group string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	key := joinKey(group, a.Key)
	if a.Value.Kind() == slog.KindGroup {
		for _, child := range a.Value.Group() {
			dst = appendField(dst, key, child)
		}
		return dst
	}
	return append(dst, field{key: key, value: a.Value})
}

func joinKey(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

func renderValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
