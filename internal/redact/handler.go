package redact

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

const (
	// DefaultTag is printed in brackets at the start of every line
	DefaultTag = "USERAUTH"
	// DefaultName is the logger name used by NewLogger
	DefaultName = "user_data"
	// TimeFormat matches "2019-11-19 18:24:25,105"
	TimeFormat = "2006-01-02 15:04:05,000"
)

// HandlerOptions configures a Handler.
// Zero values fall back to DefaultTag, INFO level, PIIFields and TimeFormat.
type HandlerOptions struct {
	Level      slog.Leveler
	Tag        string
	Name       string
	TimeFormat string
	Fields     []string
}

// Handler is a slog.Handler that renders records as
//
//	[TAG] <name> <LEVEL> <timestamp>: <message> key=value;...
//
// and passes the message part through a Redactor before writing it.
// Attributes are rendered as "key=value;" pairs so PII passed as attributes
// is redacted as well.
type Handler struct {
	w        io.Writer
	mu       *sync.Mutex
	redactor *Redactor
	opts     HandlerOptions
	attrs    string
	group    string
}

// NewHandler creates a redacting handler writing to w
func NewHandler(w io.Writer, opts *HandlerOptions) *Handler {
	h := &Handler{
		w:  w,
		mu: &sync.Mutex{},
	}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.Tag == "" {
		h.opts.Tag = DefaultTag
	}
	if h.opts.TimeFormat == "" {
		h.opts.TimeFormat = TimeFormat
	}
	if h.opts.Fields == nil {
		h.opts.Fields = PIIFields
	}
	h.redactor = New(h.opts.Fields, Redaction, Separator)
	return h
}

// NewLogger returns the user data logger: INFO level, PII fields redacted
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(NewHandler(w, &HandlerOptions{Name: DefaultName}))
}

// Enabled reports whether records at level are written
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle formats, redacts and writes a single record
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var msg strings.Builder
	msg.WriteString(r.Message)

	var attrs strings.Builder
	attrs.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&attrs, h.group, a)
		return true
	})
	if attrs.Len() > 0 {
		msg.WriteByte(' ')
		msg.WriteString(attrs.String())
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var line strings.Builder
	line.WriteByte('[')
	line.WriteString(h.opts.Tag)
	line.WriteString("] ")
	if h.opts.Name != "" {
		line.WriteString(h.opts.Name)
		line.WriteByte(' ')
	}
	line.WriteString(r.Level.String())
	line.WriteByte(' ')
	line.WriteString(ts.Format(h.opts.TimeFormat))
	line.WriteString(": ")
	line.WriteString(lineBreaks.Replace(h.redactor.Redact(msg.String())))
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

// WithAttrs returns a handler that renders attrs on every record
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&b, h.group, a)
	}
	h2.attrs = b.String()
	return &h2
}

// WithGroup returns a handler that qualifies subsequent attribute keys with name
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

// appendAttr renders a as "key=value;". Values of configured fields are
// replaced before rendering; other values are quoted when they could break
// the pair or the line.
func (h *Handler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupAttrs := a.Value.Group()
		if len(groupAttrs) == 0 {
			return
		}
		if a.Key != "" {
			prefix = prefix + a.Key + "."
		}
		for _, ga := range groupAttrs {
			h.appendAttr(b, prefix, ga)
		}
		return
	}

	key := prefix + a.Key
	b.WriteString(key)
	b.WriteByte('=')
	if h.redactor.Sensitive(key) {
		b.WriteString(Redaction)
	} else {
		b.WriteString(quoteValue(a.Value.String()))
	}
	b.WriteString(Separator)
}

// lineBreaks keeps one record on one line
var lineBreaks = strings.NewReplacer("\n", `\n`, "\r", `\r`)

func quoteValue(v string) string {
	if strings.Contains(v, Separator) || strings.ContainsRune(v, '"') {
		return strconv.Quote(v)
	}
	for _, r := range v {
		if !unicode.IsPrint(r) {
			return strconv.Quote(v)
		}
	}
	return v
}
