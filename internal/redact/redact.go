// Package redact scrubs personally identifiable values out of log messages.
//
// Messages are expected to carry data as "field=value" pairs terminated by a
// separator, e.g. "name=Bob;email=bob@example.com;". For every configured
// field the value part is replaced with a fixed marker, leaving the field name,
// the separator and all other text untouched.
package redact

import (
	"regexp"
	"strings"
)

const (
	// Redaction is the marker substituted for sensitive values
	Redaction = "***"
	// Separator terminates a field=value pair
	Separator = ";"
)

// PIIFields lists the user attributes that must never reach a log in plaintext
var PIIFields = []string{"name", "email", "phone", "ssn", "password"}

// Redactor is a precompiled field redaction rule set.
// It is safe for concurrent use.
type Redactor struct {
	fields       []string
	patterns     []*regexp.Regexp
	replacements []string
}

// New compiles a Redactor for the given fields.
// Fields are applied in order; field names and separator are matched literally.
func New(fields []string, redaction, separator string) *Redactor {
	r := &Redactor{
		fields:       make([]string, 0, len(fields)),
		patterns:     make([]*regexp.Regexp, 0, len(fields)),
		replacements: make([]string, 0, len(fields)),
	}

	for _, field := range fields {
		if field == "" {
			continue
		}

		// every occurrence counts, "name=" also matches inside "username="
		expr := regexp.QuoteMeta(field) + `=.*?` + regexp.QuoteMeta(separator)

		r.fields = append(r.fields, field)
		r.patterns = append(r.patterns, regexp.MustCompile(expr))
		r.replacements = append(r.replacements, field+"="+redaction+separator)
	}

	return r
}

// Redact returns message with the value of every configured field replaced
func (r *Redactor) Redact(message string) string {
	for i, re := range r.patterns {
		message = re.ReplaceAllLiteralString(message, r.replacements[i])
	}
	return message
}

// Sensitive reports whether a "key=" pair would have its value redacted,
// that is whether key ends with one of the configured fields
func (r *Redactor) Sensitive(key string) bool {
	for _, field := range r.fields {
		if strings.HasSuffix(key, field) {
			return true
		}
	}
	return false
}

// FilterDatum returns message with the value of each field obfuscated by redaction.
// A value is the shortest run of characters between "field=" and separator.
// Fields absent from the message are ignored.
func FilterDatum(fields []string, redaction, message, separator string) string {
	return New(fields, redaction, separator).Redact(message)
}
