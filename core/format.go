package core

import (
	"strings"
)

// Formatter rewrites a raw value before conversion. Returning an error
// rejects the value with a FormatError.
type Formatter interface {
	Format(raw string) (string, error)
	String() string
}

var (
	Lowercase Formatter = FormatFunc("lowercase", func(s string) (string, error) { return strings.ToLower(s), nil })
	Uppercase Formatter = FormatFunc("uppercase", func(s string) (string, error) { return strings.ToUpper(s), nil })
	TrimSpace Formatter = FormatFunc("trimmed", func(s string) (string, error) { return strings.TrimSpace(s), nil })
)

// FormatFunc wraps fn as a formatter described by desc.
func FormatFunc(desc string, fn func(string) (string, error)) Formatter {
	return &funcFormatter{desc: desc, fn: fn}
}

type funcFormatter struct {
	desc string
	fn   func(string) (string, error)
}

func (f *funcFormatter) Format(raw string) (string, error) { return f.fn(raw) }
func (f *funcFormatter) String() string                    { return f.desc }
