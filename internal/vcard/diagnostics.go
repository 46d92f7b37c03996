package vcard

import (
	"log"
	"os"
)

// Logger receives non-fatal diagnostics: unknown TYPE/VALUE values,
// non-conforming double-quoted 2.1 parameters, dropped empty groups, and
// folded continuation lines. None of these abort the parse; §7 treats them
// as warnings, not errors.
type Logger interface {
	Warnf(format string, args ...any)
}

// stdLogger adapts the standard library's log.Logger to the Logger
// interface. It is the default used when Parser is constructed without an
// explicit logger, matching the teacher's own reliance on stdlib log
// instead of a third-party logging facade.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes to os.Stderr with a "vcard: "
// prefix, one line per diagnostic.
func NewStdLogger() Logger {
	return &stdLogger{l: log.New(os.Stderr, "vcard: ", 0)}
}

func (s *stdLogger) Warnf(format string, args ...any) {
	s.l.Printf(format, args...)
}

// nullLogger discards every diagnostic. Useful for tests and for consumers
// that only care about the event stream.
type nullLogger struct{}

func (nullLogger) Warnf(string, ...any) {}
