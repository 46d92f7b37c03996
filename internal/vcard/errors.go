package vcard

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by parse. Most terminate the parse immediately;
// InvalidComment is recovered locally (the offending line is logged and
// skipped) and never escapes Parse.
var (
	// ErrInvalidComment is raised internally when a line begins with '#'.
	// The driver recovers from it and never returns it to the caller.
	ErrInvalidComment = errors.New("vcard: line is a comment")

	// ErrInvalidLine means the dissector reached end of line without
	// finding the colon that separates name/params from value.
	ErrInvalidLine = errors.New("vcard: no ':' found in logical line")

	// ErrUnexpectedEOF means the stream ended in the middle of a
	// QUOTED-PRINTABLE or BASE64 continuation, or before the END:VCARD
	// that was expected to close an open entry.
	ErrUnexpectedEOF = errors.New("vcard: unexpected end of stream")

	// ErrIoFailure means the underlying byte stream raised a real I/O
	// error (as opposed to a clean end-of-stream). Never confused with
	// ErrUnexpectedEOF: readLine/peekLine returning ok=false because the
	// scanner genuinely errored, not because it ran out of input.
	ErrIoFailure = errors.New("vcard: I/O error reading stream")

	// ErrMissingBegin means a non-blank line outside any entry (where a new
	// entry was expected) was not BEGIN:VCARD. Not returned when Parse is
	// run in lenient mode.
	ErrMissingBegin = errors.New("vcard: missing BEGIN:VCARD")

	// ErrUnknownBeginOrEnd means a BEGIN: or END: line named a component
	// other than VCARD.
	ErrUnknownBeginOrEnd = errors.New("vcard: BEGIN/END value is not VCARD")

	// ErrUnknownEncoding means an ENCODING parameter value was not in the
	// recognised set.
	ErrUnknownEncoding = errors.New("vcard: unrecognised ENCODING value")

	// ErrInvalidLanguage means a LANGUAGE parameter did not match the
	// a-b letters-only form.
	ErrInvalidLanguage = errors.New("vcard: malformed LANGUAGE value")

	// ErrUnknownParam means a parameter name was neither recognised nor
	// an X- extension.
	ErrUnknownParam = errors.New("vcard: unrecognised parameter name")

	// ErrIncompatibleVersion means a VERSION property did not match the
	// version this parser was configured for.
	ErrIncompatibleVersion = errors.New("vcard: incompatible VERSION value")

	// ErrAgentNotSupported means an AGENT property carried a nested
	// BEGIN:VCARD payload, which this core deliberately rejects.
	ErrAgentNotSupported = errors.New("vcard: AGENT sub-card is not supported")
)

// ParseError wraps a sentinel error with the line number it was raised on,
// so callers get useful diagnostics without the core having to build ad hoc
// strings at every call site.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("vcard: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
