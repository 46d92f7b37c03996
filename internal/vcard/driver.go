package vcard

import (
	"io"
	"strings"
	"sync/atomic"
)

// Parser is the top-level vCard 2.1 parser: a single-threaded, synchronous,
// pull-from-stream state machine (§5 — no background work, no internal
// concurrency; Parse only makes progress while its caller's goroutine is
// inside it).
type Parser struct {
	profile   VersionProfile
	logger    Logger
	lenient   bool
	fan       fanout
	cancelled atomic.Bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLogger overrides the diagnostics sink. The default discards nothing
// useful: it writes to stderr via the standard library's log package,
// matching the plain stdlib logging the rest of this codebase uses.
func WithLogger(l Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithLenientBegin makes Parse terminate cleanly instead of failing with
// ErrMissingBegin when the stream never produces a BEGIN:VCARD line.
func WithLenientBegin() Option {
	return func(p *Parser) { p.lenient = true }
}

// WithVersionProfile overrides the version profile (default Profile21).
func WithVersionProfile(profile VersionProfile) Option {
	return func(p *Parser) { p.profile = profile }
}

// New constructs a Parser ready to accept consumers and parse streams.
func New(opts ...Option) *Parser {
	p := &Parser{profile: Profile21, logger: NewStdLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddConsumer registers a consumer. It may implement EventConsumer,
// LegacyConsumer, or both; registering the same value more than once
// delivers the event stream to it that many times, in registration order.
func (p *Parser) AddConsumer(c any) {
	p.fan.register(c)
}

// Cancel requests cooperative termination. Safe to call from any
// goroutine. The parser only consults this flag at entry boundaries (§5);
// it is not guaranteed to interrupt mid-property.
func (p *Parser) Cancel() {
	p.cancelled.Store(true)
}

// Parse consumes r to completion, driving every registered consumer
// through the BEGIN/ENTRY/PROPERTY/END event hierarchy. It returns the
// first unrecovered error (§7); InvalidComment and the BASE64
// out-of-memory substitution are the only errors handled internally.
func (p *Parser) Parse(r io.Reader) error {
	src := newLineSource(r)
	st := newState()

	p.fan.vcardStarted()
	defer p.fan.vcardEnded()

	for {
		if p.cancelled.Load() {
			return nil
		}

		line, ok := p.skipBlankLines(src)
		if !ok {
			if src.Err() != nil {
				return &ParseError{Err: ErrIoFailure}
			}
			return nil
		}

		rp, err := dissect(line, src.Line(), st, p.logger)
		if err != nil {
			if isInvalidComment(err) {
				continue
			}
			return err
		}

		if !isBeginVCard(rp) {
			if p.lenient {
				continue
			}
			return &ParseError{Line: rp.lineNumber, Err: ErrMissingBegin}
		}

		if err := p.parseEntry(src, st); err != nil {
			return err
		}
	}
}

// skipBlankLines reads past empty lines and returns the first non-blank
// one, or ok=false at end of stream.
func (p *Parser) skipBlankLines(src *lineSource) (string, bool) {
	for {
		line, ok := src.readLine()
		if !ok {
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
}

// parseEntry implements one BEGIN:VCARD...END:VCARD block, recursing for
// nested entries. The caller has already confirmed the BEGIN line.
func (p *Parser) parseEntry(src *lineSource, st *state) error {
	st.nestingDepth++
	defer func() { st.nestingDepth-- }()

	p.fan.entryStarted()
	defer p.fan.entryEnded()

	for {
		line, ok := src.readLine()
		if !ok {
			if src.Err() != nil {
				return &ParseError{Line: src.Line(), Err: ErrIoFailure}
			}
			return &ParseError{Line: src.Line(), Err: ErrUnexpectedEOF}
		}

		rp, err := dissect(line, src.Line(), st, p.logger)
		if err != nil {
			if isInvalidComment(err) {
				continue
			}
			return err
		}

		switch {
		case isBeginVCard(rp):
			if err := p.parseEntry(src, st); err != nil {
				return err
			}
			continue
		case isEndVCard(rp):
			return nil
		case isBeginOrEnd(rp):
			return &ParseError{Line: rp.lineNumber, Err: ErrUnknownBeginOrEnd}
		}

		st.currentEncoding = Encoding8Bit
		if err := applyParams(&rp, st, p.profile, p.logger); err != nil {
			return err
		}

		dv, err := decodeValue(rp, st, src, p.profile, p.logger)
		if err != nil {
			return err
		}
		if dv.ignore {
			continue
		}

		p.fan.propertyCreated(Property{
			Name:    rp.name,
			Groups:  rp.groups,
			Params:  rp.params,
			Kind:    dv.kind,
			Text:    dv.text,
			List:    dv.list,
			Binary:  dv.binary,
			Encoded: st.currentEncoding,
		})
	}
}

func isInvalidComment(err error) bool {
	if err == ErrInvalidComment {
		return true
	}
	pe, ok := err.(*ParseError)
	return ok && pe.Err == ErrInvalidComment
}

func isBeginVCard(rp rawProperty) bool {
	return strings.EqualFold(rp.name, "BEGIN") && strings.EqualFold(strings.TrimSpace(rp.rawValue), "VCARD")
}

func isEndVCard(rp rawProperty) bool {
	return strings.EqualFold(rp.name, "END") && strings.EqualFold(strings.TrimSpace(rp.rawValue), "VCARD")
}

func isBeginOrEnd(rp rawProperty) bool {
	return strings.EqualFold(rp.name, "BEGIN") || strings.EqualFold(rp.name, "END")
}
