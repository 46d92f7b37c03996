package vcard

import (
	"encoding/base64"
	"strings"
)

// maxBase64Bytes is the largest BASE64 text a single value may have. A longer
// value is still read in full, then discarded and replaced by a nil value
// (decodeValue checks the length after joinBase64 returns), mirroring §7's
// "OutOfMemory during BASE64 accumulation" recovery path. A real allocator
// failure isn't reproducible on purpose in a test suite, so this stands in
// for it.
const maxBase64Bytes = 64 << 20 // 64 MiB of base64 text

// decodedValue is the intermediate result ValueDecoder hands back to the
// driver, before it is wrapped into a consumer-facing Property.
type decodedValue struct {
	kind   ValueKind
	text   string
	list   []string
	binary []byte
	// ignore is set for an AGENT line with an empty body: §4.4 says to
	// drop the property silently rather than emit it.
	ignore bool
}

// decodeValue decodes rp's raw value according to st.currentEncoding and
// rp's name, pulling further lines from src when the encoding requires
// continuation (QUOTED-PRINTABLE soft breaks, BASE64 runs, or RFC 2425
// folding). profile supplies the structured-property set and unescaper.
func decodeValue(rp rawProperty, st *state, src *lineSource, profile VersionProfile, diag Logger) (decodedValue, error) {
	nameUpper := rp.nameUpper()

	if nameUpper == "VERSION" {
		if strings.TrimSpace(rp.rawValue) != profile.Name {
			return decodedValue{}, &ParseError{Line: rp.lineNumber, Err: ErrIncompatibleVersion}
		}
		return decodedValue{kind: ValueSingle, text: rp.rawValue}, nil
	}

	if nameUpper == "AGENT" {
		return decodeAgent(rp)
	}

	switch st.currentEncoding {
	case EncodingQuotedPrintable:
		joined, err := joinQuotedPrintable(rp, src)
		if err != nil {
			return decodedValue{}, err
		}
		return finishTextValue(rp, nameUpper, joined, profile), nil

	case EncodingBase64:
		raw, err := joinBase64(rp, src)
		if err != nil {
			return decodedValue{}, err
		}
		if len(raw) > maxBase64Bytes {
			diag.Warnf("line %d: BASE64 value exceeds %d bytes, discarding", rp.lineNumber, maxBase64Bytes)
			return decodedValue{kind: ValueBinary, binary: nil}, nil
		}
		data, decErr := base64.StdEncoding.DecodeString(stripBase64Whitespace(raw))
		if decErr != nil {
			// Tolerate producers that pad or wrap oddly: retry without
			// validating padding strictly before giving up on the bytes.
			if data2, err2 := base64.RawStdEncoding.DecodeString(stripBase64Whitespace(raw)); err2 == nil {
				data = data2
			} else {
				diag.Warnf("line %d: malformed BASE64 value: %v", rp.lineNumber, decErr)
			}
		}
		return decodedValue{kind: ValueBinary, binary: data}, nil

	default: // 7BIT, 8BIT, X-
		joined, err := joinFolded(rp, src, diag)
		if err != nil {
			return decodedValue{}, err
		}
		return finishTextValue(rp, nameUpper, joined, profile), nil
	}
}

func finishTextValue(rp rawProperty, nameUpper, joined string, profile VersionProfile) decodedValue {
	if charset, ok := paramValue(rp.params, "CHARSET"); ok {
		if enc, err := resolveCharset(charset); err == nil {
			if transcoded, err := retranscode(joined, enc); err == nil {
				joined = transcoded
			}
		}
	}

	unescaped := profile.Unescape(joined)

	if profile.StructuredProperties[nameUpper] {
		return decodedValue{kind: ValueList, list: SplitStructured(unescaped)}
	}
	return decodedValue{kind: ValueSingle, text: unescaped}
}

func paramValue(params []Param, name string) (string, bool) {
	for _, p := range params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// joinQuotedPrintable implements §4.4's QUOTED-PRINTABLE continuation: a
// trimmed line ending in '=' means the value continues on the next line.
// Transport padding between the final '=' and EOL is whitespace and is
// simply trimmed away first, per the Open Question in §9 — there is no
// special-case backward scan, just TrimRight then check the last byte.
func joinQuotedPrintable(rp rawProperty, src *lineSource) (string, error) {
	var b strings.Builder
	b.WriteString(rp.rawValue)

	for {
		trimmed := strings.TrimRight(b.String(), " \t")
		if len(trimmed) == 0 || trimmed[len(trimmed)-1] != '=' {
			return b.String(), nil
		}
		// The soft line break marker itself is left in place — QP-to-byte
		// decoding is the consumer's job. Only the transport padding
		// between it and EOL is whitespace and gets trimmed away.
		b.Reset()
		b.WriteString(trimmed)
		b.WriteString("\r\n")

		next, ok := src.readLine()
		if !ok {
			return "", &ParseError{Line: rp.lineNumber, Err: ErrUnexpectedEOF}
		}
		b.WriteString(next)
	}
}

// joinBase64 consumes continuation lines until a blank line (the 2.1
// convention, approximated here as any empty line) or until the lookahead
// line looks like the start of the next property, in which case it is left
// unconsumed because the producer omitted the terminating blank line.
func joinBase64(rp rawProperty, src *lineSource) (string, error) {
	var b strings.Builder
	b.WriteString(rp.rawValue)

	for {
		peeked, ok := src.peekLine()
		if !ok {
			if b.Len() == 0 {
				return "", &ParseError{Line: rp.lineNumber, Err: ErrUnexpectedEOF}
			}
			// EOF after at least some BASE64 content: treat as the
			// (missing) terminator rather than failing outright, since
			// the stream simply ended with the card.
			return b.String(), nil
		}
		if strings.TrimSpace(peeked) == "" {
			src.readLine() // consume the blank terminator
			return b.String(), nil
		}
		if looksLikeKnownPropertyLine(peeked) {
			return b.String(), nil
		}
		line, _ := src.readLine()
		b.WriteString(line)
	}
}

// joinFolded implements RFC 2425 §5.8.1 line folding for plain-text values:
// while the next line begins with a single leading space, it is a
// continuation of the current value with that one space stripped. Folding
// stops (without consuming) if the next line starts with END:VCARD, so the
// terminator is never eaten even if it happens to be indented by a
// misbehaving producer.
func joinFolded(rp rawProperty, src *lineSource, diag Logger) (string, error) {
	var b strings.Builder
	b.WriteString(rp.rawValue)

	for {
		peeked, ok := src.peekLine()
		if !ok || len(peeked) == 0 || peeked[0] != ' ' {
			return b.String(), nil
		}
		if strings.HasPrefix(strings.ToUpper(strings.TrimLeft(peeked, " ")), "END:VCARD") {
			return b.String(), nil
		}
		diag.Warnf("line %d: joining folded continuation line", rp.lineNumber+1)
		line, _ := src.readLine()
		b.WriteString(line[1:])
	}
}

func decodeAgent(rp rawProperty) (decodedValue, error) {
	if strings.Contains(strings.ToUpper(rp.rawValue), "BEGIN:VCARD") {
		return decodedValue{}, &ParseError{Line: rp.lineNumber, Err: ErrAgentNotSupported}
	}
	return decodedValue{ignore: true}, nil
}

// stripBase64Whitespace removes whitespace the base64 decoder would
// otherwise reject; real-world producers sometimes insert extra spaces
// when wrapping long BASE64 runs.
func stripBase64Whitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
