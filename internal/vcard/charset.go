package vcard

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// transparentCharset is the LineSource default: ISO-8859-1 maps every byte
// 0x00-0xFF onto the identically numbered rune, so reading through it loses
// no information and is reversible byte-for-byte. §4.1 calls this the
// "fixed 8-bit-transparent charset" that lets per-value CHARSET handling
// happen downstream without the line reader having guessed wrong first.
var transparentCharset encoding.Encoding = charmap.ISO8859_1

// newCharsetReader wraps r so that bytes come out as a transparently
// decoded io.Reader, ready for bufio.Scanner/Reader consumption.
func newCharsetReader(r io.Reader) io.Reader {
	return transform.NewReader(r, transparentCharset.NewDecoder())
}

// resolveCharset looks up a CHARSET parameter value (e.g. "UTF-8",
// "ISO-8859-1", "Windows-1252") using the IANA/HTML charset registry from
// golang.org/x/text. Unknown names are reported to the caller rather than
// silently ignored; §4.3 says CHARSET is appended verbatim with no
// validation, so callers only consult this when they actually need to
// transcode a value.
func resolveCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("vcard: empty charset name")
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("vcard: unknown charset %q: %w", name, err)
	}
	return enc, nil
}

// retranscode takes a string produced by reading through transparentCharset
// (so each rune 0-255 is really one original input byte) and reinterprets
// those original bytes under target, producing a proper UTF-8 Go string.
//
// This is how a CHARSET=... parameter on an individual property is honoured
// without requiring the whole stream to be declared in one charset up
// front, matching §1's "charset and encoding negotiation must happen
// mid-record" requirement.
func retranscode(s string, target encoding.Encoding) (string, error) {
	raw, err := transparentCharset.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("vcard: re-encoding transparent charset: %w", err)
	}
	out, err := target.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("vcard: decoding charset: %w", err)
	}
	return out, nil
}

// newLineScanner builds a bufio.Scanner over the charset-transparent
// reader, splitting on CRLF/LF/CR as required by §4.1.
func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(newCharsetReader(r))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(scanVCardLines)
	return sc
}

// scanVCardLines is a bufio.SplitFunc that accepts CRLF, LF, or bare CR as
// line terminators, stripping whichever was found.
func scanVCardLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i + 1, trimCR(data[:i]), nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			// Might be a CRLF split across reads; request more data.
			return 0, nil, nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}
