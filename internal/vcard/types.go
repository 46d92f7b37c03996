// Package vcard implements a streaming, push-style parser for vCard 2.1
// content streams (IMC vCard 2.1, and the RFC 2425/2426 line grammar it
// shares with later versions).
//
// The parser never builds a whole-document tree. Instead it drives a
// consumer through BEGIN/ENTRY/PROPERTY/END events as it reads, the same
// shape as the ics.ParseLine-plus-driver split this package is modelled on,
// generalised to vCard's richer parameter/encoding/folding rules.
package vcard

import "strings"

// Encoding is the ENCODING parameter value in effect for the property
// currently being decoded. It is reset to Encoding8Bit at the start of
// every property and is never shared across properties.
type Encoding int

const (
	Encoding7Bit Encoding = iota
	Encoding8Bit
	EncodingQuotedPrintable
	EncodingBase64
	EncodingX // unrecognised "X-..." encoding token, treated as plain text
)

func (e Encoding) String() string {
	switch e {
	case Encoding7Bit:
		return "7BIT"
	case Encoding8Bit:
		return "8BIT"
	case EncodingQuotedPrintable:
		return "QUOTED-PRINTABLE"
	case EncodingBase64:
		return "BASE64"
	case EncodingX:
		return "X-"
	default:
		return "UNKNOWN"
	}
}

// Param is a single parsed parameter: name=value, name upper-cased, value
// kept verbatim (any surrounding double quotes already stripped by the
// parameter handler in params.go; the dissector leaves them in place). Order of appearance is preserved and duplicates are allowed,
// matching real-world producers that repeat TYPE.
type Param struct {
	Name  string
	Value string
}

// rawProperty is the transient, package-internal result of dissecting one
// logical line. paramToks holds the still-unparsed ";name=value" (or bare
// TYPE shorthand) strings; ParameterHandler turns those into Params.
// Exactly one of (name set, rawValue set) or an error holds once dissection
// finishes, per the data model's invariant.
type rawProperty struct {
	groups     []string
	name       string // original case, as it appeared in the source
	paramToks  []string
	params     []Param
	rawValue   string
	lineNumber int
}

// nameUpper returns the property name upper-cased for case-insensitive
// comparisons, without mutating the original-case name field.
func (r rawProperty) nameUpper() string {
	return strings.ToUpper(r.name)
}

// ValueKind discriminates the three shapes a decoded property value can
// take, per §3 of the data model this package implements.
type ValueKind int

const (
	ValueSingle   ValueKind = iota // one decoded string
	ValueList                     // structured (ADR/ORG/N): semicolon-split parts
	ValueBinary                   // raw bytes (BASE64)
)

// Property is the decoded, consumer-facing form of a vCard property: name,
// groups, parameters, and a value of exactly one of the three ValueKinds.
type Property struct {
	Name    string
	Groups  []string
	Params  []Param
	Kind    ValueKind
	Text    string   // valid when Kind == ValueSingle
	List    []string // valid when Kind == ValueList
	Binary  []byte   // valid when Kind == ValueBinary
	Encoded Encoding
}

// Param returns the value of the first parameter with the given
// case-insensitive name, and whether it was present.
func (p Property) Param(name string) (string, bool) {
	name = strings.ToUpper(name)
	for _, pr := range p.Params {
		if pr.Name == name {
			return pr.Value, true
		}
	}
	return "", false
}

// state is the driver's per-parse working state. currentEncoding is reset
// per property; nestingDepth tracks BEGIN/END recursion. cancelled is not
// read by the driver: Cancel sets Parser.cancelled, and Parse checks that
// flag at entry boundaries.
type state struct {
	currentEncoding  Encoding
	nestingDepth     int
	cancelled        bool
	unknownTypeSeen  map[string]bool
	unknownValueSeen map[string]bool
	dquoteWarned     bool
	emptyGroupWarned bool
	foldWarned       bool
}

func newState() *state {
	return &state{
		currentEncoding:  Encoding8Bit,
		unknownTypeSeen:  make(map[string]bool),
		unknownValueSeen: make(map[string]bool),
	}
}
