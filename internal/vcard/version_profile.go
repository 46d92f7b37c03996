package vcard

import "strings"

// VersionProfile carries every piece of behaviour that differs between
// vCard versions: the known TYPE/VALUE vocabularies used for diagnostics,
// whether double-quoted parameter values are conforming, the structured
// property set, and the text unescaper applied after decoding. The accepted
// ENCODING values are fixed in parseEncoding and are not part of the profile.
//
// §9 of the design replaces the teacher's inheritance-based 2.1/3.0 split
// with this: the driver takes a VersionProfile by value instead of being
// subclassed per version. Only the 2.1 profile is implemented here; a 3.0
// profile would override Unescape and the quoted-parameter tolerance.
type VersionProfile struct {
	Name string

	// KnownTypes/KnownValues gate the "warn once" diagnostics for
	// unrecognised TYPE= / VALUE= parameter values.
	KnownTypes  map[string]bool
	KnownValues map[string]bool

	// QuotedParamsConforming is false for 2.1: double-quoted parameter
	// values are tolerated but flagged as non-conforming. The dissector does
	// not read this field; it warns on the first double quote regardless.
	QuotedParamsConforming bool

	// StructuredProperties names the properties whose value is split on
	// unescaped ';' into a tuple (ADR, ORG, N).
	StructuredProperties map[string]bool

	// Unescape post-processes a plain-text value after any QP joining.
	// Identity in 2.1; 3.0 would unescape \n, \\, \, and \;.
	Unescape func(string) string
}

// Profile21 is the vCard 2.1 profile this core is built against.
var Profile21 = VersionProfile{
	Name: "2.1",
	KnownTypes: set(
		"HOME", "WORK", "PREF", "VOICE", "FAX", "MSG", "CELL", "PAGER",
		"BBS", "MODEM", "CAR", "ISDN", "VIDEO", "INTERNET", "X400",
		"DOM", "INTL", "POSTAL", "PARCEL", "AOL", "APPLELINK", "ATTMAIL",
		"CIS", "EWORLD", "IBMMAIL", "MCIMAIL", "POWERSHARE", "PRODIGY",
		"TLX", "GIF", "JPEG", "PNG", "BMP", "WBMP",
	),
	KnownValues: set(
		"INLINE", "URL", "CONTENT-ID", "CID", "VCARD",
	),
	QuotedParamsConforming: false,
	StructuredProperties:   set("ADR", "ORG", "N"),
	Unescape:               func(s string) string { return s },
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// SplitStructured splits a decoded value on unescaped ';' into its parts. A
// backslash escapes the following ';', ':', ',' or '\\'; any other escape
// sequence is left literal, matching §4.4's structured-property path.
func SplitStructured(value string) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range value {
		if escaped {
			switch r {
			case ';', ':', ',', '\\':
				cur.WriteRune(r)
			default:
				cur.WriteByte('\\')
				cur.WriteRune(r)
			}
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case ';':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	parts = append(parts, cur.String())
	return parts
}
