package vcard

import "strings"

// applyParams runs every raw parameter token dissect() collected through the
// classification and validation rules of §4.3, appending finished Params to
// rp.params and updating st.currentEncoding when an ENCODING parameter is
// seen. It stops and returns an error on the first structurally invalid
// parameter (UnknownEncoding, InvalidLanguage, UnknownParam); diagnostics
// for merely suspicious-but-tolerated values go through diag instead.
func applyParams(rp *rawProperty, st *state, profile VersionProfile, diag Logger) error {
	for _, raw := range rp.paramToks {
		if err := applyOneParam(rp, raw, st, profile, diag); err != nil {
			return &ParseError{Line: rp.lineNumber, Err: err}
		}
	}
	return nil
}

func applyOneParam(rp *rawProperty, raw string, st *state, profile VersionProfile, diag Logger) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	idx := strings.IndexByte(raw, '=')
	if idx < 0 {
		// 2.1 shorthand: a bare token is an unnamed TYPE value.
		return handleType(rp, raw, st, profile, diag)
	}

	name := strings.ToUpper(strings.TrimSpace(raw[:idx]))
	value := unquote(strings.TrimSpace(raw[idx+1:]))

	switch name {
	case "TYPE":
		return handleType(rp, value, st, profile, diag)
	case "VALUE":
		return handleValue(rp, value, st, profile, diag)
	case "ENCODING":
		enc, ok := parseEncoding(value)
		if !ok {
			return ErrUnknownEncoding
		}
		rp.params = append(rp.params, Param{Name: "ENCODING", Value: value})
		st.currentEncoding = enc
		return nil
	case "CHARSET":
		rp.params = append(rp.params, Param{Name: "CHARSET", Value: value})
		return nil
	case "LANGUAGE":
		if !isValidLanguage(value) {
			return ErrInvalidLanguage
		}
		rp.params = append(rp.params, Param{Name: "LANGUAGE", Value: value})
		return nil
	default:
		if strings.HasPrefix(name, "X-") {
			rp.params = append(rp.params, Param{Name: name, Value: value})
			return nil
		}
		return ErrUnknownParam
	}
}

func handleType(rp *rawProperty, value string, st *state, profile VersionProfile, diag Logger) error {
	rp.params = append(rp.params, Param{Name: "TYPE", Value: value})
	upper := strings.ToUpper(value)
	if !profile.KnownTypes[upper] && !strings.HasPrefix(upper, "X-") {
		if !st.unknownTypeSeen[upper] {
			st.unknownTypeSeen[upper] = true
			diag.Warnf("line %d: unrecognised TYPE value %q", rp.lineNumber, value)
		}
	}
	return nil
}

func handleValue(rp *rawProperty, value string, st *state, profile VersionProfile, diag Logger) error {
	rp.params = append(rp.params, Param{Name: "VALUE", Value: value})
	upper := strings.ToUpper(value)
	if !profile.KnownValues[upper] && !strings.HasPrefix(upper, "X-") {
		if !st.unknownValueSeen[upper] {
			st.unknownValueSeen[upper] = true
			diag.Warnf("line %d: unrecognised VALUE value %q", rp.lineNumber, value)
		}
	}
	return nil
}

// parseEncoding maps an ENCODING parameter value to the internal Encoding
// enum. "B" is a long-standing alias for BASE64.
func parseEncoding(value string) (Encoding, bool) {
	switch strings.ToUpper(value) {
	case "7BIT":
		return Encoding7Bit, true
	case "8BIT":
		return Encoding8Bit, true
	case "QUOTED-PRINTABLE":
		return EncodingQuotedPrintable, true
	case "BASE64", "B":
		return EncodingBase64, true
	default:
		if strings.HasPrefix(strings.ToUpper(value), "X-") {
			return EncodingX, true
		}
		return 0, false
	}
}

// isValidLanguage requires the RFC 1766-ish "a-b" form: one or more ASCII
// letters, a hyphen, one or more ASCII letters.
func isValidLanguage(value string) bool {
	idx := strings.IndexByte(value, '-')
	if idx <= 0 || idx == len(value)-1 {
		return false
	}
	return isASCIILetters(value[:idx]) && isASCIILetters(value[idx+1:])
}

func isASCIILetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
