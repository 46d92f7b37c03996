package vcard

import "strings"

// knownPropertyNames is the vCard 2.1 property vocabulary. It is consulted
// only by the BASE64 termination heuristic in decode.go: a lookahead line
// whose text before ':' names one of these is treated as the start of the
// next property even when the producer forgot the blank line BASE64 is
// supposed to end with.
var knownPropertyNames = set(
	"BEGIN", "END", "VERSION", "N", "FN", "NICKNAME", "PHOTO", "BDAY",
	"ADR", "LABEL", "TEL", "EMAIL", "MAILER", "TZ", "GEO", "TITLE",
	"ROLE", "LOGO", "AGENT", "ORG", "CATEGORIES", "NOTE", "PRODID",
	"REV", "SORT-STRING", "SOUND", "UID", "URL", "CLASS", "KEY",
	"SOURCE", "NAME",
)

// looksLikeKnownPropertyLine reports whether line's text up to (but not
// including) the first ':' names a known vCard property, ignoring any
// leading group prefix.
func looksLikeKnownPropertyLine(line string) bool {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return false
	}
	head := line[:idx]
	if semi := strings.IndexByte(head, ';'); semi >= 0 {
		head = head[:semi]
	}
	if dot := strings.LastIndexByte(head, '.'); dot >= 0 {
		head = head[dot+1:]
	}
	return knownPropertyNames[strings.ToUpper(strings.TrimSpace(head))]
}
