package contact

import (
	"bytes"
	"io"
	"mime/quotedprintable"
	"strings"

	"github.com/Durelius/vcard21/internal/avl"
	"github.com/Durelius/vcard21/internal/vcard"
)

// Aggregator implements vcard.EventConsumer, collecting one Contact per
// top-level BEGIN/END entry (a nested entry adds no Contact of its own) and
// indexing the finished contacts by name in an
// avl.Tree, the same role the event map played for the ics importer this
// package is adapted from: build up fields across a run of properties,
// then commit the finished record to the tree at the closing boundary.
//
// Entries nested inside an AGENT line are events we don't track here — the
// parser never emits AGENT's nested BEGIN/END to us in the first place
// (§4.4 rejects AGENT content outright), so Aggregator only ever sees
// top-level and explicitly-nested vCard entries.
type Aggregator struct {
	tree    *avl.Tree[string, *Contact]
	current *Contact
	depth   int
}

// NewAggregator returns an empty Aggregator ready to register with a
// vcard.Parser.
func NewAggregator() *Aggregator {
	return &Aggregator{tree: avl.New[string, *Contact]()}
}

func (a *Aggregator) OnVCardStarted() {}
func (a *Aggregator) OnVCardEnded()   {}

func (a *Aggregator) OnEntryStarted() {
	a.depth++
	if a.depth == 1 {
		a.current = &Contact{}
	}
}

func (a *Aggregator) OnEntryEnded() {
	a.depth--
	if a.depth == 0 && a.current != nil {
		c := a.current
		a.current = nil
		a.tree.Insert(sortKey(c.FamilyName, c.GivenName), c)
	}
}

// OnPropertyCreated folds one decoded property into the contact currently
// under construction. Properties belonging to an entry nested below the
// outermost BEGIN:VCARD are skipped: AGENT's nested card is never surfaced
// here at all (§4.4 rejects it outright), and any other nesting a producer
// introduces describes a second, distinct person this flat per-record view
// has no field for, so only the outer entry's own properties are kept.
func (a *Aggregator) OnPropertyCreated(p vcard.Property) {
	if a.current == nil || a.depth != 1 {
		return
	}
	switch strings.ToUpper(p.Name) {
	case "N":
		if len(p.List) > 0 {
			a.current.FamilyName = p.List[0]
		}
		if len(p.List) > 1 {
			a.current.GivenName = p.List[1]
		}
	case "FN":
		a.current.FormattedName = decodedText(p)
	case "ORG":
		if len(p.List) > 0 {
			a.current.Organization = p.List[0]
		}
	case "TITLE":
		a.current.Title = decodedText(p)
	case "EMAIL":
		a.current.Emails = append(a.current.Emails, decodedText(p))
	case "TEL":
		a.current.Phones = append(a.current.Phones, decodedText(p))
	case "ADR":
		a.current.Address = strings.Join(p.List, ", ")
	case "NOTE":
		a.current.Note = decodedText(p)
	}
}

// decodedText returns a property's text value, running it through a
// quoted-printable decode pass first when ENCODING=QUOTED-PRINTABLE was in
// effect: the parser only joins QP continuation lines and leaves the bytes
// themselves undecoded (§4.4 — that last step is explicitly a consumer
// concern, not the core parser's). The decoded bytes are taken as UTF-8 when
// the property declares CHARSET=UTF-8, and as ISO-8859-1 otherwise, the same
// way the parser's line reader treats raw bytes.
func decodedText(p vcard.Property) string {
	if p.Encoded != vcard.EncodingQuotedPrintable {
		return p.Text
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader([]byte(p.Text))))
	if err != nil {
		return p.Text
	}
	if cs, ok := p.Param("CHARSET"); ok && strings.EqualFold(cs, "UTF-8") {
		return string(decoded)
	}
	runes := make([]rune, len(decoded))
	for i, b := range decoded {
		runes[i] = rune(b)
	}
	return string(runes)
}

// Contacts returns every aggregated contact in ascending name order.
func (a *Aggregator) Contacts() []*Contact {
	return a.tree.All()
}

// Len reports how many contacts have been committed so far.
func (a *Aggregator) Len() int {
	return a.tree.Size()
}
