package vcard

import (
	"errors"
	"strings"
	"testing"
)

// recorder implements EventConsumer, logging one string per event so tests
// can assert on event order without comparing full Property values.
type recorder struct {
	events []string
}

func (r *recorder) OnVCardStarted() { r.events = append(r.events, "start") }
func (r *recorder) OnVCardEnded()   { r.events = append(r.events, "end") }
func (r *recorder) OnEntryStarted() { r.events = append(r.events, "entryStart") }
func (r *recorder) OnEntryEnded()   { r.events = append(r.events, "entryEnd") }
func (r *recorder) OnPropertyCreated(p Property) {
	r.events = append(r.events, "property:"+p.Name+":"+renderValue(p))
}

func renderValue(p Property) string {
	switch p.Kind {
	case ValueList:
		return strings.Join(p.List, "|")
	case ValueBinary:
		return "<binary>"
	default:
		return p.Text
	}
}

func runParse(t *testing.T, input string, opts ...Option) *recorder {
	t.Helper()
	p := New(append([]Option{WithLogger(nullLogger{})}, opts...)...)
	rec := &recorder{}
	p.AddConsumer(rec)
	if err := p.Parse(strings.NewReader(input)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return rec
}

func TestScenarioBasicCard(t *testing.T) {
	rec := runParse(t, "BEGIN:VCARD\r\nVERSION:2.1\r\nN:Doe;John;;;\r\nEND:VCARD\r\n")
	want := []string{
		"start", "entryStart",
		"property:VERSION:2.1",
		"property:N:Doe|John|||",
		"entryEnd", "end",
	}
	assertEvents(t, rec.events, want)
}

func TestScenarioCaseInsensitiveBeginEnd(t *testing.T) {
	rec := runParse(t, "begin:vcard\r\nN:A\r\nend:vcard\r\n")
	want := []string{"start", "entryStart", "property:N:A", "entryEnd", "end"}
	assertEvents(t, rec.events, want)
}

func TestScenarioNestedEntry(t *testing.T) {
	rec := runParse(t, "BEGIN:VCARD\r\nN:test1\r\nBEGIN:VCARD\r\nN:test2\r\nEND:VCARD\r\nTEL:1\r\nEND:VCARD\r\n")
	want := []string{
		"start", "entryStart",
		"property:N:test1",
		"entryStart", "property:N:test2", "entryEnd",
		"property:TEL:1",
		"entryEnd", "end",
	}
	assertEvents(t, rec.events, want)
}

func TestScenarioQuotedPrintableContinuation(t *testing.T) {
	const input = "BEGIN:VCARD\r\nNOTE;ENCODING=QUOTED-PRINTABLE:Now's the time =\r\nfor all folk\r\nEND:VCARD\r\n"
	rec := runParse(t, input)
	want := []string{
		"start", "entryStart",
		"property:NOTE:Now's the time =\r\nfor all folk",
		"entryEnd", "end",
	}
	assertEvents(t, rec.events, want)
}

func TestScenarioFoldedValue(t *testing.T) {
	// The single leading space on the continuation line is the RFC 2425
	// fold marker and is stripped on unfolding; a second space is the
	// actual content separating the two halves of the value.
	rec := runParse(t, "BEGIN:VCARD\r\nEMAIL:\"Omega\"\r\n  <omega@example.com>\r\nEND:VCARD\r\n")
	want := []string{
		"start", "entryStart",
		`property:EMAIL:"Omega" <omega@example.com>`,
		"entryEnd", "end",
	}
	assertEvents(t, rec.events, want)
}

func TestScenarioAgentRejection(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	err := p.Parse(strings.NewReader("BEGIN:VCARD\r\nAGENT:BEGIN:VCARD\r\nEND:VCARD\r\n"))
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrAgentNotSupported {
		t.Fatalf("expected ErrAgentNotSupported, got %v", err)
	}
}

func TestAgentEmptyBodyIgnoredEndToEnd(t *testing.T) {
	rec := runParse(t, "BEGIN:VCARD\r\nAGENT:\r\nEND:VCARD\r\n")
	want := []string{"start", "entryStart", "entryEnd", "end"}
	assertEvents(t, rec.events, want)
}

func TestEntryBalanceInvariant(t *testing.T) {
	rec := runParse(t, "BEGIN:VCARD\r\nN:a\r\nBEGIN:VCARD\r\nN:b\r\nEND:VCARD\r\nEND:VCARD\r\n")
	starts, ends := 0, 0
	for _, e := range rec.events {
		if e == "entryStart" {
			starts++
		}
		if e == "entryEnd" {
			ends++
		}
	}
	if starts != ends || starts != 2 {
		t.Fatalf("expected balanced entryStart/entryEnd counts of 2, got %d/%d", starts, ends)
	}
}

func TestVCardStartedAndEndedBracketEverything(t *testing.T) {
	rec := runParse(t, "BEGIN:VCARD\r\nN:a\r\nEND:VCARD\r\n")
	if rec.events[0] != "start" {
		t.Fatalf("expected first event to be start, got %v", rec.events)
	}
	if rec.events[len(rec.events)-1] != "end" {
		t.Fatalf("expected last event to be end, got %v", rec.events)
	}
}

func TestIdempotentReparse(t *testing.T) {
	const input = "BEGIN:VCARD\r\nN:a\r\nEND:VCARD\r\n"
	first := runParse(t, input)
	second := runParse(t, input)
	assertEvents(t, first.events, second.events)
}

func TestNCopiesOfSameConsumerEachGetFullStream(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	rec := &recorder{}
	p.AddConsumer(rec)
	p.AddConsumer(rec)
	if err := p.Parse(strings.NewReader("BEGIN:VCARD\r\nN:a\r\nEND:VCARD\r\n")); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{
		"start", "start",
		"entryStart", "entryStart",
		"property:N:a", "property:N:a",
		"entryEnd", "entryEnd",
		"end", "end",
	}
	assertEvents(t, rec.events, want)
}

func TestMissingBeginFails(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	err := p.Parse(strings.NewReader("N:a\r\n"))
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrMissingBegin {
		t.Fatalf("expected ErrMissingBegin, got %v", err)
	}
}

func TestLenientBeginReturnsCleanlyWithoutBegin(t *testing.T) {
	p := New(WithLogger(nullLogger{}), WithLenientBegin())
	if err := p.Parse(strings.NewReader("N:a\r\n")); err != nil {
		t.Fatalf("expected lenient mode to tolerate a missing BEGIN, got %v", err)
	}
}

func TestUnknownBeginOrEndFails(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	err := p.Parse(strings.NewReader("BEGIN:VCARD\r\nBEGIN:BOGUS\r\nEND:VCARD\r\n"))
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrUnknownBeginOrEnd {
		t.Fatalf("expected ErrUnknownBeginOrEnd, got %v", err)
	}
}

func TestUnexpectedEOFBeforeEnd(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	err := p.Parse(strings.NewReader("BEGIN:VCARD\r\nN:a\r\n"))
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestIncompatibleVersionFails(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	err := p.Parse(strings.NewReader("BEGIN:VCARD\r\nVERSION:3.0\r\nEND:VCARD\r\n"))
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrIncompatibleVersion {
		t.Fatalf("expected ErrIncompatibleVersion, got %v", err)
	}
}

func TestInvalidCommentIsSkippedNotFatal(t *testing.T) {
	rec := runParse(t, "BEGIN:VCARD\r\n# a comment\r\nN:a\r\nEND:VCARD\r\n")
	want := []string{"start", "entryStart", "property:N:a", "entryEnd", "end"}
	assertEvents(t, rec.events, want)
}

func TestCancelStopsBetweenTopLevelEntries(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	rec := &recorder{}
	p.AddConsumer(rec)
	p.Cancel()
	if err := p.Parse(strings.NewReader("BEGIN:VCARD\r\nN:a\r\nEND:VCARD\r\n")); err != nil {
		t.Fatalf("Parse after Cancel: %v", err)
	}
	// vcardStarted/vcardEnded always fire in pairs even when cancelled
	// before the loop does any work (§5: "no onVCardEnded is suppressed").
	assertEvents(t, rec.events, []string{"start", "end"})
}

// erroringReader yields n bytes of payload, then a fixed error on the next
// Read instead of a clean io.EOF.
type erroringReader struct {
	payload []byte
	err     error
}

func (r *erroringReader) Read(p []byte) (int, error) {
	if len(r.payload) == 0 {
		return 0, r.err
	}
	n := copy(p, r.payload)
	r.payload = r.payload[n:]
	return n, nil
}

var errBrokenConnection = errors.New("driver_test: simulated I/O failure")

func TestIoFailureBetweenEntries(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	r := &erroringReader{payload: []byte("BEGIN:VCARD\r\nN:a\r\nEND:VCARD\r\n"), err: errBrokenConnection}
	err := p.Parse(r)
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrIoFailure {
		t.Fatalf("expected ErrIoFailure, got %v", err)
	}
}

func TestIoFailureMidEntry(t *testing.T) {
	p := New(WithLogger(nullLogger{}))
	r := &erroringReader{payload: []byte("BEGIN:VCARD\r\nN:a\r\n"), err: errBrokenConnection}
	err := p.Parse(r)
	pe, ok := err.(*ParseError)
	if !ok || pe.Err != ErrIoFailure {
		t.Fatalf("expected ErrIoFailure, got %v", err)
	}
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("event count mismatch:\n got:  %v\n want: %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d mismatch:\n got:  %v\n want: %v", i, got, want)
		}
	}
}
