package vcard

import "testing"

// legacyRecorder implements only LegacyConsumer, to verify the fanout
// synthesizes the fine-grained sequence from an already-decoded Property.
type legacyRecorder struct {
	calls []string
}

func (l *legacyRecorder) OnPropertyStarted()            { l.calls = append(l.calls, "started") }
func (l *legacyRecorder) OnPropertyGroup(group string)  { l.calls = append(l.calls, "group:"+group) }
func (l *legacyRecorder) OnPropertyName(name string)    { l.calls = append(l.calls, "name:"+name) }
func (l *legacyRecorder) OnPropertyParamType(typ string) { l.calls = append(l.calls, "type:"+typ) }
func (l *legacyRecorder) OnPropertyParamValue(v string) { l.calls = append(l.calls, "paramValue:"+v) }
func (l *legacyRecorder) OnPropertyValues(values []string) {
	l.calls = append(l.calls, "values")
	for _, v := range values {
		l.calls = append(l.calls, "value:"+v)
	}
}
func (l *legacyRecorder) OnPropertyEnded() { l.calls = append(l.calls, "ended") }

func TestFanoutSynthesizesLegacySequence(t *testing.T) {
	var f fanout
	lr := &legacyRecorder{}
	f.register(lr)

	f.propertyCreated(Property{
		Name:   "TEL",
		Groups: []string{"item1"},
		Params: []Param{{Name: "TYPE", Value: "HOME"}, {Name: "CHARSET", Value: "UTF-8"}},
		Kind:   ValueSingle,
		Text:   "555-1212",
	})

	want := []string{
		"started", "group:item1", "name:TEL",
		"type:HOME", "paramValue:UTF-8",
		"values", "value:555-1212",
		"ended",
	}
	if len(lr.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", lr.calls, want)
	}
	for i := range want {
		if lr.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, lr.calls[i], want[i])
		}
	}
}

func TestFanoutDeliversToBothInterfacesOnSameValue(t *testing.T) {
	type both struct {
		*recorder
		*legacyRecorder
	}
	b := &both{recorder: &recorder{}, legacyRecorder: &legacyRecorder{}}

	var f fanout
	f.register(b)
	f.vcardStarted()
	f.propertyCreated(Property{Name: "FN", Kind: ValueSingle, Text: "Jane"})
	f.vcardEnded()

	if len(b.recorder.events) != 3 {
		t.Fatalf("expected 3 EventConsumer events, got %v", b.recorder.events)
	}
	if len(b.legacyRecorder.calls) == 0 {
		t.Fatal("expected the LegacyConsumer side to also fire")
	}
}

func TestLegacyValuesBase64Kind(t *testing.T) {
	values := legacyValues(Property{Kind: ValueBinary, Binary: []byte("hi")})
	if len(values) != 1 || values[0] != "aGk=" {
		t.Fatalf("legacyValues(binary) = %v, want [aGk=]", values)
	}
}

func TestLegacyValuesListKind(t *testing.T) {
	values := legacyValues(Property{Kind: ValueList, List: []string{"a", "b"}})
	if len(values) != 2 || values[0] != "a" || values[1] != "b" {
		t.Fatalf("legacyValues(list) = %v", values)
	}
}
