package vcard

import "encoding/base64"

// EventConsumer is the coarse consumer interface: one call per entry
// boundary and one call per successfully decoded property. Most consumers
// should implement only this.
type EventConsumer interface {
	OnVCardStarted()
	OnVCardEnded()
	OnEntryStarted()
	OnEntryEnded()
	OnPropertyCreated(Property)
}

// LegacyConsumer is the fine-grained interface described in §6, kept for
// consumers ported from the embedded-byte and VNode-style interpreters it
// was modelled on. The driver implements it atop the same decoded Property
// an EventConsumer would receive — see fanout.propertyCreated — so a
// LegacyConsumer never has to be fed piecemeal state the driver itself
// doesn't already have in hand.
type LegacyConsumer interface {
	OnPropertyStarted()
	OnPropertyGroup(group string)
	OnPropertyName(name string)
	OnPropertyParamType(typ string)
	OnPropertyParamValue(value string)
	OnPropertyValues(values []string)
	OnPropertyEnded()
}

// Both is satisfied by a consumer implementing both interfaces; the fanout
// uses plain type assertions rather than requiring this, but it documents
// the intended combined shape.
type Both interface {
	EventConsumer
	LegacyConsumer
}

// legacyValues renders a decoded Property's value in the shape the legacy
// OnPropertyValues call expects: a plain string slice. BASE64 values are
// represented as a single base64-text element, since the legacy interface
// predates binary properties.
func legacyValues(p Property) []string {
	switch p.Kind {
	case ValueList:
		return p.List
	case ValueBinary:
		return []string{base64.StdEncoding.EncodeToString(p.Binary)}
	default:
		return []string{p.Text}
	}
}
