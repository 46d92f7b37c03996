package vcard

// fanout holds zero or more registered consumers and delivers every event
// to each in registration order. A consumer registered twice (even the
// same value) receives the event stream twice — nothing here deduplicates
// by identity, matching §8's "N copies of the same consumer" test.
//
// Errors are not part of this interface: neither EventConsumer nor
// LegacyConsumer methods return one, so §4.6's "errors thrown by consumers
// propagate" is satisfied for free by ordinary Go panics unwinding through
// Parse — the driver does not recover them.
type fanout struct {
	consumers []any
}

func (f *fanout) register(c any) {
	f.consumers = append(f.consumers, c)
}

func (f *fanout) vcardStarted() {
	for _, c := range f.consumers {
		if ec, ok := c.(EventConsumer); ok {
			ec.OnVCardStarted()
		}
	}
}

func (f *fanout) vcardEnded() {
	for _, c := range f.consumers {
		if ec, ok := c.(EventConsumer); ok {
			ec.OnVCardEnded()
		}
	}
}

func (f *fanout) entryStarted() {
	for _, c := range f.consumers {
		if ec, ok := c.(EventConsumer); ok {
			ec.OnEntryStarted()
		}
	}
}

func (f *fanout) entryEnded() {
	for _, c := range f.consumers {
		if ec, ok := c.(EventConsumer); ok {
			ec.OnEntryEnded()
		}
	}
}

// propertyCreated delivers a decoded property to every consumer: the
// coarse OnPropertyCreated call to EventConsumers, and the full
// started/group/name/param/values/ended sequence to LegacyConsumers,
// synthesized from the same Property rather than tracked separately.
func (f *fanout) propertyCreated(p Property) {
	for _, c := range f.consumers {
		if ec, ok := c.(EventConsumer); ok {
			ec.OnPropertyCreated(p)
		}
		if lc, ok := c.(LegacyConsumer); ok {
			lc.OnPropertyStarted()
			for _, g := range p.Groups {
				lc.OnPropertyGroup(g)
			}
			lc.OnPropertyName(p.Name)
			for _, param := range p.Params {
				if param.Name == "TYPE" {
					lc.OnPropertyParamType(param.Value)
				} else {
					lc.OnPropertyParamValue(param.Value)
				}
			}
			lc.OnPropertyValues(legacyValues(p))
			lc.OnPropertyEnded()
		}
	}
}
