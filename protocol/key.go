package protocol

// Key names a slot inside a composite: a map/table key is an interned
// short string, a sequence key is the ElementID of the element being
// addressed. ParseKey tries ElementID first, so a string in Lamport
// syntax or equal to "_head" always reads back as a sequence key; a map
// key of that form does not round-trip through String and ParseKey.
type Key struct {
	isElement bool
	mapKey    string
	elementID ElementID
}

// MapKeyOf builds a map/table key.
func MapKeyOf(k string) Key {
	return Key{mapKey: k}
}

// ElementKeyOf builds a sequence key from an element id.
func ElementKeyOf(e ElementID) Key {
	return Key{isElement: true, elementID: e}
}

// IsElement reports whether this key addresses a sequence position.
func (k Key) IsElement() bool { return k.isElement }

// MapKey returns the map key and true, or "" and false if this is a
// sequence key.
func (k Key) MapKey() (string, bool) {
	if k.isElement {
		return "", false
	}
	return k.mapKey, true
}

// ElementID returns the sequence key and true, or the zero ElementID and
// false if this is a map key.
func (k Key) ElementID() (ElementID, bool) {
	if !k.isElement {
		return ElementID{}, false
	}
	return k.elementID, true
}

// String renders the key in its serialized form.
func (k Key) String() string {
	if k.isElement {
		return k.elementID.String()
	}
	return k.mapKey
}

// ParseKey implements the deserialization rule from the wire format: a
// string that parses as an ElementID (either "_head" or Lamport syntax)
// is a sequence key, otherwise it is a map key.
func ParseKey(s string) Key {
	if e, ok := ParseElementID(s); ok {
		return ElementKeyOf(e)
	}
	return MapKeyOf(s)
}
