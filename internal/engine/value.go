package engine

// ValueKind discriminates the variants of a decoded metadata Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns the lowercase name of the kind, for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return "invalid"
}

// Value is a closed tagged variant over the shapes a metadata block can
// contain. Mappings remember insertion order so a document re-encodes in the
// order its author wrote it.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Str    string
	Seq    []Value
	Map    []MapEntry
}

// MapEntry is one key/value pair of an order-preserving mapping.
type MapEntry struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NumberValue wraps a number.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// SequenceValue builds an ordered sequence.
func SequenceValue(items ...Value) Value {
	return Value{Kind: KindSequence, Seq: items}
}

// MappingValue builds an insertion-ordered mapping.
func MappingValue(entries ...MapEntry) Value {
	return Value{Kind: KindMapping, Map: entries}
}

// Get looks up a key in a mapping value. It reports false when the value is
// not a mapping or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMapping {
		return Value{}, false
	}
	for _, entry := range v.Map {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// HasKey reports whether a mapping value contains the key.
func (v Value) HasKey(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Equal performs a deep, order-sensitive comparison.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindString:
		return v.Str == o.Str
	case KindSequence:
		if len(v.Seq) != len(o.Seq) {
			return false
		}
		for i := range v.Seq {
			if !v.Seq[i].Equal(o.Seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.Map) != len(o.Map) {
			return false
		}
		for i := range v.Map {
			if v.Map[i].Key != o.Map[i].Key || !v.Map[i].Value.Equal(o.Map[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy that shares no slices with the receiver.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindSequence:
		if v.Seq == nil {
			return Value{Kind: KindSequence}
		}
		seq := make([]Value, len(v.Seq))
		for i := range v.Seq {
			seq[i] = v.Seq[i].Clone()
		}
		return Value{Kind: KindSequence, Seq: seq}
	case KindMapping:
		if v.Map == nil {
			return Value{Kind: KindMapping}
		}
		entries := make([]MapEntry, len(v.Map))
		for i := range v.Map {
			entries[i] = MapEntry{Key: v.Map[i].Key, Value: v.Map[i].Value.Clone()}
		}
		return Value{Kind: KindMapping, Map: entries}
	default:
		return v
	}
}

// withKey returns a copy of a mapping with one key replaced in place, or
// appended when absent. Non-mapping receivers are returned unchanged.
func (v Value) withKey(key string, val Value) Value {
	if v.Kind != KindMapping {
		return v
	}
	entries := make([]MapEntry, len(v.Map))
	copy(entries, v.Map)
	for i := range entries {
		if entries[i].Key == key {
			entries[i].Value = val
			return Value{Kind: KindMapping, Map: entries}
		}
	}
	entries = append(entries, MapEntry{Key: key, Value: val})
	return Value{Kind: KindMapping, Map: entries}
}
