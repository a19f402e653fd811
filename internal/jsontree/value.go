package jsontree

// Kind identifies which variant of the JSON sum type a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single object entry. Objects are slices of members so that
// insertion order survives a parse/serialize round trip.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	text    string // string contents, or the literal text of a number
	items   []Value
	members []Member
}

func NullValue() Value { return Value{} }

func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewNumber wraps a number literal. The literal is kept verbatim so that
// serialization does not reformat it.
func NewNumber(literal string) Value { return Value{kind: KindNumber, text: literal} }

func NewString(s string) Value { return Value{kind: KindString, text: s} }

// NewArray builds an array value. The items slice is copied.
func NewArray(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, items: cp}
}

// NewObject builds an object value from members in the given order.
// The members slice is copied.
func NewObject(members ...Member) Value {
	cp := make([]Member, len(members))
	copy(cp, members)
	return Value{kind: KindObject, members: cp}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; false for non-bool values.
func (v Value) AsBool() bool { return v.b }

// Text returns the string contents of a string value or the literal of a
// number value. It is empty for every other kind.
func (v Value) Text() string { return v.text }

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Members returns a copy of the object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Member, len(v.members))
	copy(out, v.members)
	return out
}

// Index returns the i-th array item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Get returns the value stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether a and b are structurally identical, including
// object key order and number literals.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.text == b.text
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
