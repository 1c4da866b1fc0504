package hostrt

import "fmt"

// Value is a tagged union carrying one argument or return value across a
// dispatch boundary.
//
// Protocol dispatch runs at UI event rate, so a plain struct is used rather
// than a packed representation. Every Value has exactly one kind; accessors
// for the wrong kind return the zero value of their type.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	h    Handle
	id   uint64
}

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindHandle
	KindIdent
)

// Nil is the zero Value.
var Nil = Value{}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Str wraps a string.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Ref wraps an instance handle.
func Ref(h Handle) Value { return Value{kind: KindHandle, h: h} }

// Ident wraps an opaque identity word (item identities, tags).
func Ident(id uint64) Value { return Value{kind: KindIdent, id: id} }

// Kind returns the variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is the nil variant.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean payload, or false for other kinds.
func (v Value) Bool() bool {
	if v.kind != KindBool {
		return false
	}
	return v.b
}

// Int returns the integer payload, or 0 for other kinds.
func (v Value) Int() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

// Float returns the float payload, or 0 for other kinds.
func (v Value) Float() float64 {
	if v.kind != KindFloat {
		return 0
	}
	return v.f
}

// Str returns the string payload, or "" for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Ref returns the handle payload, or the zero Handle for other kinds.
func (v Value) Ref() Handle {
	if v.kind != KindHandle {
		return 0
	}
	return v.h
}

// Ident returns the identity payload, or 0 for other kinds.
func (v Value) Ident() uint64 {
	if v.kind != KindIdent {
		return 0
	}
	return v.id
}

// Equal reports structural equality. Identities compare by their encoded
// word, which is what the host's expand/selection bookkeeping relies on.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindHandle:
		return v.h == o.h
	case KindIdent:
		return v.id == o.id
	}
	return false
}

// String implements fmt.Stringer for debugging.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindHandle:
		return fmt.Sprintf("handle(%#x)", uint64(v.h))
	case KindIdent:
		return fmt.Sprintf("ident(%#x)", v.id)
	}
	return "?"
}
