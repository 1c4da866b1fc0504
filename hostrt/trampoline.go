package hostrt

import "fmt"

// A Trampoline is a native-callable entry point bound to a selector. When
// the host dispatches to the selector, the trampoline receives the receiver
// handle and the decoded argument list and produces the return value.
type Trampoline interface {
	Invoke(rt *Runtime, receiver Handle, args []Value) Value
}

// Func types for the common arities. Using fixed-arity wrappers keeps
// adapter code free of args[i] indexing at every call site.
type (
	// Func0 is a trampoline taking no arguments.
	Func0 func(rt *Runtime, receiver Handle) Value
	// Func1 is a trampoline taking one argument.
	Func1 func(rt *Runtime, receiver Handle, a Value) Value
	// Func2 is a trampoline taking two arguments.
	Func2 func(rt *Runtime, receiver Handle, a, b Value) Value
	// Func3 is a trampoline taking three arguments.
	Func3 func(rt *Runtime, receiver Handle, a, b, c Value) Value
)

type tramp0 struct{ fn Func0 }
type tramp1 struct{ fn Func1 }
type tramp2 struct{ fn Func2 }
type tramp3 struct{ fn Func3 }

func (t tramp0) Invoke(rt *Runtime, r Handle, args []Value) Value { return t.fn(rt, r) }
func (t tramp1) Invoke(rt *Runtime, r Handle, args []Value) Value { return t.fn(rt, r, args[0]) }
func (t tramp2) Invoke(rt *Runtime, r Handle, args []Value) Value {
	return t.fn(rt, r, args[0], args[1])
}
func (t tramp3) Invoke(rt *Runtime, r Handle, args []Value) Value {
	return t.fn(rt, r, args[0], args[1], args[2])
}

// F0 wraps a zero-argument trampoline.
func F0(fn Func0) Trampoline { return tramp0{fn} }

// F1 wraps a one-argument trampoline.
func F1(fn Func1) Trampoline { return tramp1{fn} }

// F2 wraps a two-argument trampoline.
func F2(fn Func2) Trampoline { return tramp2{fn} }

// F3 wraps a three-argument trampoline.
func F3(fn Func3) Trampoline { return tramp3{fn} }

// ---------------------------------------------------------------------------
// Type encodings
// ---------------------------------------------------------------------------

// A type encoding describes the marshaling contract of a binding as a string
// of kind characters: the first character is the return kind, the rest are
// the argument kinds in order (the receiver is implicit). The contract is
// bit-exact: dispatch verifies every incoming argument against the encoding
// and panics on mismatch rather than corrupting the call.
//
// Kind characters:
//
//	v  void (return position only)
//	B  bool
//	q  int64
//	d  float64
//	*  string
//	@  instance handle
//	Q  identity word
const encodingKinds = "vBqd*@Q"

// Binding pairs a trampoline with its selector and type encoding.
type Binding struct {
	Selector int
	Name     string
	Encoding string
	Tramp    Trampoline
}

// ValidEncoding reports whether enc is well formed: non-empty, all kind
// characters recognized, and 'v' appearing only in the return position.
func ValidEncoding(enc string) bool {
	if len(enc) == 0 {
		return false
	}
	for i := 0; i < len(enc); i++ {
		c := enc[i]
		ok := false
		for j := 0; j < len(encodingKinds); j++ {
			if c == encodingKinds[j] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
		if c == 'v' && i != 0 {
			return false
		}
	}
	return true
}

// NumArgs returns the argument count an encoding describes.
func NumArgs(enc string) int {
	if len(enc) == 0 {
		return 0
	}
	return len(enc) - 1
}

// kindForChar maps an encoding character to the Value kind it requires.
// 'v' has no corresponding kind and must not be passed here.
func kindForChar(c byte) (Kind, bool) {
	switch c {
	case 'B':
		return KindBool, true
	case 'q':
		return KindInt, true
	case 'd':
		return KindFloat, true
	case '*':
		return KindString, true
	case '@':
		return KindHandle, true
	case 'Q':
		return KindIdent, true
	}
	return KindNil, false
}

// checkArgs verifies args against the encoding's argument characters.
// A nil Value is accepted anywhere a handle or identity is expected, which
// is how the host passes its root/none sentinel.
func checkArgs(b *Binding, args []Value) error {
	want := NumArgs(b.Encoding)
	if len(args) != want {
		return fmt.Errorf("selector %q: %d args, encoding %q wants %d",
			b.Name, len(args), b.Encoding, want)
	}
	for i, a := range args {
		c := b.Encoding[i+1]
		k, ok := kindForChar(c)
		if !ok {
			return fmt.Errorf("selector %q: bad encoding char %q", b.Name, c)
		}
		if a.Kind() == k {
			continue
		}
		if a.IsNil() && (k == KindHandle || k == KindIdent) {
			continue
		}
		return fmt.Errorf("selector %q: arg %d is %s, encoding %q wants %c",
			b.Name, i, a, b.Encoding, c)
	}
	return nil
}

// checkReturn verifies a trampoline result against the encoding's return
// character.
func checkReturn(b *Binding, ret Value) error {
	c := b.Encoding[0]
	if c == 'v' {
		if !ret.IsNil() {
			return fmt.Errorf("selector %q: void encoding returned %s", b.Name, ret)
		}
		return nil
	}
	k, ok := kindForChar(c)
	if !ok {
		return fmt.Errorf("selector %q: bad encoding char %q", b.Name, c)
	}
	if ret.Kind() == k || (ret.IsNil() && (k == KindHandle || k == KindIdent || k == KindString)) {
		return nil
	}
	return fmt.Errorf("selector %q: returned %s, encoding %q wants %c",
		b.Name, ret, b.Encoding, c)
}
