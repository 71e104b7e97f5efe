// Package value defines Bloch's runtime value model (spec §3 "Value model").
package value

import "fmt"

// Kind tags the runtime type of a Value.
type Kind int

const (
	IntKind Kind = iota
	LongKind
	FloatKind
	BoolKind
	BitKind
	CharKind
	StringKind
	QubitKind
	ArrayKind
	ObjectKind
	NullKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "int"
	case LongKind:
		return "long"
	case FloatKind:
		return "float"
	case BoolKind:
		return "boolean"
	case BitKind:
		return "bit"
	case CharKind:
		return "char"
	case StringKind:
		return "string"
	case QubitKind:
		return "qubit"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	case NullKind:
		return "null"
	}
	return "unknown"
}

// Value is any Bloch runtime value.
type Value interface {
	Kind() Kind
}

type Int int64

func (Int) Kind() Kind { return IntKind }

type Long int64

func (Long) Kind() Kind { return LongKind }

type Float float64

func (Float) Kind() Kind { return FloatKind }

type Bool bool

func (Bool) Kind() Kind { return BoolKind }

// Bit is always 0 or 1.
type Bit uint8

func (Bit) Kind() Kind { return BitKind }

type Char rune

func (Char) Kind() Kind { return CharKind }

type String string

func (String) Kind() Kind { return StringKind }

// Qubit is a handle into a Simulator's statevector: the qubit's index.
type Qubit struct {
	Index int
}

func (Qubit) Kind() Kind { return QubitKind }

// ElemKind is the declared element kind of an Array, used by echo and by
// array-literal type checking; it mirrors Kind but is kept distinct so an
// Array can describe an element kind (e.g. a class reference) without
// embedding a recursive Value.
type ElemKind = Kind

// Array is a fixed-identity, zero-indexed, mutable sequence.
type Array struct {
	Elem     ElemKind
	ClassRef string // element's class name, when Elem == ObjectKind
	Elements []Value
}

func (*Array) Kind() Kind { return ArrayKind }

// ObjectID is a stable heap identity.
type ObjectID uint64

// ObjectRef is a reference to a heap object, or null.
type ObjectRef struct {
	ID    ObjectID
	Class string
	Null  bool
}

func (ObjectRef) Kind() Kind { return ObjectKind }

// Null constructs the null object reference.
func Null() ObjectRef { return ObjectRef{Null: true} }

// Zero returns the zero value for a primitive kind (spec §4.5.2 step 1).
// It panics for ArrayKind and ObjectKind, whose zero values need extra
// context (element kind, class name) that the caller must supply.
func Zero(k Kind) Value {
	switch k {
	case IntKind:
		return Int(0)
	case LongKind:
		return Long(0)
	case FloatKind:
		return Float(0)
	case BoolKind:
		return Bool(false)
	case BitKind:
		return Bit(0)
	case CharKind:
		return Char(0)
	case StringKind:
		return String("")
	case QubitKind:
		return Qubit{Index: -1}
	case ObjectKind:
		return Null()
	}
	panic(fmt.Sprintf("value: no context-free zero value for kind %s", k))
}

// Echo renders v the way the evaluator's echo(v) builtin does (spec
// §4.5.7): integers/longs as decimal digits, floats with at least one
// fractional digit, booleans as true/false, bits as 0/1, char/string
// verbatim, arrays as {e1, e2, ...}.
func Echo(v Value) string {
	switch x := v.(type) {
	case Int:
		return fmt.Sprintf("%d", int64(x))
	case Long:
		return fmt.Sprintf("%d", int64(x))
	case Float:
		s := fmt.Sprintf("%g", float64(x))
		if !containsDotOrExp(s) {
			s += ".0"
		}
		return s
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Bit:
		return fmt.Sprintf("%d", uint8(x))
	case Char:
		return string(rune(x))
	case String:
		return string(x)
	case *Array:
		out := "{"
		for i, e := range x.Elements {
			if i > 0 {
				out += ", "
			}
			out += Echo(e)
		}
		return out + "}"
	case ObjectRef:
		if x.Null {
			return "null"
		}
		return fmt.Sprintf("%s#%d", x.Class, x.ID)
	case Qubit:
		return fmt.Sprintf("qubit#%d", x.Index)
	}
	return fmt.Sprintf("%v", v)
}

func containsDotOrExp(s string) bool {
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}
