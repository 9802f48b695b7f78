// Package eds models self-describing telemetry messages: the type
// dictionary that declares packet layouts, the decoder that turns raw packet
// bytes into an object tree, and the flattener that walks a tree into an
// ordered list of (path, value) leaves.
package eds

// Object is one node of a decoded telemetry message. It is a closed union:
// the only implementations are Scalar, Array and Container, and consumers
// switch exhaustively over those three. Trees are finite and acyclic by
// construction (the decoder builds them from a validated, non-recursive
// dictionary).
type Object interface {
	object()
}

// Scalar is a leaf value. Text is the canonical rendering (decimal for
// numbers, the label for enumerations, the verbatim string for strings).
// Numeric leaves also carry their value as a float64 for post-hoc analysis.
type Scalar struct {
	Text    string
	Num     float64
	Numeric bool
}

func (Scalar) object() {}

func (s Scalar) String() string { return s.Text }

// Array is an ordered, 0-indexed sequence of elements of homogeneous shape.
type Array struct {
	Elems []Object
}

func (Array) object() {}

// Entry is one named field of a Container.
type Entry struct {
	Name  string
	Value Object
}

// Container is an ordered sequence of named fields. Field order is declared
// by the dictionary and determines column order in flattened output.
type Container struct {
	Entries []Entry
}

func (Container) object() {}
