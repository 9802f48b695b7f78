package eds

import "fmt"

// Field is one leaf of a flattened message: the dotted/bracketed path from
// the message root and the leaf's rendered value.
type Field struct {
	Path    string
	Value   string
	Num     float64
	Numeric bool
}

// Flatten walks obj depth-first in pre-order and returns one Field per leaf
// scalar. Container descent appends ".name" to the path, array descent
// appends "[i]" with indices ascending; base is the path of the root,
// conventionally the message type name.
//
// The walk branches only on structural kind, never on value content, so for
// a fixed message type the path sequence is identical across instances. That
// stability is what makes a single CSV header row valid for a whole file.
func Flatten(obj Object, base string) []Field {
	return appendFields(nil, obj, base)
}

func appendFields(out []Field, obj Object, path string) []Field {
	switch o := obj.(type) {
	case Scalar:
		return append(out, Field{Path: path, Value: o.Text, Num: o.Num, Numeric: o.Numeric})
	case Array:
		for i, elem := range o.Elems {
			out = appendFields(out, elem, fmt.Sprintf("%s[%d]", path, i))
		}
		return out
	case Container:
		for _, e := range o.Entries {
			out = appendFields(out, e.Value, path+"."+e.Name)
		}
		return out
	default:
		// Object is a closed union; a fourth implementation is a bug here,
		// not recoverable input.
		panic(fmt.Sprintf("eds: unknown object type %T", obj))
	}
}

// Paths returns just the path column of a flattened record.
func Paths(fields []Field) []string {
	paths := make([]string, len(fields))
	for i, f := range fields {
		paths[i] = f.Path
	}
	return paths
}

// Values returns just the rendered value column of a flattened record.
func Values(fields []Field) []string {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	return values
}
