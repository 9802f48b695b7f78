package eds

import "fmt"

// Kind classifies a type descriptor.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindFloat
	KindEnum
	KindBool
	KindString
	KindArray
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindEnum:
		return "enum"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindContainer:
		return "container"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// StructField is one declared field of a container type. Declaration order
// is significant: it fixes both the byte layout and the flattened column
// order.
type StructField struct {
	Name string
	Type *Type
}

// Type describes the packed layout of a telemetry value.
//
// Scalars (uint, int, float, enum, bool, string) occupy Size bytes. Arrays
// are Count packed elements of Elem. Containers are their fields packed
// back-to-back with no padding, matching the packed encoding of EDS-described
// messages.
type Type struct {
	Name   string
	Kind   Kind
	Size   int               // scalar kinds: encoded size in bytes
	Elem   *Type             // KindArray
	Count  int               // KindArray
	Fields []StructField     // KindContainer
	Labels map[uint64]string // KindEnum: value -> label
}

// ByteSize returns the packed size of one value of this type.
func (t *Type) ByteSize() int {
	switch t.Kind {
	case KindArray:
		return t.Count * t.Elem.ByteSize()
	case KindContainer:
		total := 0
		for _, f := range t.Fields {
			total += f.Type.ByteSize()
		}
		return total
	default:
		return t.Size
	}
}

// validate checks that the descriptor is well formed. Containers and arrays
// are assumed to reference already-validated types; the dictionary loader
// guarantees that by validating every type it resolves.
func (t *Type) validate() error {
	switch t.Kind {
	case KindUint, KindInt:
		switch t.Size {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("type %q: invalid %s size %d", t.Name, t.Kind, t.Size)
		}
	case KindFloat:
		if t.Size != 4 && t.Size != 8 {
			return fmt.Errorf("type %q: invalid float size %d", t.Name, t.Size)
		}
	case KindEnum:
		switch t.Size {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("type %q: invalid enum size %d", t.Name, t.Size)
		}
	case KindBool:
		if t.Size != 1 {
			return fmt.Errorf("type %q: bool must be 1 byte, got %d", t.Name, t.Size)
		}
	case KindString:
		if t.Size <= 0 {
			return fmt.Errorf("type %q: string size must be positive, got %d", t.Name, t.Size)
		}
	case KindArray:
		if t.Elem == nil {
			return fmt.Errorf("type %q: array has no element type", t.Name)
		}
		if t.Count <= 0 {
			return fmt.Errorf("type %q: array count must be positive, got %d", t.Name, t.Count)
		}
	case KindContainer:
		if len(t.Fields) == 0 {
			return fmt.Errorf("type %q: container has no fields", t.Name)
		}
		seen := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("type %q: container field with empty name", t.Name)
			}
			if seen[f.Name] {
				return fmt.Errorf("type %q: duplicate field %q", t.Name, f.Name)
			}
			seen[f.Name] = true
			if f.Type == nil {
				return fmt.Errorf("type %q: field %q has no type", t.Name, f.Name)
			}
		}
	default:
		return fmt.Errorf("type %q: unknown kind %d", t.Name, int(t.Kind))
	}
	return nil
}
