package eds

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TopicIDSize is the number of leading packet bytes carrying the big-endian
// topic identifier. The topic bytes are part of the message header, so the
// message type describes the whole packet and decoding starts at offset 0.
const TopicIDSize = 2

// DecodeError reports a packet that could not be decoded: its topic is not
// in the mission dictionary, or its length does not match the declared type.
// Whether one bad packet aborts a run is the caller's policy.
type DecodeError struct {
	TopicID uint16
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding topic 0x%04X: %s", e.TopicID, e.Reason)
}

// Decoded is one fully decoded telemetry message.
type Decoded struct {
	TopicID uint16
	Entry   *Type // the message type, its Name is the flatten root path
	Object  Object
}

// Decode resolves a raw packet's topic ID through the dictionary and unpacks
// the packet into an object tree. The packet must be exactly the declared
// type's packed size.
func (d *Dictionary) Decode(raw []byte) (*Decoded, error) {
	if len(raw) < TopicIDSize {
		return nil, &DecodeError{Reason: fmt.Sprintf("packet too short for topic id: %d bytes", len(raw))}
	}
	topicID := binary.BigEndian.Uint16(raw[:TopicIDSize])
	t, ok := d.TopicType(topicID)
	if !ok {
		return nil, &DecodeError{TopicID: topicID, Reason: "topic not in mission dictionary"}
	}
	if want := t.ByteSize(); len(raw) != want {
		return nil, &DecodeError{TopicID: topicID,
			Reason: fmt.Sprintf("packet is %d bytes, type %s declares %d", len(raw), t.Name, want)}
	}
	obj, _ := decodeValue(t, raw)
	return &Decoded{TopicID: topicID, Entry: t, Object: obj}, nil
}

// decodeValue unpacks one value of type t from the front of b and returns
// the value and the number of bytes consumed. b is known to be large enough:
// Decode checked the total size and packed layouts have no padding.
func decodeValue(t *Type, b []byte) (Object, int) {
	switch t.Kind {
	case KindArray:
		elems := make([]Object, t.Count)
		offset := 0
		for i := 0; i < t.Count; i++ {
			elem, n := decodeValue(t.Elem, b[offset:])
			elems[i] = elem
			offset += n
		}
		return Array{Elems: elems}, offset
	case KindContainer:
		entries := make([]Entry, 0, len(t.Fields))
		offset := 0
		for _, f := range t.Fields {
			v, n := decodeValue(f.Type, b[offset:])
			entries = append(entries, Entry{Name: f.Name, Value: v})
			offset += n
		}
		return Container{Entries: entries}, offset
	default:
		return decodeScalar(t, b[:t.Size]), t.Size
	}
}

func decodeScalar(t *Type, b []byte) Scalar {
	switch t.Kind {
	case KindUint:
		v := readUint(b)
		return Scalar{Text: strconv.FormatUint(v, 10), Num: float64(v), Numeric: true}
	case KindInt:
		v := int64(readUint(b))
		// Sign-extend values narrower than 8 bytes.
		if shift := (8 - len(b)) * 8; shift > 0 {
			v = v << shift >> shift
		}
		return Scalar{Text: strconv.FormatInt(v, 10), Num: float64(v), Numeric: true}
	case KindFloat:
		// Format at the value's own width so a float32 renders its shortest
		// 32-bit representation, not the widened float64 digits.
		if t.Size == 4 {
			v := float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
			return Scalar{Text: strconv.FormatFloat(v, 'g', -1, 32), Num: v, Numeric: true}
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(b))
		return Scalar{Text: strconv.FormatFloat(v, 'g', -1, 64), Num: v, Numeric: true}
	case KindEnum:
		v := readUint(b)
		if label, ok := t.Labels[v]; ok {
			return Scalar{Text: label, Num: float64(v), Numeric: true}
		}
		return Scalar{Text: strconv.FormatUint(v, 10), Num: float64(v), Numeric: true}
	case KindBool:
		if b[0] != 0 {
			return Scalar{Text: "true", Num: 1, Numeric: true}
		}
		return Scalar{Text: "false", Num: 0, Numeric: true}
	case KindString:
		return Scalar{Text: strings.TrimRight(string(b), "\x00")}
	}
	panic(fmt.Sprintf("eds: decodeScalar called with non-scalar kind %s", t.Kind))
}

// readUint reads a 1, 2, 4 or 8 byte big-endian unsigned integer.
func readUint(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(b))
	case 4:
		return uint64(binary.BigEndian.Uint32(b))
	default:
		return binary.BigEndian.Uint64(b)
	}
}
