package framing

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer emits a capture file in the same format Stream reads: one length
// header followed by fixed-size packets. The capture tools and the converter
// tests share this so the format has exactly one definition.
type Writer struct {
	w            io.Writer
	packetLength int
	count        int
}

// NewWriter writes the length header to w and returns a Writer that accepts
// packets of exactly packetLength bytes.
func NewWriter(w io.Writer, packetLength int) (*Writer, error) {
	if packetLength <= 0 || int64(packetLength) > int64(math.MaxUint32) {
		return nil, &FramingError{Reason: fmt.Sprintf("invalid packet length %d", packetLength), Packet: -1}
	}
	var hdr [HeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(packetLength))
	if _, err := w.Write(hdr[:]); err != nil {
		return nil, fmt.Errorf("writing length header: %v", err)
	}
	return &Writer{w: w, packetLength: packetLength}, nil
}

// PacketLength returns the fixed packet size for this writer.
func (w *Writer) PacketLength() int { return w.packetLength }

// Count returns the number of packets written so far.
func (w *Writer) Count() int { return w.count }

// WritePacket appends one packet. The packet must be exactly the length
// declared in the header.
func (w *Writer) WritePacket(p []byte) error {
	if len(p) != w.packetLength {
		return &FramingError{
			Reason: fmt.Sprintf("packet is %d bytes, file declares %d", len(p), w.packetLength),
			Packet: w.count,
		}
	}
	if _, err := w.w.Write(p); err != nil {
		return fmt.Errorf("writing packet %d: %v", w.count, err)
	}
	w.count++
	return nil
}
