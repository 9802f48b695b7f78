// Package framing reads and writes framed telemetry capture files.
//
// A capture file is a 4-byte big-endian unsigned integer giving the packet
// length, followed by zero or more packets of exactly that length until EOF.
// All packets in one file share the single length from the header.
package framing

import (
	"encoding/binary"
	"fmt"
	"io"
)

// HeaderSize is the size in bytes of the packet length prefix.
const HeaderSize = 4

// FramingError reports a malformed capture file: a missing or zero length
// header, or trailing bytes shorter than one full packet.
type FramingError struct {
	Reason string
	Packet int // index of the offending packet, -1 for header problems
}

func (e *FramingError) Error() string {
	if e.Packet < 0 {
		return fmt.Sprintf("framing: %s", e.Reason)
	}
	return fmt.Sprintf("framing: packet %d: %s", e.Packet, e.Reason)
}

// ReadHeader reads the 4-byte big-endian packet length from the start of a
// capture file. A short read or a zero length is a *FramingError.
func ReadHeader(r io.Reader) (int, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, &FramingError{Reason: fmt.Sprintf("reading length header: %v", err), Packet: -1}
	}
	length := binary.BigEndian.Uint32(hdr[:])
	if length == 0 {
		return 0, &FramingError{Reason: "length header is zero", Packet: -1}
	}
	return int(length), nil
}

// Stream yields successive fixed-size packets from a capture file. It is
// single-pass: the underlying reader is consumed and the stream cannot be
// rewound.
type Stream struct {
	r            io.Reader
	packetLength int
	count        int
}

// NewStream returns a Stream reading packetLength-byte packets from r. The
// caller is expected to have consumed the length header already, normally via
// ReadHeader.
func NewStream(r io.Reader, packetLength int) (*Stream, error) {
	if packetLength <= 0 {
		return nil, &FramingError{Reason: fmt.Sprintf("invalid packet length %d", packetLength), Packet: -1}
	}
	return &Stream{r: r, packetLength: packetLength}, nil
}

// PacketLength returns the fixed packet size for this stream.
func (s *Stream) PacketLength() int { return s.packetLength }

// Count returns the number of complete packets read so far.
func (s *Stream) Count() int { return s.count }

// Next returns the next packet, freshly allocated so callers may retain it.
// It returns io.EOF on a clean end of stream. Trailing bytes that do not fill
// a whole packet are a *FramingError, never silently dropped.
func (s *Stream) Next() ([]byte, error) {
	buf := make([]byte, s.packetLength)
	n, err := io.ReadFull(s.r, buf)
	switch {
	case err == io.EOF:
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		return nil, &FramingError{
			Reason: fmt.Sprintf("truncated trailing packet: got %d bytes, want %d", n, s.packetLength),
			Packet: s.count,
		}
	case err != nil:
		return nil, fmt.Errorf("reading packet %d: %v", s.count, err)
	}
	s.count++
	return buf, nil
}
