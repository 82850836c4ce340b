package dvdlpcm

import (
	"fmt"
)

// Packet is a framed LPCM packet, as carried in DVD private streams.
type Packet struct {
	// pointer to the first sample frame of the next access unit.
	// It is relative to the last byte of this field, therefore the 3 bytes
	// of the header word are included in its value. Zero means that no
	// access unit starts within the packet.
	FirstAccessUnit uint16

	// raw 24-bit header word. Use Header.Unmarshal to decode it.
	HeaderWord uint32

	// sample payload.
	Payload []byte
}

// Unmarshal decodes a Packet.
func (p *Packet) Unmarshal(buf []byte) error {
	if len(buf) < PacketHeaderSize {
		return fmt.Errorf("buffer is too short")
	}

	p.FirstAccessUnit = uint16(buf[0])<<8 | uint16(buf[1])
	p.HeaderWord = uint32(buf[2])<<16 | uint32(buf[3])<<8 | uint32(buf[4])
	p.Payload = buf[PacketHeaderSize:]

	if int(p.FirstAccessUnit) > (4 + len(p.Payload)) {
		return fmt.Errorf("first access unit pointer (%d) is out of range", p.FirstAccessUnit)
	}

	return nil
}

// Marshal encodes a Packet.
func (p Packet) Marshal() ([]byte, error) {
	if p.HeaderWord > 0xFFFFFF {
		return nil, fmt.Errorf("header word (%d) exceeds 24 bits", p.HeaderWord)
	}

	if int(p.FirstAccessUnit) > (4 + len(p.Payload)) {
		return nil, fmt.Errorf("first access unit pointer (%d) is out of range", p.FirstAccessUnit)
	}

	buf := make([]byte, PacketHeaderSize+len(p.Payload))
	buf[0] = byte(p.FirstAccessUnit >> 8)
	buf[1] = byte(p.FirstAccessUnit)
	buf[2] = byte(p.HeaderWord >> 16)
	buf[3] = byte(p.HeaderWord >> 8)
	buf[4] = byte(p.HeaderWord)
	copy(buf[PacketHeaderSize:], p.Payload)

	return buf, nil
}
