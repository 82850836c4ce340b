// Package dvdlpcm contains utilities to work with the DVD LPCM codec.
package dvdlpcm

const (
	// PacketHeaderSize is the size of the header that precedes every framed packet.
	PacketHeaderSize = 5

	// Group20Size is the size of a group of packed 20-bit samples.
	Group20Size = 10

	// Group20ExpandedSize is the size of a group of 20-bit samples
	// after expansion to 24 bits.
	Group20ExpandedSize = 12

	// Group24Size is the size of a group of interleaved 24-bit samples.
	Group24Size = 12
)
