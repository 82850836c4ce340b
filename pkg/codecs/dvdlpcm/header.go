package dvdlpcm

import (
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/bits"
)

// Header is the header word carried by every framed LPCM packet.
// It is 24 bits long and describes the format of the samples that follow.
type Header struct {
	// audio emphasis flag.
	Emphasis bool

	// audio mute flag.
	Mute bool

	// bit depth of samples. It can be 16, 20 or 24.
	BitDepth int

	// sample rate. It can be 48000 or 96000.
	SampleRate int

	// channel count, from 1 to 8.
	ChannelCount int

	// dynamic range control.
	DynamicRange uint8
}

// Unmarshal decodes a Header.
func (h *Header) Unmarshal(buf []byte) error {
	if len(buf) < 3 {
		return fmt.Errorf("buffer is too short")
	}

	pos := 0

	tmp, err := bits.ReadBits(buf, &pos, 1)
	if err != nil {
		return err
	}
	h.Emphasis = (tmp == 1)

	tmp, err = bits.ReadBits(buf, &pos, 1)
	if err != nil {
		return err
	}
	h.Mute = (tmp == 1)

	// reserved bit and audio frame number
	_, err = bits.ReadBits(buf, &pos, 6)
	if err != nil {
		return err
	}

	quantization, err := bits.ReadBits(buf, &pos, 2)
	if err != nil {
		return err
	}

	switch quantization {
	case 0b10:
		h.BitDepth = 24

	case 0b01:
		h.BitDepth = 20

	default:
		h.BitDepth = 16
	}

	sampleRate, err := bits.ReadBits(buf, &pos, 2)
	if err != nil {
		return err
	}

	if (sampleRate & 0b01) != 0 {
		h.SampleRate = 96000
	} else {
		h.SampleRate = 48000
	}

	// reserved bit
	_, err = bits.ReadBits(buf, &pos, 1)
	if err != nil {
		return err
	}

	tmp, err = bits.ReadBits(buf, &pos, 3)
	if err != nil {
		return err
	}
	h.ChannelCount = int(tmp) + 1

	tmp, err = bits.ReadBits(buf, &pos, 8)
	if err != nil {
		return err
	}
	h.DynamicRange = uint8(tmp)

	return nil
}

// Marshal encodes a Header.
func (h Header) Marshal() ([]byte, error) {
	var quantization uint64
	switch h.BitDepth {
	case 16:
		quantization = 0b00

	case 20:
		quantization = 0b01

	case 24:
		quantization = 0b10

	default:
		return nil, fmt.Errorf("invalid bit depth (%d)", h.BitDepth)
	}

	var sampleRate uint64
	switch h.SampleRate {
	case 48000:
		sampleRate = 0b00

	case 96000:
		sampleRate = 0b01

	default:
		return nil, fmt.Errorf("invalid sample rate (%d)", h.SampleRate)
	}

	if h.ChannelCount < 1 || h.ChannelCount > 8 {
		return nil, fmt.Errorf("invalid channel count (%d)", h.ChannelCount)
	}

	buf := make([]byte, 3)
	pos := 0

	if h.Emphasis {
		bits.WriteBitsUnsafe(buf, &pos, 1, 1)
	} else {
		bits.WriteBitsUnsafe(buf, &pos, 0, 1)
	}

	if h.Mute {
		bits.WriteBitsUnsafe(buf, &pos, 1, 1)
	} else {
		bits.WriteBitsUnsafe(buf, &pos, 0, 1)
	}

	// reserved bit and audio frame number
	bits.WriteBitsUnsafe(buf, &pos, 0, 6)

	bits.WriteBitsUnsafe(buf, &pos, quantization, 2)
	bits.WriteBitsUnsafe(buf, &pos, sampleRate, 2)

	// reserved bit
	bits.WriteBitsUnsafe(buf, &pos, 0, 1)

	bits.WriteBitsUnsafe(buf, &pos, uint64(h.ChannelCount-1), 3)
	bits.WriteBitsUnsafe(buf, &pos, uint64(h.DynamicRange), 8)

	return buf, nil
}
