package dvdlpcm

import (
	"fmt"
)

// SampleCount returns the number of samples per channel contained in a
// payload of the given size.
func SampleCount(size int, bitDepth int, channelCount int) (int, error) {
	if channelCount < 1 || channelCount > 8 {
		return 0, fmt.Errorf("invalid channel count (%d)", channelCount)
	}

	switch bitDepth {
	case 16:
		if (size % (2 * channelCount)) != 0 {
			return 0, fmt.Errorf("payload size (%d) is not a multiple of the frame size", size)
		}
		return size / channelCount / 2, nil

	case 20:
		if (size%Group20Size) != 0 || ((size*8/20)%channelCount) != 0 {
			return 0, fmt.Errorf("payload size (%d) is not a multiple of the frame size", size)
		}
		return size * 8 / 20 / channelCount, nil

	case 24:
		if (size%Group24Size) != 0 || (size%(3*channelCount)) != 0 {
			return 0, fmt.Errorf("payload size (%d) is not a multiple of the frame size", size)
		}
		return size / channelCount / 3, nil

	default:
		return 0, fmt.Errorf("invalid bit depth (%d)", bitDepth)
	}
}

// Expand20 expands packed 20-bit samples into byte-aligned 24-bit samples,
// reading them from src and writing them into dst. Each group of 4 packed
// samples carries the low nibbles of its samples in 2 trailing bytes; these
// are redistributed into the low byte of each expanded sample. dst must be
// Group20ExpandedSize/Group20Size times as large as src.
func Expand20(dst []byte, src []byte) error {
	if (len(src) % Group20Size) != 0 {
		return fmt.Errorf("source size (%d) is not a multiple of %d", len(src), Group20Size)
	}

	if n := len(src) / Group20Size * Group20ExpandedSize; len(dst) < n {
		return fmt.Errorf("destination is too small (%d, need %d)", len(dst), n)
	}

	for len(src) > 0 {
		dst[0] = src[0]
		dst[1] = src[1]
		dst[2] = src[8] & 0xf0
		dst[3] = src[2]
		dst[4] = src[3]
		dst[5] = (src[8] & 0x0f) << 4
		dst[6] = src[4]
		dst[7] = src[5]
		dst[8] = src[9] & 0x0f
		dst[9] = src[6]
		dst[10] = src[7]
		dst[11] = (src[9] & 0x0f) << 4

		src = src[Group20Size:]
		dst = dst[Group20ExpandedSize:]
	}

	return nil
}

// Reorder24 rearranges interleaved 24-bit samples in place, converting them
// from the DVD byte order to a linear big-endian order. The first 2 and the
// last byte of each group are already in the right position.
func Reorder24(buf []byte) error {
	if (len(buf) % Group24Size) != 0 {
		return fmt.Errorf("buffer size (%d) is not a multiple of %d", len(buf), Group24Size)
	}

	for i := 0; i < len(buf); i += Group24Size {
		g := buf[i : i+Group24Size]
		tmp := [9]byte{g[8], g[2], g[3], g[9], g[4], g[5], g[10], g[6], g[7]}
		copy(g[2:11], tmp[:])
	}

	return nil
}
