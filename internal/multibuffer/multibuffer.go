// Package multibuffer contains a pool of reusable buffers.
package multibuffer

// MultiBuffer implements software multi buffering, that allows to reuse
// existing buffers without creating new ones, improving performance.
type MultiBuffer struct {
	// number of buffers.
	Count uint64

	// size of each buffer.
	Size uint64

	buffers [][]byte
	cur     uint64
}

// Initialize initializes a MultiBuffer.
func (mb *MultiBuffer) Initialize() {
	mb.buffers = make([][]byte, mb.Count)
	for i := uint64(0); i < mb.Count; i++ {
		mb.buffers[i] = make([]byte, mb.Size)
	}
	mb.cur = 0
}

// Next gets the current buffer, sized to the given length, and sets the
// next buffer as the current one. It returns false when the requested
// length exceeds the size of the buffers.
func (mb *MultiBuffer) Next(length int) ([]byte, bool) {
	if length < 0 || uint64(length) > mb.Size {
		return nil, false
	}

	ret := mb.buffers[mb.cur%mb.Count]
	mb.cur++
	return ret[:length], true
}
