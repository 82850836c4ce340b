package golpcmlib

import (
	"errors"
	"fmt"
)

// ErrNotNegotiated is returned by Decode and DecodeRaw when sample payloads
// are received before the stream format is known.
var ErrNotNegotiated = errors.New("stream format has not been negotiated yet")

// ErrFormatInvalid is returned when a required stream format field is
// missing or contains a value outside its allowed range.
type ErrFormatInvalid struct {
	Field string
}

// Error implements the error interface.
func (e ErrFormatInvalid) Error() string {
	return fmt.Sprintf("invalid stream format: bad %s", e.Field)
}

// ErrFormatRejected is returned when the downstream consumer rejects a
// proposed stream format. Decoding halts until the decoder is reinitialized.
type ErrFormatRejected struct {
	Format *StreamFormat
	Err    error
}

// Error implements the error interface.
func (e ErrFormatRejected) Error() string {
	return fmt.Sprintf("proposed format was rejected: %v", e.Err)
}

// ErrUnsupportedBitDepth is returned when the active format carries a bit
// depth that no conversion routine can handle.
type ErrUnsupportedBitDepth struct {
	BitDepth int
}

// Error implements the error interface.
func (e ErrUnsupportedBitDepth) Error() string {
	return fmt.Sprintf("unsupported bit depth (%d)", e.BitDepth)
}

// ErrMalformedPayload is returned when a payload does not contain a whole
// number of sample frames for the active format.
type ErrMalformedPayload struct {
	Length       int
	BitDepth     int
	ChannelCount int
}

// Error implements the error interface.
func (e ErrMalformedPayload) Error() string {
	return fmt.Sprintf("payload of %d bytes does not contain a whole number of %d-bit, %d-channel sample frames",
		e.Length, e.BitDepth, e.ChannelCount)
}

// ErrBufferUnavailable is returned when the expansion of 20-bit samples
// requires an output buffer larger than the available ones.
type ErrBufferUnavailable struct {
	Required  int
	Available int
}

// Error implements the error interface.
func (e ErrBufferUnavailable) Error() string {
	return fmt.Sprintf("unable to obtain an output buffer of %d bytes (maximum is %d)",
		e.Required, e.Available)
}
