package golpcmlib

import (
	"time"
)

// Samples is a chunk of decoded samples.
type Samples struct {
	// format of the samples.
	Format *StreamFormat

	// presentation timestamp of the first sample.
	PTS time.Duration

	// number of samples per channel.
	Count int

	// decoded samples: channel-interleaved, big-endian, signed,
	// byte-aligned at Format.OutputBitDepth().
	Payload []byte
}

// Duration returns the duration of the chunk.
func (s *Samples) Duration() time.Duration {
	return multiplyAndDivide(time.Duration(s.Count), time.Second, time.Duration(s.Format.SampleRate))
}
