/*
Package golpcmlib is a DVD LPCM decoding library for the Go programming language.

It converts the LPCM variant carried in DVD private streams, made of framed
packets with packed 16, 20 or 24-bit samples, into byte-aligned, big-endian
PCM, re-deriving the stream format whenever the embedded header changes.

Examples are available at https://github.com/bluenviron/golpcmlib/tree/main/examples
*/
package golpcmlib

import (
	"time"

	"github.com/bluenviron/golpcmlib/internal/multibuffer"
	"github.com/bluenviron/golpcmlib/pkg/codecs/dvdlpcm"
)

const (
	defaultOutputBufferSize = 65536
	outputBufferCount       = 2
)

// avoid an int64 overflow and preserve resolution by splitting division into two parts:
// first add the integer part, then the decimal part.
func multiplyAndDivide(v, m, d time.Duration) time.Duration {
	secs := v / d
	dec := v % d
	return (secs*m + dec*m/d)
}

type subRange struct {
	payload []byte
	pts     *time.Duration
	count   int
}

// Decoder is a DVD LPCM decoder. It turns framed or raw LPCM packets into
// chunks of byte-aligned, big-endian PCM samples with increasing timestamps.
type Decoder struct {
	// stream format (optional).
	// It is mandatory in order to decode raw packets with DecodeRaw, since
	// these carry no format information. When framed packets are decoded
	// with Decode, it is replaced by the format carried in packet headers.
	Format *StreamFormat

	// called before samples with a new format are emitted (optional).
	// If it returns an error, the format is considered rejected and
	// decoding halts until the decoder is reinitialized.
	OnFormatChange func(format *StreamFormat) error

	// size of each of the buffers that store expanded 20-bit samples
	// (optional). It defaults to 65536. Payloads of 20-bit samples whose
	// expansion exceeds this size cannot be decoded.
	OutputBufferSize int

	format     *StreamFormat
	headerWord uint32
	cursor     time.Duration
	failure    error
	pool       *multibuffer.MultiBuffer
}

// Initialize initializes the decoder. It can be called again to reset the
// decoder to its initial state.
func (d *Decoder) Initialize() error {
	if d.OutputBufferSize == 0 {
		d.OutputBufferSize = defaultOutputBufferSize
	}

	d.format = nil
	d.headerWord = 0
	d.cursor = 0
	d.failure = nil

	d.pool = &multibuffer.MultiBuffer{
		Count: outputBufferCount,
		Size:  uint64(d.OutputBufferSize),
	}
	d.pool.Initialize()

	if d.Format != nil {
		err := d.Format.validate()
		if err != nil {
			return err
		}

		format := *d.Format

		if d.OnFormatChange != nil {
			err = d.OnFormatChange(&format)
			if err != nil {
				return ErrFormatRejected{Format: &format, Err: err}
			}
		}

		d.format = &format
	}

	return nil
}

// Decode decodes samples from a framed packet.
//
// pts is the presentation timestamp of the first complete access unit in
// the packet; nil means that it is not known. Packets whose first access
// unit pointer is degenerate (between 0 and 4) discard it in any case.
//
// It returns zero, one or two chunks of samples: payload bytes that belong
// to the access unit of a previous packet are emitted as a separate chunk,
// stamped by continuing the timeline of previous chunks.
//
// Chunks of 16 and 24-bit samples share memory with buf, and 24-bit samples
// are rearranged in place, so buf must not be reused afterwards.
func (d *Decoder) Decode(buf []byte, pts *time.Duration) ([]*Samples, error) {
	if d.failure != nil {
		return nil, d.failure
	}

	var pkt dvdlpcm.Packet
	err := pkt.Unmarshal(buf)
	if err != nil {
		return nil, err
	}

	if pkt.HeaderWord != d.headerWord {
		var h dvdlpcm.Header
		err = h.Unmarshal(buf[2:5])
		if err != nil {
			return nil, err
		}

		format := &StreamFormat{
			SampleRate:   h.SampleRate,
			ChannelCount: h.ChannelCount,
			BitDepth:     h.BitDepth,
			DynamicRange: h.DynamicRange,
			Emphasis:     h.Emphasis,
			Mute:         h.Mute,
		}

		if d.OnFormatChange != nil {
			err = d.OnFormatChange(format)
			if err != nil {
				d.failure = ErrFormatRejected{Format: format, Err: err}
				return nil, d.failure
			}
		}

		d.format = format
		d.headerWord = pkt.HeaderWord
	}

	var subs []subRange

	if pkt.FirstAccessUnit > 4 {
		// the pointer includes the 3 bytes of the header word and is
		// 1-based: the previous access unit ends (FirstAccessUnit - 4)
		// bytes into the payload.
		n := int(pkt.FirstAccessUnit) - 4

		subs = append(subs, subRange{payload: pkt.Payload[:n]})

		// the second sub-range is forwarded even when empty, since its
		// timestamp re-anchors the cursor.
		subs = append(subs, subRange{payload: pkt.Payload[n:], pts: pts})
	} else if len(pkt.Payload) > 0 {
		// pointers between 1 and 3 fall inside the header word and are
		// treated like zero. In both cases the packet timestamp refers to
		// an access unit that is not in this packet and is discarded.
		subs = append(subs, subRange{payload: pkt.Payload})
	}

	if d.format == nil {
		return nil, ErrNotNegotiated
	}

	if len(subs) == 0 {
		return nil, nil
	}

	// validate every sub-range first: a packet that fails validation
	// halfway must not emit anything.
	for i := range subs {
		subs[i].count, err = d.payloadSampleCount(subs[i].payload)
		if err != nil {
			return nil, err
		}
	}

	ret := make([]*Samples, len(subs))

	for i, sub := range subs {
		ret[i], err = d.convert(sub.payload, sub.count, sub.pts)
		if err != nil {
			return nil, err
		}
	}

	return ret, nil
}

// DecodeRaw decodes samples from a raw packet, using the format provided
// during initialization or parsed from previous framed packets.
//
// pts is the presentation timestamp of the first sample; nil means that it
// is not known and that the timestamp continues the timeline of previous
// chunks.
//
// Chunks of 16 and 24-bit samples share memory with payload, and 24-bit
// samples are rearranged in place, so payload must not be reused afterwards.
func (d *Decoder) DecodeRaw(payload []byte, pts *time.Duration) (*Samples, error) {
	if d.failure != nil {
		return nil, d.failure
	}

	if d.format == nil {
		return nil, ErrNotNegotiated
	}

	count, err := d.payloadSampleCount(payload)
	if err != nil {
		return nil, err
	}

	return d.convert(payload, count, pts)
}

func (d *Decoder) payloadSampleCount(payload []byte) (int, error) {
	switch d.format.BitDepth {
	case 16, 20, 24:
	default:
		return 0, ErrUnsupportedBitDepth{BitDepth: d.format.BitDepth}
	}

	count, err := dvdlpcm.SampleCount(len(payload), d.format.BitDepth, d.format.ChannelCount)
	if err != nil {
		return 0, ErrMalformedPayload{
			Length:       len(payload),
			BitDepth:     d.format.BitDepth,
			ChannelCount: d.format.ChannelCount,
		}
	}

	return count, nil
}

func (d *Decoder) convert(payload []byte, count int, pts *time.Duration) (*Samples, error) {
	var out []byte

	switch d.format.BitDepth {
	case 16:
		// nothing to do: samples are already byte-aligned and big-endian.
		out = payload

	case 20:
		size := len(payload) / dvdlpcm.Group20Size * dvdlpcm.Group20ExpandedSize

		buf, ok := d.pool.Next(size)
		if !ok {
			return nil, ErrBufferUnavailable{Required: size, Available: d.OutputBufferSize}
		}

		err := dvdlpcm.Expand20(buf, payload)
		if err != nil {
			return nil, err
		}
		out = buf

	case 24:
		err := dvdlpcm.Reorder24(payload)
		if err != nil {
			return nil, err
		}
		out = payload
	}

	samples := &Samples{
		Format:  d.format,
		Count:   count,
		Payload: out,
	}

	if pts != nil {
		d.cursor = *pts
	}
	samples.PTS = d.cursor
	d.cursor += samples.Duration()

	return samples, nil
}
