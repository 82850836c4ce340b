package rtpdvdlpcm

import (
	"errors"
	"fmt"

	"github.com/pion/rtp"

	"github.com/bluenviron/golpcmlib/pkg/codecs/dvdlpcm"
)

// ErrMorePacketsNeeded is returned when more packets are needed to complete a framed packet.
var ErrMorePacketsNeeded = errors.New("need more packets")

// ErrNonStartingPacketAndNoPrevious is returned when we received a non-starting
// fragment of a framed packet and we didn't receive anything before.
// It's normal to receive this when decoding a stream that has been already
// running for some time.
var ErrNonStartingPacketAndNoPrevious = errors.New(
	"received a non-starting fragment without any previous starting fragment")

// Decoder is a RTP decoder for framed DVD LPCM packets.
// Each framed packet is carried in one or more RTP packets that share the
// same timestamp; the marker bit is set on the last fragment.
type Decoder struct {
	// buffer for accumulating the framed packet across fragments
	buffer []byte
	// timestamp of the framed packet being assembled
	currentTimestamp uint32
	// whether we're currently assembling a framed packet
	assembling bool
	// whether we reached a known fragment boundary
	synced bool
	// sequence number of the last processed packet
	lastSeqNum uint16
	// whether we've received the first packet
	firstPacketReceived bool
}

// Init initializes the decoder.
func (d *Decoder) Init() error {
	d.reset()
	return nil
}

// reset clears the decoder state.
func (d *Decoder) reset() {
	d.buffer = d.buffer[:0]
	d.currentTimestamp = 0
	d.assembling = false
	d.synced = false
	d.firstPacketReceived = false
}

// Decode decodes a framed packet from RTP packets.
// It returns the complete framed packet when all fragments have been
// received, or ErrMorePacketsNeeded if more packets are needed.
func (d *Decoder) Decode(pkt *rtp.Packet) ([]byte, error) {
	if d.firstPacketReceived {
		expectedSeq := d.lastSeqNum + 1
		if pkt.SequenceNumber != expectedSeq {
			d.reset()
			d.synced = pkt.Marker
			return nil, fmt.Errorf("packet loss detected: expected sequence number %d, got %d",
				expectedSeq, pkt.SequenceNumber)
		}
	}
	d.lastSeqNum = pkt.SequenceNumber
	d.firstPacketReceived = true

	if !d.assembling {
		if !d.synced {
			// framed packets do not carry a distinctive prefix: the only
			// known fragment boundary is the marker of the packet in progress.
			d.synced = pkt.Marker
			return nil, ErrNonStartingPacketAndNoPrevious
		}

		d.currentTimestamp = pkt.Timestamp
		d.assembling = true
		d.buffer = append(d.buffer[:0], pkt.Payload...)
	} else {
		if pkt.Timestamp != d.currentTimestamp {
			err := fmt.Errorf("incomplete framed packet: timestamp changed from %d to %d",
				d.currentTimestamp, pkt.Timestamp)
			d.reset()
			d.synced = pkt.Marker
			return nil, err
		}

		d.buffer = append(d.buffer, pkt.Payload...)
	}

	if !pkt.Marker {
		return nil, ErrMorePacketsNeeded
	}

	unit := d.buffer
	d.reset()
	d.synced = true

	if len(unit) < dvdlpcm.PacketHeaderSize {
		return nil, fmt.Errorf("framed packet is too short")
	}

	return unit, nil
}
