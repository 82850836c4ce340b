package golpcmlib

import (
	"testing"

	psdp "github.com/pion/sdp/v3"
	"github.com/stretchr/testify/require"
)

var casesStreamFormat = []struct {
	name        string
	payloadType uint8
	md          *psdp.MediaDescription
	format      StreamFormat
}{
	{
		"16bit 48khz stereo",
		96,
		&psdp.MediaDescription{
			MediaName: psdp.MediaName{
				Media:   "audio",
				Protos:  []string{"RTP", "AVP"},
				Formats: []string{"96"},
			},
			Attributes: []psdp.Attribute{
				{
					Key:   "rtpmap",
					Value: "96 X-DVD-LPCM/48000/2",
				},
				{
					Key:   "fmtp",
					Value: "96 dynamic-range=128; emphasis=0; mute=0; width=16",
				},
			},
		},
		StreamFormat{
			SampleRate:   48000,
			ChannelCount: 2,
			BitDepth:     16,
			DynamicRange: 0x80,
		},
	},
	{
		"24bit 96khz 5.1",
		97,
		&psdp.MediaDescription{
			MediaName: psdp.MediaName{
				Media:   "audio",
				Protos:  []string{"RTP", "AVP"},
				Formats: []string{"97"},
			},
			Attributes: []psdp.Attribute{
				{
					Key:   "rtpmap",
					Value: "97 X-DVD-LPCM/96000/6",
				},
				{
					Key:   "fmtp",
					Value: "97 dynamic-range=0; emphasis=1; mute=0; width=24",
				},
			},
		},
		StreamFormat{
			SampleRate:   96000,
			ChannelCount: 6,
			BitDepth:     24,
			Emphasis:     true,
		},
	},
	{
		"20bit mono muted",
		96,
		&psdp.MediaDescription{
			MediaName: psdp.MediaName{
				Media:   "audio",
				Protos:  []string{"RTP", "AVP"},
				Formats: []string{"96"},
			},
			Attributes: []psdp.Attribute{
				{
					Key:   "rtpmap",
					Value: "96 X-DVD-LPCM/48000/1",
				},
				{
					Key:   "fmtp",
					Value: "96 dynamic-range=255; emphasis=0; mute=1; width=20",
				},
			},
		},
		StreamFormat{
			SampleRate:   48000,
			ChannelCount: 1,
			BitDepth:     20,
			DynamicRange: 0xff,
			Mute:         true,
		},
	},
}

func TestStreamFormatUnmarshalSDP(t *testing.T) {
	for _, ca := range casesStreamFormat {
		t.Run(ca.name, func(t *testing.T) {
			var f StreamFormat
			err := f.UnmarshalSDP(ca.md)
			require.NoError(t, err)
			require.Equal(t, ca.format, f)
		})
	}
}

func TestStreamFormatMarshalSDP(t *testing.T) {
	for _, ca := range casesStreamFormat {
		t.Run(ca.name, func(t *testing.T) {
			md, err := ca.format.MarshalSDP(ca.payloadType)
			require.NoError(t, err)
			require.Equal(t, ca.md, md)
		})
	}
}

func TestStreamFormatUnmarshalSDPCaseInsensitive(t *testing.T) {
	var f StreamFormat
	err := f.UnmarshalSDP(&psdp.MediaDescription{
		MediaName: psdp.MediaName{
			Media:   "audio",
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{"96"},
		},
		Attributes: []psdp.Attribute{
			{
				Key:   "rtpmap",
				Value: "96 x-dvd-lpcm/48000/2",
			},
			{
				Key:   "fmtp",
				Value: "96 Width=16; Dynamic-Range=128; Emphasis=0; Mute=0",
			},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 16, f.BitDepth)
}

func TestStreamFormatUnmarshalSDPErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		md   *psdp.MediaDescription
		err  string
	}{
		{
			"no formats",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:  "audio",
					Protos: []string{"RTP", "AVP"},
				},
			},
			"media contains 0 formats, expected 1",
		},
		{
			"invalid payload type",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"abc"},
				},
			},
			"invalid payload type (abc)",
		},
		{
			"rtpmap missing",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
			},
			"rtpmap attribute is missing",
		},
		{
			"invalid rtpmap",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{
						Key:   "rtpmap",
						Value: "96 PCMU/8000",
					},
				},
			},
			"invalid rtpmap (PCMU/8000)",
		},
		{
			"fmtp missing width",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{
						Key:   "rtpmap",
						Value: "96 X-DVD-LPCM/48000/2",
					},
					{
						Key:   "fmtp",
						Value: "96 dynamic-range=128; emphasis=0; mute=0",
					},
				},
			},
			"invalid stream format: bad width",
		},
		{
			"invalid emphasis",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{
						Key:   "rtpmap",
						Value: "96 X-DVD-LPCM/48000/2",
					},
					{
						Key:   "fmtp",
						Value: "96 width=16; dynamic-range=128; emphasis=maybe; mute=0",
					},
				},
			},
			"invalid stream format: bad emphasis",
		},
		{
			"invalid sample rate",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{
						Key:   "rtpmap",
						Value: "96 X-DVD-LPCM/44100/2",
					},
					{
						Key:   "fmtp",
						Value: "96 width=16; dynamic-range=128; emphasis=0; mute=0",
					},
				},
			},
			"invalid stream format: bad sample rate",
		},
		{
			"invalid channel count",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{
						Key:   "rtpmap",
						Value: "96 X-DVD-LPCM/48000/9",
					},
					{
						Key:   "fmtp",
						Value: "96 width=16; dynamic-range=128; emphasis=0; mute=0",
					},
				},
			},
			"invalid stream format: bad channel count",
		},
		{
			"invalid bit depth",
			&psdp.MediaDescription{
				MediaName: psdp.MediaName{
					Media:   "audio",
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{"96"},
				},
				Attributes: []psdp.Attribute{
					{
						Key:   "rtpmap",
						Value: "96 X-DVD-LPCM/48000/2",
					},
					{
						Key:   "fmtp",
						Value: "96 width=8; dynamic-range=128; emphasis=0; mute=0",
					},
				},
			},
			"invalid stream format: bad bit depth",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var f StreamFormat
			err := f.UnmarshalSDP(ca.md)
			require.EqualError(t, err, ca.err)
		})
	}
}

func TestStreamFormatMarshalSDPError(t *testing.T) {
	f := &StreamFormat{
		SampleRate:   44100,
		ChannelCount: 2,
		BitDepth:     16,
	}
	_, err := f.MarshalSDP(96)
	require.Equal(t, ErrFormatInvalid{Field: "sample rate"}, err)
}

func TestStreamFormatOutputRTPMap(t *testing.T) {
	for _, ca := range []struct {
		name   string
		format StreamFormat
		depth  int
		rtpMap string
	}{
		{
			"16bit",
			StreamFormat{SampleRate: 48000, ChannelCount: 2, BitDepth: 16},
			16,
			"L16/48000/2",
		},
		{
			"20bit",
			StreamFormat{SampleRate: 96000, ChannelCount: 1, BitDepth: 20},
			24,
			"L24/96000/1",
		},
		{
			"24bit",
			StreamFormat{SampleRate: 48000, ChannelCount: 6, BitDepth: 24},
			24,
			"L24/48000/6",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			require.Equal(t, ca.depth, ca.format.OutputBitDepth())
			require.Equal(t, ca.rtpMap, ca.format.OutputRTPMap())
		})
	}
}
