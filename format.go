package golpcmlib

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	psdp "github.com/pion/sdp/v3"
)

const sdpCodecName = "X-DVD-LPCM"

func getFormatAttribute(attributes []psdp.Attribute, payloadType uint8, key string) string {
	for _, attr := range attributes {
		if attr.Key == key {
			v := strings.TrimSpace(attr.Value)
			if parts := strings.SplitN(v, " ", 2); len(parts) == 2 {
				if tmp, err := strconv.ParseUint(parts[0], 10, 8); err == nil && uint8(tmp) == payloadType {
					return parts[1]
				}
			}
		}
	}
	return ""
}

func decodeFMTP(enc string) map[string]string {
	if enc == "" {
		return nil
	}

	ret := make(map[string]string)

	for _, kv := range strings.Split(enc, ";") {
		kv = strings.Trim(kv, " ")

		if len(kv) == 0 {
			continue
		}

		tmp := strings.SplitN(kv, "=", 2)
		if len(tmp) != 2 {
			continue
		}

		ret[strings.ToLower(tmp[0])] = tmp[1]
	}

	return ret
}

func sortedKeys(fmtp map[string]string) []string {
	keys := make([]string, len(fmtp))
	i := 0
	for key := range fmtp {
		keys[i] = key
		i++
	}
	sort.Strings(keys)
	return keys
}

// StreamFormat describes the format of an LPCM elementary stream.
type StreamFormat struct {
	// sample rate. It can be 48000 or 96000.
	SampleRate int

	// channel count, from 1 to 8.
	ChannelCount int

	// bit depth of incoming samples. It can be 16, 20 or 24.
	BitDepth int

	// dynamic range control (informational).
	DynamicRange uint8

	// audio emphasis flag (informational).
	Emphasis bool

	// audio mute flag (informational).
	Mute bool
}

func (f *StreamFormat) validate() error {
	switch f.SampleRate {
	case 48000, 96000:
	default:
		return ErrFormatInvalid{Field: "sample rate"}
	}

	if f.ChannelCount < 1 || f.ChannelCount > 8 {
		return ErrFormatInvalid{Field: "channel count"}
	}

	switch f.BitDepth {
	case 16, 20, 24:
	default:
		return ErrFormatInvalid{Field: "bit depth"}
	}

	return nil
}

// OutputBitDepth returns the bit depth of decoded samples. 20-bit samples
// are expanded to 24 bits; other depths are preserved.
func (f *StreamFormat) OutputBitDepth() int {
	if f.BitDepth == 20 {
		return 24
	}
	return f.BitDepth
}

// OutputRTPMap returns the RTP map of decoded samples, in the form used by
// the standard L16 and L24 RTP formats.
func (f *StreamFormat) OutputRTPMap() string {
	var codec string
	if f.OutputBitDepth() == 24 {
		codec = "L24"
	} else {
		codec = "L16"
	}

	return codec + "/" + strconv.FormatInt(int64(f.SampleRate), 10) +
		"/" + strconv.FormatInt(int64(f.ChannelCount), 10)
}

// UnmarshalSDP fills the format with the parameters contained in a SDP
// media description.
func (f *StreamFormat) UnmarshalSDP(md *psdp.MediaDescription) error {
	if len(md.MediaName.Formats) != 1 {
		return fmt.Errorf("media contains %d formats, expected 1", len(md.MediaName.Formats))
	}

	tmp, err := strconv.ParseUint(md.MediaName.Formats[0], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid payload type (%v)", md.MediaName.Formats[0])
	}
	payloadType := uint8(tmp)

	rtpMap := getFormatAttribute(md.Attributes, payloadType, "rtpmap")
	if rtpMap == "" {
		return fmt.Errorf("rtpmap attribute is missing")
	}

	parts := strings.Split(rtpMap, "/")
	if len(parts) != 3 || !strings.EqualFold(parts[0], sdpCodecName) {
		return fmt.Errorf("invalid rtpmap (%v)", rtpMap)
	}

	sampleRate, err := strconv.ParseUint(parts[1], 10, 31)
	if err != nil {
		return ErrFormatInvalid{Field: "sample rate"}
	}
	f.SampleRate = int(sampleRate)

	channelCount, err := strconv.ParseUint(parts[2], 10, 31)
	if err != nil {
		return ErrFormatInvalid{Field: "channel count"}
	}
	f.ChannelCount = int(channelCount)

	fmtp := decodeFMTP(getFormatAttribute(md.Attributes, payloadType, "fmtp"))

	for _, key := range []string{"width", "dynamic-range", "emphasis", "mute"} {
		if _, ok := fmtp[key]; !ok {
			return ErrFormatInvalid{Field: key}
		}
	}

	bitDepth, err := strconv.ParseUint(fmtp["width"], 10, 31)
	if err != nil {
		return ErrFormatInvalid{Field: "width"}
	}
	f.BitDepth = int(bitDepth)

	dynamicRange, err := strconv.ParseUint(fmtp["dynamic-range"], 10, 8)
	if err != nil {
		return ErrFormatInvalid{Field: "dynamic-range"}
	}
	f.DynamicRange = uint8(dynamicRange)

	emphasis, err := strconv.ParseBool(fmtp["emphasis"])
	if err != nil {
		return ErrFormatInvalid{Field: "emphasis"}
	}
	f.Emphasis = emphasis

	mute, err := strconv.ParseBool(fmtp["mute"])
	if err != nil {
		return ErrFormatInvalid{Field: "mute"}
	}
	f.Mute = mute

	return f.validate()
}

// MarshalSDP encodes the format into a SDP media description.
func (f *StreamFormat) MarshalSDP(payloadType uint8) (*psdp.MediaDescription, error) {
	err := f.validate()
	if err != nil {
		return nil, err
	}

	typ := strconv.FormatUint(uint64(payloadType), 10)

	boolToString := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}

	fmtp := map[string]string{
		"width":         strconv.FormatInt(int64(f.BitDepth), 10),
		"dynamic-range": strconv.FormatInt(int64(f.DynamicRange), 10),
		"emphasis":      boolToString(f.Emphasis),
		"mute":          boolToString(f.Mute),
	}

	tmp := make([]string, len(fmtp))
	for i, key := range sortedKeys(fmtp) {
		tmp[i] = key + "=" + fmtp[key]
	}

	return &psdp.MediaDescription{
		MediaName: psdp.MediaName{
			Media:   "audio",
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{typ},
		},
		Attributes: []psdp.Attribute{
			{
				Key: "rtpmap",
				Value: typ + " " + sdpCodecName +
					"/" + strconv.FormatInt(int64(f.SampleRate), 10) +
					"/" + strconv.FormatInt(int64(f.ChannelCount), 10),
			},
			{
				Key:   "fmtp",
				Value: typ + " " + strings.Join(tmp, "; "),
			},
		},
	}, nil
}
