package codec

// AAC sample rate index table, ISO/IEC 14496-3.
var aacSampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000, 7350,
}

// AACProcessor passes through a complete MMT AAC MFU (one raw access
// unit per data unit, ARIB STD-B60) as a single access unit. The
// payload delivered to the consumer is the unmodified MFU bytes; Process
// does not inspect them. sniffADTS can read sample rate and channel
// count from an ADTS-wrapped frame, but Process does not call it.
type AACProcessor struct{}

// NewAACProcessor returns a fresh AAC MFU processor.
func NewAACProcessor() *AACProcessor {
	return &AACProcessor{}
}

// Process implements Processor.
func (p *AACProcessor) Process(state StreamState, raw []byte) (MfuData, bool) {
	if len(raw) == 0 {
		return MfuData{}, false
	}

	return MfuData{
		StreamIndex: state.StreamIndex(),
		Payload:     raw,
		Flags:       Flags{RandomAccess: state.RAPFlag()},
	}, true
}

// sniffADTS reports the sample rate and channel count of an ADTS-framed
// AAC frame, if raw begins with a valid ADTS sync word.
func sniffADTS(raw []byte) (sampleRate, channels int, ok bool) {
	if len(raw) < 7 {
		return 0, 0, false
	}
	if raw[0] != 0xFF || raw[1]&0xF0 != 0xF0 {
		return 0, 0, false
	}
	idx := (raw[2] >> 2) & 0x0F
	if int(idx) >= len(aacSampleRates) {
		return 0, 0, false
	}
	ch := ((raw[2] & 0x01) << 2) | ((raw[3] >> 6) & 0x03)
	return aacSampleRates[idx], int(ch), true
}
