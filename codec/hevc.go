package codec

import (
	"encoding/binary"
	"fmt"
)

// H.265/HEVC NAL unit type constants, ITU-T H.265 Table 7-1.
const (
	hevcNALBlaWLP   = 16
	hevcNALIDRWRadl = 19
	hevcNALIDRNlp   = 20
	hevcNALCraNut   = 21
	hevcNALVPS      = 32
	hevcNALSPS      = 33
	hevcNALPPS      = 34
)

var annexBStartCode = []byte{0, 0, 0, 1}

// hevcNALType extracts the NAL unit type from the 2-byte HEVC NAL header:
// forbidden(1) | type(6) | layerID_high(1).
func hevcNALType(firstByte byte) byte {
	return (firstByte >> 1) & 0x3F
}

// hevcIsRandomAccess reports whether the NAL type is a random access
// point (BLA, IDR, or CRA).
func hevcIsRandomAccess(nalType byte) bool {
	return nalType >= hevcNALBlaWLP && nalType <= hevcNALCraNut
}

// HEVCProcessor assembles MMT HEVC MFUs — a sequence of 4-byte
// length-prefixed NAL units, per the ARIB MFU HEVC data unit format —
// into an Annex B access unit ready for an HEVC decoder.
//
// One processor is owned per elementary stream so it can track whether
// VPS/SPS/PPS have been seen for this stream without requiring the
// consumer to re-parse the Annex B output.
type HEVCProcessor struct {
	sawParameterSets bool
}

// NewHEVCProcessor returns a fresh HEVC MFU processor.
func NewHEVCProcessor() *HEVCProcessor {
	return &HEVCProcessor{}
}

// Process implements Processor.
func (p *HEVCProcessor) Process(state StreamState, raw []byte) (MfuData, bool) {
	nalus, err := splitLengthPrefixedNALUs(raw)
	if err != nil || len(nalus) == 0 {
		return MfuData{}, false
	}

	var au []byte
	randomAccess := false
	for _, nalu := range nalus {
		if len(nalu) < 2 {
			continue
		}
		nalType := hevcNALType(nalu[0])
		switch nalType {
		case hevcNALVPS, hevcNALSPS, hevcNALPPS:
			p.sawParameterSets = true
		}
		if hevcIsRandomAccess(nalType) {
			randomAccess = true
		}
		au = append(au, annexBStartCode...)
		au = append(au, nalu...)
	}
	if len(au) == 0 {
		return MfuData{}, false
	}

	return MfuData{
		StreamIndex: state.StreamIndex(),
		Payload:     au,
		Flags:       Flags{RandomAccess: randomAccess || state.RAPFlag()},
	}, true
}

// splitLengthPrefixedNALUs splits a byte stream of {uint32 length, NAL
// bytes} records, the framing MMT uses for HEVC MFU data units, into
// individual NAL payloads.
func splitLengthPrefixedNALUs(data []byte) ([][]byte, error) {
	var nalus [][]byte
	offset := 0
	for offset < len(data) {
		if len(data)-offset < 4 {
			return nil, fmt.Errorf("codec: truncated HEVC NAL length prefix at offset %d", offset)
		}
		length := binary.BigEndian.Uint32(data[offset:])
		offset += 4
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, fmt.Errorf("codec: HEVC NAL length %d exceeds remaining buffer", length)
		}
		nalus = append(nalus, data[offset:offset+int(length)])
		offset += int(length)
	}
	return nalus, nil
}
