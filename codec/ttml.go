package codec

import "bytes"

// TTMLProcessor passes through a complete MMT TTML (subtitle) MFU as one
// access unit. TTML documents in MMT are delivered one-per-MFU (ARIB
// STD-B60 subtitle profile), so no reassembly beyond the core's fragment
// assembler is needed here.
type TTMLProcessor struct{}

// NewTTMLProcessor returns a fresh TTML MFU processor.
func NewTTMLProcessor() *TTMLProcessor {
	return &TTMLProcessor{}
}

// Process implements Processor.
func (p *TTMLProcessor) Process(state StreamState, raw []byte) (MfuData, bool) {
	if len(raw) == 0 {
		return MfuData{}, false
	}

	return MfuData{
		StreamIndex: state.StreamIndex(),
		Payload:     raw,
		Flags:       Flags{RandomAccess: true},
	}, true
}

// looksLikeXML is a cheap well-formedness sniff used by tests and
// diagnostics; it does not gate delivery.
func looksLikeXML(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '<'
}
