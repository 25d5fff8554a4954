package codec

// ApplicationProcessor passes through a complete MMT application-data
// MFU (broadcast-application / data-broadcasting asset) unmodified.
type ApplicationProcessor struct{}

// NewApplicationProcessor returns a fresh application-data MFU processor.
func NewApplicationProcessor() *ApplicationProcessor {
	return &ApplicationProcessor{}
}

// Process implements Processor.
func (p *ApplicationProcessor) Process(state StreamState, raw []byte) (MfuData, bool) {
	if len(raw) == 0 {
		return MfuData{}, false
	}

	return MfuData{
		StreamIndex: state.StreamIndex(),
		Payload:     raw,
	}, true
}
