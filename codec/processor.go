// Package codec implements the per-asset-type MFU (Media Fragment Unit)
// processors invoked by the demux package once a fragment assembler has
// reassembled a complete data unit. Processors are stateful — one is
// owned per elementary stream — and are created through Factory, keyed
// by AssetType.
package codec

// AssetType identifies the MMT Package Table asset type of an elementary
// stream. Only these four are recognized by the stream registry; any
// other in-band asset referenced by an MPT is ignored.
type AssetType uint32

// MMT asset type fourCCs, as carried in the MPT asset_type field.
const (
	AssetTypeHEVC        AssetType = 0x68657631 // "hev1"
	AssetTypeAAC         AssetType = 0x6d703461 // "mp4a"
	AssetTypeTTML        AssetType = 0x73747070 // "stpp"
	AssetTypeApplication AssetType = 0x61617070 // "aapp"
)

// String renders the asset type's fourCC for logging.
func (a AssetType) String() string {
	return string([]byte{byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)})
}

// StreamState is the subset of elementary-stream state a processor needs
// to assign presentation/decoding timestamps and a stream index to the
// access unit it is building. Implemented by *stream.ElementaryStream;
// kept as an interface here so codec does not import stream (stream
// imports codec for AssetType, Factory and Processor).
type StreamState interface {
	StreamIndex() int
	LastMPUSequenceNumber() uint32
	NextAUIndex() int
	Timebase() (num, den uint32)
	RAPFlag() bool
}

// Flags describes properties of a decoded access unit.
type Flags struct {
	RandomAccess bool // this AU is a random access point (IDR/CRA/key sample)
}

// MfuData is the uniform output of a Processor: a fully reassembled,
// codec-specific access unit ready for delivery to the consumer.
type MfuData struct {
	StreamIndex int
	PTS         int64
	DTS         int64
	Payload     []byte
	Flags       Flags
}

// Processor converts one reassembled MFU data unit into zero or one
// access units. It returns ok=false when the unit does not yet form a
// complete, deliverable access unit (the core never calls Process with
// a unit that depends on previous calls for framing beyond what the
// processor itself buffers).
type Processor interface {
	Process(state StreamState, raw []byte) (data MfuData, ok bool)
}

// Factory returns a fresh Processor for the given asset type, or nil if
// the asset type has no registered processor.
func Factory(asset AssetType) Processor {
	switch asset {
	case AssetTypeHEVC:
		return NewHEVCProcessor()
	case AssetTypeAAC:
		return NewAACProcessor()
	case AssetTypeTTML:
		return NewTTMLProcessor()
	case AssetTypeApplication:
		return NewApplicationProcessor()
	default:
		return nil
	}
}
