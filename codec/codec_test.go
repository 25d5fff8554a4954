package codec

import (
	"encoding/binary"
	"testing"
)

type fakeStreamState struct {
	index int
	rap   bool
}

func (f fakeStreamState) StreamIndex() int             { return f.index }
func (f fakeStreamState) LastMPUSequenceNumber() uint32 { return 0 }
func (f fakeStreamState) NextAUIndex() int             { return 0 }
func (f fakeStreamState) Timebase() (uint32, uint32)   { return 1, 90000 }
func (f fakeStreamState) RAPFlag() bool                { return f.rap }

func lengthPrefixedNAL(nalType byte, payload ...byte) []byte {
	nal := append([]byte{nalType << 1, 0}, payload...)
	buf := make([]byte, 4+len(nal))
	binary.BigEndian.PutUint32(buf, uint32(len(nal)))
	copy(buf[4:], nal)
	return buf
}

func TestHEVCProcessor_AssemblesAnnexB(t *testing.T) {
	t.Parallel()

	raw := append(lengthPrefixedNAL(hevcNALVPS, 0x01), lengthPrefixedNAL(hevcNALIDRWRadl, 0x02, 0x03)...)

	p := NewHEVCProcessor()
	data, ok := p.Process(fakeStreamState{index: 2}, raw)
	if !ok {
		t.Fatal("expected a complete access unit")
	}
	if !p.sawParameterSets {
		t.Error("expected parameter sets to be recorded")
	}
	if !data.Flags.RandomAccess {
		t.Error("expected random access flag from IDR NAL")
	}
	if data.StreamIndex != 2 {
		t.Errorf("stream index = %d, want 2", data.StreamIndex)
	}
	// Two NALs, each prefixed with a 4-byte Annex B start code.
	wantStartCodes := 2
	gotStartCodes := 0
	for i := 0; i+3 < len(data.Payload); i++ {
		if data.Payload[i] == 0 && data.Payload[i+1] == 0 && data.Payload[i+2] == 0 && data.Payload[i+3] == 1 {
			gotStartCodes++
		}
	}
	if gotStartCodes != wantStartCodes {
		t.Errorf("start codes = %d, want %d", gotStartCodes, wantStartCodes)
	}
}

func TestHEVCProcessor_TruncatedLengthRejected(t *testing.T) {
	t.Parallel()

	p := NewHEVCProcessor()
	if _, ok := p.Process(fakeStreamState{}, []byte{0, 0, 0}); ok {
		t.Fatal("expected truncated length prefix to be rejected")
	}
}

func TestAACProcessor_PassesThroughAndSniffsADTS(t *testing.T) {
	t.Parallel()

	adts := []byte{0xFF, 0xF1, 0x4C, 0x80, 0x00, 0x1F, 0xFC}
	rate, ch, ok := sniffADTS(adts)
	if !ok {
		t.Fatal("expected ADTS sniff to succeed")
	}
	if rate != 48000 {
		t.Errorf("sample rate = %d, want 48000", rate)
	}
	if ch != 2 {
		t.Errorf("channels = %d, want 2", ch)
	}

	p := NewAACProcessor()
	data, ok := p.Process(fakeStreamState{index: 1, rap: true}, adts)
	if !ok {
		t.Fatal("expected AAC processor to emit data")
	}
	if string(data.Payload) != string(adts) {
		t.Error("expected AAC payload to pass through unmodified")
	}
	if !data.Flags.RandomAccess {
		t.Error("expected RAP to propagate")
	}
}

func TestTTMLProcessor(t *testing.T) {
	t.Parallel()

	doc := []byte(`<tt xmlns="http://www.w3.org/ns/ttml"></tt>`)
	if !looksLikeXML(doc) {
		t.Error("expected TTML document to look like XML")
	}

	p := NewTTMLProcessor()
	data, ok := p.Process(fakeStreamState{index: 3}, doc)
	if !ok {
		t.Fatal("expected TTML processor to emit data")
	}
	if data.StreamIndex != 3 {
		t.Errorf("stream index = %d, want 3", data.StreamIndex)
	}
}

func TestApplicationProcessor(t *testing.T) {
	t.Parallel()

	p := NewApplicationProcessor()
	data, ok := p.Process(fakeStreamState{index: 4}, []byte{0x01, 0x02})
	if !ok {
		t.Fatal("expected application processor to emit data")
	}
	if data.StreamIndex != 4 {
		t.Errorf("stream index = %d, want 4", data.StreamIndex)
	}
}

func TestFactory(t *testing.T) {
	t.Parallel()

	cases := []AssetType{AssetTypeHEVC, AssetTypeAAC, AssetTypeTTML, AssetTypeApplication}
	for _, asset := range cases {
		if Factory(asset) == nil {
			t.Errorf("Factory(%v) = nil", asset)
		}
	}
	if Factory(AssetType(0)) != nil {
		t.Error("Factory(0) should be nil for unrecognized asset types")
	}
}
