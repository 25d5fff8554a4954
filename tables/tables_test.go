package tables

import (
	"testing"

	"github.com/zsiec/mmtdemux/tlv"
)

func TestParse_Mpt(t *testing.T) {
	t.Parallel()

	raw := []byte{byte(TableIDMpt), 0, 0, 0} // table id + 3-byte skipped header
	raw = append(raw, 1)                     // asset count = 1
	raw = append(raw, 'h', 'e', 'v', '1')    // asset type
	raw = append(raw, 1)                     // location count
	raw = append(raw, 0, 0, 1)               // locationType=0, packetId=1
	raw = append(raw, 0, 0)                  // descriptors length = 0

	tbl, ok, err := Parse(tlv.NewByteReader(raw))
	if err != nil || !ok {
		t.Fatalf("Parse: ok=%v err=%v", ok, err)
	}
	mpt, ok := tbl.(*Mpt)
	if !ok {
		t.Fatalf("wrong type %T", tbl)
	}
	if len(mpt.Assets) != 1 {
		t.Fatalf("assets = %d, want 1", len(mpt.Assets))
	}
	a := mpt.Assets[0]
	if a.AssetType != AssetTypeHEV1 {
		t.Errorf("assetType = %x", a.AssetType)
	}
	if len(a.LocationInfos) != 1 || a.LocationInfos[0].PacketID != 1 {
		t.Errorf("locations = %+v", a.LocationInfos)
	}
}

func TestParse_Ecm(t *testing.T) {
	t.Parallel()

	raw := []byte{byte(TableIDEcm), 0, 0, 0}
	raw = append(raw, []byte("keybytes")...)

	tbl, ok, err := Parse(tlv.NewByteReader(raw))
	if err != nil || !ok {
		t.Fatalf("Parse: ok=%v err=%v", ok, err)
	}
	ecm, ok := tbl.(*Ecm)
	if !ok {
		t.Fatalf("wrong type %T", tbl)
	}
	if string(ecm.EcmData) != "keybytes" {
		t.Errorf("EcmData = %q", ecm.EcmData)
	}
}

func TestParse_UnknownTableID(t *testing.T) {
	t.Parallel()

	raw := []byte{0xFF, 0x01, 0x02}
	tbl, ok, err := Parse(tlv.NewByteReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ok || tbl != nil {
		t.Fatalf("expected unrecognized table id to be skipped, got ok=%v tbl=%v", ok, tbl)
	}
}

func TestParse_MhBit(t *testing.T) {
	t.Parallel()

	raw := []byte{byte(TableIDMhBit)}
	raw = append(raw, 0x80, 0x08) // sectionSyntaxIndicator=1, sectionLength=8
	raw = append(raw, 0x00, 0x01) // originalNetworkId
	raw = append(raw, 0x03)       // version/currentNext
	raw = append(raw, 0x00)       // sectionNumber
	raw = append(raw, 0x00)       // lastSectionNumber
	raw = append(raw, 0x00, 0x00) // firstDescriptorsLength = 0
	raw = append(raw, 1)          // broadcasterId
	raw = append(raw, 0x00, 0x00) // broadcasterDescriptorsLength = 0
	raw = append(raw, 0, 0, 0, 1) // crc32

	tbl, ok, err := Parse(tlv.NewByteReader(raw))
	if err != nil || !ok {
		t.Fatalf("Parse: ok=%v err=%v", ok, err)
	}
	bit, ok := tbl.(*MhBit)
	if !ok {
		t.Fatalf("wrong type %T", tbl)
	}
	if !bit.SectionSyntaxIndicator || bit.OriginalNetworkID != 1 {
		t.Errorf("bit = %+v", bit)
	}
	if len(bit.Broadcasters) != 1 || bit.Broadcasters[0].BroadcasterID != 1 {
		t.Errorf("broadcasters = %+v", bit.Broadcasters)
	}
	if bit.CRC32 != 1 {
		t.Errorf("crc32 = %d", bit.CRC32)
	}
}

func TestParsePaMessage_IteratesTables(t *testing.T) {
	t.Parallel()

	ecm := []byte{byte(TableIDEcm), 0, 0, 0}
	ecm = append(ecm, []byte("abcd")...)

	body := append([]byte{byte(MessageIDPA >> 8), byte(MessageIDPA)}, 0x01) // id + version
	body = append(body, byte(len(ecm)>>8), byte(len(ecm)))
	body = append(body, ecm...)

	pa, err := ParsePaMessage(tlv.NewByteReader(body))
	if err != nil {
		t.Fatalf("ParsePaMessage: %v", err)
	}

	var got []Table
	for !pa.Tables.AtEOF() {
		tbl, ok, err := Parse(pa.Tables)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if ok {
			got = append(got, tbl)
		}
	}
	if len(got) != 1 {
		t.Fatalf("got %d tables, want 1", len(got))
	}
	if _, ok := got[0].(*Ecm); !ok {
		t.Fatalf("wrong type %T", got[0])
	}
}
