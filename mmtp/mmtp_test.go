package mmtp

import (
	"testing"

	"github.com/zsiec/mmtdemux/tlv"
)

func buildMMTPHeader(packetID uint16, seq, timestamp uint32, payloadType byte, rap bool, ext []byte, payload []byte) []byte {
	b0 := byte(0) // version 0, no packet counter
	if len(ext) > 0 {
		b0 |= 0x08
	}
	if rap {
		b0 |= 0x04
	}
	buf := []byte{b0, payloadType}
	buf = append(buf, byte(packetID>>8), byte(packetID))
	buf = append(buf, byte(timestamp>>24), byte(timestamp>>16), byte(timestamp>>8), byte(timestamp))
	buf = append(buf, byte(seq>>24), byte(seq>>16), byte(seq>>8), byte(seq))
	if len(ext) > 0 {
		buf = append(buf, byte(len(ext)>>8), byte(len(ext)))
		buf = append(buf, ext...)
	}
	buf = append(buf, payload...)
	return buf
}

func buildScramblingExtension(flag EncryptionFlag) []byte {
	body := []byte{byte(flag) << 6}
	ext := []byte{0x00, 0x00, 0x00, byte(len(body))}
	ext = append(ext, body...)
	return ext
}

func TestDecode_PlainMPU(t *testing.T) {
	t.Parallel()

	raw := buildMMTPHeader(0x1234, 100, 5000, 0x00, true, nil, []byte{0xDE, 0xAD})
	pkt, err := Decode(tlv.NewByteReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt.PacketID != 0x1234 {
		t.Errorf("packet id = %x, want 0x1234", pkt.PacketID)
	}
	if pkt.PacketSequenceNumber != 100 {
		t.Errorf("seq = %d, want 100", pkt.PacketSequenceNumber)
	}
	if !pkt.RAPFlag {
		t.Error("expected RAP flag set")
	}
	if pkt.PayloadType != PayloadTypeMPU {
		t.Errorf("payload type = %v, want MPU", pkt.PayloadType)
	}
	if string(pkt.Payload) != "\xDE\xAD" {
		t.Errorf("payload = %x", pkt.Payload)
	}
	if pkt.Scrambling != nil {
		t.Error("expected no scrambling extension")
	}
}

func TestDecode_ScramblingExtension(t *testing.T) {
	t.Parallel()

	ext := buildScramblingExtension(EncryptionOdd)
	raw := buildMMTPHeader(1, 1, 0, 0x02, false, ext, []byte{0x01})
	pkt, err := Decode(tlv.NewByteReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt.Scrambling == nil {
		t.Fatal("expected scrambling extension to be parsed")
	}
	if pkt.Scrambling.EncryptionFlag != EncryptionOdd {
		t.Errorf("encryption flag = %v, want Odd", pkt.Scrambling.EncryptionFlag)
	}
	if pkt.PayloadType != PayloadTypeControlMessageAggregate {
		t.Errorf("payload type = %v, want ControlMessageAggregate", pkt.PayloadType)
	}
}

func TestDecode_Truncated(t *testing.T) {
	t.Parallel()

	_, err := Decode(tlv.NewByteReader([]byte{0x00, 0x00}))
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}
