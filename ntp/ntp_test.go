package ntp

import (
	"testing"
	"time"

	"github.com/zsiec/mmtdemux/tlv"
)

func TestParseIPv6Header(t *testing.T) {
	t.Parallel()

	raw := []byte{0x60, 0x00, 0x00, 0x00} // version=6
	raw = append(raw, 0x00, 0x08) // payload length = 8
	raw = append(raw, ProtocolUDP, 64)
	raw = append(raw, make([]byte, 16)...) // source
	raw = append(raw, make([]byte, 16)...) // destination

	h, err := ParseIPv6Header(tlv.NewByteReader(raw))
	if err != nil {
		t.Fatalf("ParseIPv6Header: %v", err)
	}
	if h.NextHeader != ProtocolUDP || h.PayloadLen != 8 || h.HopLimit != 64 {
		t.Errorf("header = %+v", h)
	}
}

func TestParseUDPHeader(t *testing.T) {
	t.Parallel()

	raw := []byte{0x00, 0x7B, 0x00, 0x7B, 0x00, 0x30, 0x00, 0x00} // src=dst=123
	h, err := ParseUDPHeader(tlv.NewByteReader(raw))
	if err != nil {
		t.Fatalf("ParseUDPHeader: %v", err)
	}
	if h.DestinationPort != PortNTP {
		t.Errorf("DestinationPort = %d, want %d", h.DestinationPort, PortNTP)
	}
}

func TestParseNTP_RoundTripsEpoch(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 48)
	raw[0] = 0x23 // LI=0, VN=4, Mode=3 (client)

	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seconds := uint32(want.Unix() + ntpEpochOffset)
	raw[40] = byte(seconds >> 24)
	raw[41] = byte(seconds >> 16)
	raw[42] = byte(seconds >> 8)
	raw[43] = byte(seconds)

	p, err := Parse(tlv.NewByteReader(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Version != 4 || p.Mode != 3 {
		t.Errorf("version/mode = %d/%d", p.Version, p.Mode)
	}
	got := p.TransmitTime.Time()
	if !got.Equal(want) {
		t.Errorf("TransmitTime = %v, want %v", got, want)
	}
}
