// Package ntp decodes the IPv6/UDP/NTPv4 side channel the demuxer pulls
// timing information from (spec.md §4.9), independent of the MMTP
// machinery. Grounded on the original implementation's use of
// IPv6Header/UDPHeader/NTPv4 inside MmtTlvDemuxer::processPacket, and
// read through the same tlv.ByteReader cursor as the other parsers.
package ntp

import (
	"errors"
	"time"

	"github.com/zsiec/mmtdemux/tlv"
)

// ErrTruncated is returned when a header's declared length exceeds what
// remains in the supplied reader.
var ErrTruncated = errors.New("ntp: truncated header")

// ProtocolUDP is the IPv6 next-header value for UDP.
const ProtocolUDP = 17

// PortNTP is the well-known UDP port NTP is carried on.
const PortNTP = 123

// IPv6Header is the fixed 40-byte IPv6 header.
type IPv6Header struct {
	TrafficClass byte
	FlowLabel    uint32
	PayloadLen   uint16
	NextHeader   byte
	HopLimit     byte
	Source       [16]byte
	Destination  [16]byte
}

// ParseIPv6Header reads a fixed IPv6 header from r.
func ParseIPv6Header(r *tlv.ByteReader) (*IPv6Header, error) {
	word, err := r.ReadBE32()
	if err != nil {
		return nil, ErrTruncated
	}
	h := &IPv6Header{
		TrafficClass: byte(word >> 20),
		FlowLabel:    word & 0x000FFFFF,
	}

	h.PayloadLen, err = r.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	h.NextHeader, err = r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	h.HopLimit, err = r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}

	src, err := r.ReadBytes(16)
	if err != nil {
		return nil, ErrTruncated
	}
	copy(h.Source[:], src)

	dst, err := r.ReadBytes(16)
	if err != nil {
		return nil, ErrTruncated
	}
	copy(h.Destination[:], dst)

	return h, nil
}

// UDPHeader is the fixed 8-byte UDP header.
type UDPHeader struct {
	SourcePort      uint16
	DestinationPort uint16
	Length          uint16
	Checksum        uint16
}

// ParseUDPHeader reads a fixed UDP header from r.
func ParseUDPHeader(r *tlv.ByteReader) (*UDPHeader, error) {
	h := &UDPHeader{}
	var err error
	if h.SourcePort, err = r.ReadBE16(); err != nil {
		return nil, ErrTruncated
	}
	if h.DestinationPort, err = r.ReadBE16(); err != nil {
		return nil, ErrTruncated
	}
	if h.Length, err = r.ReadBE16(); err != nil {
		return nil, ErrTruncated
	}
	if h.Checksum, err = r.ReadBE16(); err != nil {
		return nil, ErrTruncated
	}
	return h, nil
}

// ntpEpochOffset is the number of seconds between the NTP epoch
// (1900-01-01) and the Unix epoch (1970-01-01).
const ntpEpochOffset = 2208988800

// Timestamp is a 64-bit NTP short/long format timestamp: 32 bits of
// whole seconds since the NTP epoch, 32 bits of a binary fraction.
type Timestamp uint64

// Time converts an NTP timestamp to a time.Time.
func (t Timestamp) Time() time.Time {
	seconds := int64(t>>32) - ntpEpochOffset
	frac := uint32(t)
	nanos := int64(frac) * 1e9 / (1 << 32)
	return time.Unix(seconds, nanos).UTC()
}

// Packet is a decoded NTPv4 packet.
type Packet struct {
	LeapIndicator byte
	Version       byte
	Mode          byte
	Stratum       byte
	Poll          int8
	Precision     int8
	RootDelay     uint32
	RootDispersion uint32
	ReferenceID   uint32
	ReferenceTime Timestamp
	OriginTime    Timestamp
	ReceiveTime   Timestamp
	TransmitTime  Timestamp
}

// Parse reads an NTPv4 packet's 48-byte fixed header.
func Parse(r *tlv.ByteReader) (*Packet, error) {
	b, err := r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	p := &Packet{
		LeapIndicator: (b & 0xC0) >> 6,
		Version:       (b & 0x38) >> 3,
		Mode:          b & 0x07,
	}

	if p.Stratum, err = r.ReadU8(); err != nil {
		return nil, ErrTruncated
	}
	poll, err := r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	p.Poll = int8(poll)
	precision, err := r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	p.Precision = int8(precision)

	if p.RootDelay, err = r.ReadBE32(); err != nil {
		return nil, ErrTruncated
	}
	if p.RootDispersion, err = r.ReadBE32(); err != nil {
		return nil, ErrTruncated
	}
	if p.ReferenceID, err = r.ReadBE32(); err != nil {
		return nil, ErrTruncated
	}

	ref, err := r.ReadBE64()
	if err != nil {
		return nil, ErrTruncated
	}
	p.ReferenceTime = Timestamp(ref)

	origin, err := r.ReadBE64()
	if err != nil {
		return nil, ErrTruncated
	}
	p.OriginTime = Timestamp(origin)

	recv, err := r.ReadBE64()
	if err != nil {
		return nil, ErrTruncated
	}
	p.ReceiveTime = Timestamp(recv)

	xmit, err := r.ReadBE64()
	if err != nil {
		return nil, ErrTruncated
	}
	p.TransmitTime = Timestamp(xmit)

	return p, nil
}
