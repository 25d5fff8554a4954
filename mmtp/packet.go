// Package mmtp parses MMTP (MPEG Media Transport Protocol) packets
// carried inside a header-compressed IP TLV packet: the general header,
// extension headers (including the scrambling extension), and exposes
// the remaining payload bytes for the core to route by PayloadType.
//
// Field layout follows ISO/IEC 23008-1 (MMT) / ARIB STD-B60; the
// retrieved reference implementation's header files for this packet
// were not part of the example pack, so this is grounded directly on
// spec.md §3/§4.2 rather than a specific source file.
package mmtp

import (
	"errors"

	"github.com/zsiec/mmtdemux/tlv"
)

// PayloadType identifies what kind of payload an MMTP packet carries.
type PayloadType byte

const (
	PayloadTypeMPU                  PayloadType = 0x00
	PayloadTypeControlMessageAggregate PayloadType = 0x02
	PayloadTypeOther                PayloadType = 0xFF
)

func payloadTypeFromBits(v byte) PayloadType {
	switch v & 0x3F {
	case 0x00:
		return PayloadTypeMPU
	case 0x02:
		return PayloadTypeControlMessageAggregate
	default:
		return PayloadTypeOther
	}
}

// EncryptionFlag is the scrambling extension header's encryption state.
type EncryptionFlag byte

const (
	EncryptionNone     EncryptionFlag = 0
	EncryptionReserved EncryptionFlag = 1
	EncryptionEven     EncryptionFlag = 2
	EncryptionOdd      EncryptionFlag = 3
)

// extensionType values recognized inside the MMTP extension header area.
const extensionTypeScrambling uint16 = 0x0000

// Scrambling is the parsed scrambling extension header.
type Scrambling struct {
	EncryptionFlag EncryptionFlag
	ScrambleOn     bool
}

// Packet is a decoded MMTP packet. Payload is a view over the caller's
// buffer (descrambling decrypts it in place, so the caller's bytes
// change too) and must not be retained past the current process_packet
// call without copying.
type Packet struct {
	Version                uint8
	PacketID                uint16
	PacketSequenceNumber    uint32
	Timestamp                uint32
	PayloadType              PayloadType
	RAPFlag                  bool
	Scrambling               *Scrambling
	Payload                  []byte
}

// ErrTruncated is returned when the buffer ends before a declared
// field or extension header can be fully read.
var ErrTruncated = errors.New("mmtp: truncated packet")

// Decode parses one MMTP packet from r. r should be a bounded reader
// over exactly the header-compressed-IP TLV payload (after any IP/UDP
// header compression has already been stripped by the caller), so
// whatever remains in r after header/extension parsing is the MMTP
// payload.
func Decode(r *tlv.ByteReader) (Packet, error) {
	b0, err := r.ReadU8()
	if err != nil {
		return Packet{}, ErrTruncated
	}
	version := b0 >> 6
	packetCounterFlag := b0&0x20 != 0
	extensionFlag := b0&0x08 != 0
	rapFlag := b0&0x04 != 0

	b1, err := r.ReadU8()
	if err != nil {
		return Packet{}, ErrTruncated
	}
	payloadType := payloadTypeFromBits(b1)

	packetID, err := r.ReadBE16()
	if err != nil {
		return Packet{}, ErrTruncated
	}
	timestamp, err := r.ReadBE32()
	if err != nil {
		return Packet{}, ErrTruncated
	}
	packetSequenceNumber, err := r.ReadBE32()
	if err != nil {
		return Packet{}, ErrTruncated
	}
	if packetCounterFlag {
		if _, err := r.ReadBE32(); err != nil {
			return Packet{}, ErrTruncated
		}
	}

	pkt := Packet{
		Version:              version,
		PacketID:              packetID,
		PacketSequenceNumber:  packetSequenceNumber,
		Timestamp:              timestamp,
		PayloadType:            payloadType,
		RAPFlag:                rapFlag,
	}

	if extensionFlag {
		if err := decodeExtensionHeaders(r, &pkt); err != nil {
			return Packet{}, err
		}
	}

	pkt.Payload, err = r.ReadBytes(r.Remaining())
	if err != nil {
		return Packet{}, ErrTruncated
	}
	return pkt, nil
}

// decodeExtensionHeaders reads the extension_type/extension_length
// header and walks the extension_header area length-delimited
// sub-structures, recognizing the scrambling extension and skipping
// any other extension type unchanged.
func decodeExtensionHeaders(r *tlv.ByteReader, pkt *Packet) error {
	extensionLength, err := r.ReadBE16()
	if err != nil {
		return ErrTruncated
	}
	ext, err := r.SubReader(int(extensionLength))
	if err != nil {
		return ErrTruncated
	}

	for ext.Remaining() >= 4 {
		extType, err := ext.ReadBE16()
		if err != nil {
			return ErrTruncated
		}
		extLen, err := ext.ReadBE16()
		if err != nil {
			return ErrTruncated
		}
		body, err := ext.SubReader(int(extLen))
		if err != nil {
			return ErrTruncated
		}

		if extType == extensionTypeScrambling {
			s, err := decodeScrambling(body)
			if err != nil {
				return err
			}
			pkt.Scrambling = &s
		}
	}
	return nil
}

func decodeScrambling(r *tlv.ByteReader) (Scrambling, error) {
	b, err := r.ReadU8()
	if err != nil {
		return Scrambling{}, ErrTruncated
	}
	return Scrambling{
		EncryptionFlag: EncryptionFlag((b >> 6) & 0x03),
		ScrambleOn:     b&0x20 != 0,
	}, nil
}
