package tlv

// PacketType identifies the kind of payload a TLV packet carries.
type PacketType byte

// Sync byte that begins every TLV packet.
const SyncByte = 0x7F

// TLV packet types, ARIB STD-B60.
const (
	PacketTypeIPv6                    PacketType = 0x01
	PacketTypeHeaderCompressedIP      PacketType = 0x02
	PacketTypeTransmissionControlSignal PacketType = 0x03
	// PacketTypeReserved04 is accepted by the framer as a defined-but-
	// reserved type per spec.md §9's resolved open question; the
	// dispatcher ignores it.
	PacketTypeReserved04 PacketType = 0x04
)

// isValidPacketType reports whether b is a type the framer accepts:
// 0x00-0x04 or 0xFD-0xFF. This mirrors the corrected reading of
// isVaildTlv in the original implementation (`> 0x04 && < 0xFD` rejects),
// which in particular accepts 0x00 despite it not being independently
// meaningful; no broadcast profile emits it so this has no practical
// effect beyond matching the reference behavior exactly.
func isValidPacketType(b byte) bool {
	return b <= 0x04 || b >= 0xFD
}

// Result is the outcome of TryConsume.
type Result int

const (
	// ResultFramed indicates a complete, valid TLV packet was consumed.
	ResultFramed Result = iota
	// ResultNeedMoreBytes indicates the reader does not yet hold a full
	// packet; the reader is left unconsumed so the caller can retry once
	// more bytes have arrived.
	ResultNeedMoreBytes
	// ResultResync indicates invalid framing; exactly one byte was
	// consumed and the caller should call TryConsume again.
	ResultResync
)

// Packet is a framed TLV packet: its type and its payload, exposed as a
// bounded ByteReader the payload decoders cannot read beyond.
type Packet struct {
	Type    PacketType
	Payload *ByteReader
}

// TryConsume attempts to frame one TLV packet from the front of r.
//
// On ResultFramed, r has advanced past the framed packet and pkt is
// populated. On ResultNeedMoreBytes, r is untouched. On ResultResync, r
// has advanced by exactly one byte; the caller must loop, calling
// TryConsume again, until framing succeeds or the buffer is exhausted —
// this one-byte-at-a-time resync is the sole recovery mechanism for
// transport corruption at the framing layer.
func TryConsume(r *ByteReader) (pkt Packet, result Result) {
	header, err := r.Peek(4)
	if err != nil {
		return Packet{}, ResultNeedMoreBytes
	}

	if header[0] != SyncByte || !isValidPacketType(header[1]) {
		_ = r.Skip(1)
		return Packet{}, ResultResync
	}

	dataLength := int(header[2])<<8 | int(header[3])
	if r.Remaining() < 4+dataLength {
		return Packet{}, ResultNeedMoreBytes
	}

	_ = r.Skip(4)
	payload, err := r.SubReader(dataLength)
	if err != nil {
		// Unreachable given the Remaining() check above, but keeps the
		// reader's contract (never read past data_length) load-bearing
		// rather than assumed.
		return Packet{}, ResultNeedMoreBytes
	}

	return Packet{Type: PacketType(header[1]), Payload: payload}, ResultFramed
}
