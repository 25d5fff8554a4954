package tlv

import "testing"

func buildTLVPacket(packetType byte, payload []byte) []byte {
	buf := make([]byte, 4+len(payload))
	buf[0] = SyncByte
	buf[1] = packetType
	buf[2] = byte(len(payload) >> 8)
	buf[3] = byte(len(payload))
	copy(buf[4:], payload)
	return buf
}

func TestByteReader_Reads(t *testing.T) {
	t.Parallel()

	r := NewByteReader([]byte{0x01, 0x02, 0x03, 0x04, 0xAA})
	if b, err := r.ReadU8(); err != nil || b != 0x01 {
		t.Fatalf("ReadU8 = %x, %v", b, err)
	}
	if v, err := r.ReadBE16(); err != nil || v != 0x0203 {
		t.Fatalf("ReadBE16 = %x, %v", v, err)
	}
	sub, err := r.SubReader(2)
	if err != nil {
		t.Fatalf("SubReader: %v", err)
	}
	if sub.Remaining() != 2 {
		t.Fatalf("sub reader remaining = %d, want 2", sub.Remaining())
	}
	if !r.AtEOF() {
		t.Fatal("expected parent reader exhausted after SubReader consumed remainder")
	}
	if _, err := sub.ReadBytes(3); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer reading past sub-reader bound, got %v", err)
	}
}

func TestByteReader_ShortBuffer(t *testing.T) {
	t.Parallel()

	r := NewByteReader([]byte{0x01})
	if _, err := r.ReadBE32(); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	// A failed read must not advance the cursor.
	if r.Pos() != 0 {
		t.Fatalf("pos = %d, want 0 after failed read", r.Pos())
	}
}

func TestTryConsume_FramingResync(t *testing.T) {
	t.Parallel()

	// 0xAA is garbage; a valid TLV packet with a 1-byte payload follows.
	data := append([]byte{0xAA}, buildTLVPacket(0x03, []byte{0x42})...)
	r := NewByteReader(data)

	_, result := TryConsume(r)
	if result != ResultResync {
		t.Fatalf("first TryConsume = %v, want ResultResync", result)
	}
	if r.Pos() != 1 {
		t.Fatalf("pos after resync = %d, want 1", r.Pos())
	}

	pkt, result := TryConsume(r)
	if result != ResultFramed {
		t.Fatalf("second TryConsume = %v, want ResultFramed", result)
	}
	if pkt.Type != PacketTypeTransmissionControlSignal {
		t.Fatalf("packet type = %v, want TransmissionControlSignal", pkt.Type)
	}
	b, err := pkt.Payload.ReadU8()
	if err != nil || b != 0x42 {
		t.Fatalf("payload byte = %x, %v, want 0x42", b, err)
	}
}

func TestTryConsume_NeedMoreBytes(t *testing.T) {
	t.Parallel()

	full := buildTLVPacket(0x02, []byte{0x01, 0x02, 0x03})
	truncated := full[:len(full)-1]

	r := NewByteReader(truncated)
	startPos := r.Pos()
	_, result := TryConsume(r)
	if result != ResultNeedMoreBytes {
		t.Fatalf("result = %v, want ResultNeedMoreBytes", result)
	}
	if r.Pos() != startPos {
		t.Fatalf("reader advanced on NeedMoreBytes: pos = %d, want %d", r.Pos(), startPos)
	}
}

func TestTryConsume_SingleInvalidByte(t *testing.T) {
	t.Parallel()

	r := NewByteReader([]byte{0x00})
	_, result := TryConsume(r)
	if result != ResultNeedMoreBytes {
		t.Fatalf("single byte buffer should need more bytes (can't even peek a header), got %v", result)
	}
}

func TestTryConsume_InvalidPacketType(t *testing.T) {
	t.Parallel()

	// Sync byte correct, packet type 0x05 is in the rejected range.
	data := []byte{SyncByte, 0x05, 0x00, 0x00}
	r := NewByteReader(data)
	_, result := TryConsume(r)
	if result != ResultResync {
		t.Fatalf("result = %v, want ResultResync for invalid packet type", result)
	}
}

func TestTryConsume_ReservedType04Accepted(t *testing.T) {
	t.Parallel()

	r := NewByteReader(buildTLVPacket(0x04, nil))
	_, result := TryConsume(r)
	if result != ResultFramed {
		t.Fatalf("result = %v, want ResultFramed for reserved type 0x04", result)
	}
}
