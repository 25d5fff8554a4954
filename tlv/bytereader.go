// Package tlv implements the outermost framing layer of the MMT/TLV
// broadcast transport: a forward byte cursor (ByteReader) and the TLV
// packet framer that resynchronizes to the sync byte over a lossy
// input.
package tlv

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned by any ByteReader read that would read past
// the end of the buffer. It signals "not enough bytes yet" rather than a
// structural parse failure; callers at the demuxer boundary translate it
// into the "need more input" status code.
var ErrShortBuffer = errors.New("tlv: short buffer")

// ByteReader is a forward-only cursor over a borrowed, bounded byte
// buffer. It never copies the underlying bytes; callers that need to
// retain data read through it must copy it themselves.
type ByteReader struct {
	data []byte
	pos  int
}

// NewByteReader wraps data in a ByteReader starting at offset 0.
func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

// Len returns the total length of the underlying buffer.
func (r *ByteReader) Len() int { return len(r.data) }

// Pos returns the current read offset.
func (r *ByteReader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *ByteReader) Remaining() int { return len(r.data) - r.pos }

// AtEOF reports whether every byte has been consumed.
func (r *ByteReader) AtEOF() bool { return r.pos >= len(r.data) }

// Peek returns the next n bytes without advancing the cursor.
func (r *ByteReader) Peek(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	return r.data[r.pos : r.pos+n], nil
}

// PeekByte returns the next byte without advancing the cursor.
func (r *ByteReader) PeekByte() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	return r.data[r.pos], nil
}

// ReadU8 reads and consumes a single byte.
func (r *ByteReader) ReadU8() (byte, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBE16 reads and consumes a big-endian uint16.
func (r *ByteReader) ReadBE16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadBE32 reads and consumes a big-endian uint32.
func (r *ByteReader) ReadBE32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadBE64 reads and consumes a big-endian uint64.
func (r *ByteReader) ReadBE64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadBytes reads and consumes the next n bytes. The returned slice
// aliases the underlying buffer; copy it if it must outlive the call
// that produced this reader.
func (r *ByteReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrShortBuffer
	}
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (r *ByteReader) Skip(n int) error {
	if n < 0 || r.Remaining() < n {
		return ErrShortBuffer
	}
	r.pos += n
	return nil
}

// SubReader carves out the next n bytes as an independent, bounded
// ByteReader and advances this reader past them. This is how the core
// hands a callee a view it cannot read beyond, satisfying the
// "process_packet never reads past the declared data_length" invariant.
func (r *ByteReader) SubReader(n int) (*ByteReader, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return NewByteReader(b), nil
}
