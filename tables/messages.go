package tables

import "github.com/zsiec/mmtdemux/tlv"

// PaMessage carries one or more concatenated MMT tables, dispatched
// table-by-table by the caller via repeated calls to Parse.
type PaMessage struct {
	Tables *tlv.ByteReader
}

// ParsePaMessage reads a PA message header (message id, version, table
// block length) and returns a bounded reader over the table block, the
// way the original implementation's PaMessage::unpack hands its
// `table` member to a fresh ReadStream for iteration.
func ParsePaMessage(r *tlv.ByteReader) (*PaMessage, error) {
	if _, err := r.ReadBE16(); err != nil { // message id, already peeked by the caller
		return nil, ErrTruncated
	}
	if _, err := r.ReadU8(); err != nil { // version
		return nil, ErrTruncated
	}
	length, err := r.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	tables, err := r.SubReader(int(length))
	if err != nil {
		return nil, ErrTruncated
	}
	return &PaMessage{Tables: tables}, nil
}

// ParseM2SectionMessage consumes an M2 section message's header,
// leaving r positioned at the single table that follows it, mirroring
// the original implementation's pattern of unpacking the message then
// immediately calling processMmtTable on the same stream.
func ParseM2SectionMessage(r *tlv.ByteReader) error {
	if _, err := r.ReadBE16(); err != nil { // message id
		return ErrTruncated
	}
	if _, err := r.ReadBytes(4); err != nil { // table_id_extension, version, etc.
		return ErrTruncated
	}
	return nil
}

// ParseM2ShortSectionMessage consumes an M2 short section message's
// header, leaving r positioned at the single table that follows it.
func ParseM2ShortSectionMessage(r *tlv.ByteReader) error {
	if _, err := r.ReadBE16(); err != nil { // message id
		return ErrTruncated
	}
	return nil
}
