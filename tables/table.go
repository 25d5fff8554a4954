package tables

import "github.com/zsiec/mmtdemux/tlv"

// Table is the sum type of all tables the dispatcher can produce.
type Table interface {
	TableID() TableID
}

// Parse reads one table from r by peeking its leading table-id byte and
// delegating to the matching deserializer, mirroring the original
// implementation's MmtTableFactory::create / TlvTableFactory::create.
// It returns ok=false when the table id is not one the core recognizes;
// r is left unconsumed in that case since the caller's only remaining
// option is to discard the rest of the enclosing message.
func Parse(r *tlv.ByteReader) (Table, bool, error) {
	id, err := r.PeekByte()
	if err != nil {
		return nil, false, ErrTruncated
	}
	tableID := TableID(id)

	if isMhEit(tableID) {
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseMhEit(r)
		return t, err == nil, err
	}

	switch tableID {
	case TableIDMpt:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseMpt(r)
		return t, err == nil, err
	case TableIDEcm:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseEcm(r)
		return t, err == nil, err
	case TableIDPlt:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parsePlt(r)
		return t, err == nil, err
	case TableIDNit:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseNit(r)
		return t, err == nil, err
	case TableIDMhCdt:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseMhCdt(r)
		return t, err == nil, err
	case TableIDMhTot:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseMhTot(r)
		return t, err == nil, err
	case TableIDMhSdt:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseMhSdt(r)
		return t, err == nil, err
	case TableIDMhBit:
		if _, err := r.ReadU8(); err != nil {
			return nil, false, ErrTruncated
		}
		t, err := parseMhBit(r)
		return t, err == nil, err
	default:
		return nil, false, nil
	}
}
