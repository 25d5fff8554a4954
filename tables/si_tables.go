package tables

import "github.com/zsiec/mmtdemux/tlv"

// sectionHeader is the table_id-relative common header shared by the
// remaining MH-SI tables below: a section_syntax_indicator bit and a
// 12-bit section_length, the same shape mhBIt.cpp uses. The tables that
// follow are delivered to consumers largely verbatim (spec.md treats
// table/descriptor bit-field parsing as a mechanical, out-of-core
// concern), so only the common header is decoded; the remainder is kept
// as an opaque section payload.
type sectionHeader struct {
	SectionSyntaxIndicator bool
	SectionLength          uint16
}

func parseSectionHeader(r *tlv.ByteReader) (sectionHeader, []byte, error) {
	u16, err := r.ReadBE16()
	if err != nil {
		return sectionHeader{}, nil, ErrTruncated
	}
	h := sectionHeader{
		SectionSyntaxIndicator: u16&0x8000 != 0,
		SectionLength:          u16 & 0x0FFF,
	}
	payload, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return sectionHeader{}, nil, ErrTruncated
	}
	return h, payload, nil
}

// Plt is the Package List Table.
type Plt struct {
	sectionHeader
	Payload []byte
}

// TableID implements Table.
func (*Plt) TableID() TableID { return TableIDPlt }

func parsePlt(r *tlv.ByteReader) (*Plt, error) {
	h, p, err := parseSectionHeader(r)
	if err != nil {
		return nil, err
	}
	return &Plt{sectionHeader: h, Payload: p}, nil
}

// Nit is the Network Information Table, delivered to the consumer via
// OnNit both from a transmission-control-signal TLV packet and from a
// signaling message.
type Nit struct {
	sectionHeader
	Payload []byte
}

// TableID implements Table.
func (*Nit) TableID() TableID { return TableIDNit }

func parseNit(r *tlv.ByteReader) (*Nit, error) {
	h, p, err := parseSectionHeader(r)
	if err != nil {
		return nil, err
	}
	return &Nit{sectionHeader: h, Payload: p}, nil
}

// MhCdt is the MH Common Data Table.
type MhCdt struct {
	sectionHeader
	Payload []byte
}

// TableID implements Table.
func (*MhCdt) TableID() TableID { return TableIDMhCdt }

func parseMhCdt(r *tlv.ByteReader) (*MhCdt, error) {
	h, p, err := parseSectionHeader(r)
	if err != nil {
		return nil, err
	}
	return &MhCdt{sectionHeader: h, Payload: p}, nil
}

// MhTot is the MH Time Offset Table.
type MhTot struct {
	sectionHeader
	Payload []byte
}

// TableID implements Table.
func (*MhTot) TableID() TableID { return TableIDMhTot }

func parseMhTot(r *tlv.ByteReader) (*MhTot, error) {
	h, p, err := parseSectionHeader(r)
	if err != nil {
		return nil, err
	}
	return &MhTot{sectionHeader: h, Payload: p}, nil
}

// MhSdt is the MH Service Description Table.
type MhSdt struct {
	sectionHeader
	Payload []byte
}

// TableID implements Table.
func (*MhSdt) TableID() TableID { return TableIDMhSdt }

func parseMhSdt(r *tlv.ByteReader) (*MhSdt, error) {
	h, p, err := parseSectionHeader(r)
	if err != nil {
		return nil, err
	}
	return &MhSdt{sectionHeader: h, Payload: p}, nil
}

// MhEit is the MH Event Information Table, carrying both the
// present/following variant and the 16 schedule-section variants; the
// dispatcher treats all of them identically (spec.md §4.5).
type MhEit struct {
	sectionHeader
	Payload []byte
}

// TableID implements Table.
func (*MhEit) TableID() TableID { return TableIDMhEitPf }

func parseMhEit(r *tlv.ByteReader) (*MhEit, error) {
	h, p, err := parseSectionHeader(r)
	if err != nil {
		return nil, err
	}
	return &MhEit{sectionHeader: h, Payload: p}, nil
}
