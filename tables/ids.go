// Package tables implements the mechanical MMT-SI / TLV-SI table
// deserializers the SignalingDispatcher routes to, grounded on
// the dispatch logic in the original implementation's
// MmtTlvDemuxer::processMmtTable / processTlvTable and on mhBIt.cpp for
// the one table whose exact bitfield layout was available.
package tables

// MessageID identifies a signaling message's wire format, read from the
// first 16 bits of its payload.
type MessageID uint16

const (
	MessageIDPA             MessageID = 0x0000
	MessageIDM2Section      MessageID = 0x8000
	MessageIDM2ShortSection MessageID = 0x8002
)

// TableID identifies an MMT table carried inside a PA message, M2
// section message, or M2 short section message. The exact numeric
// assignments below were not present in the retrieved reference
// sources (only the symbolic MmtTableId:: names appear in
// mmttlvdemuxer.cpp); they are chosen to be distinct and stable, not
// copied from a standard table.
type TableID byte

const (
	TableIDMpt     TableID = 0x20
	TableIDPlt     TableID = 0x80
	TableIDEcm     TableID = 0x82
	TableIDMhBit   TableID = 0xC4
	TableIDMhCdt   TableID = 0xC8
	TableIDMhTot   TableID = 0xCD
	TableIDMhSdt   TableID = 0xD2
	TableIDMhEitPf TableID = 0xD8
	// TableIDNit is carried directly inside a transmission-control-signal
	// TLV packet rather than a signaling message, the path the original
	// implementation calls processTlvTable.
	TableIDNit TableID = 0x40
)

// MhEitS returns the table id for schedule-table section n (1..16), the
// MH-EIT-schedule variants the dispatcher treats identically to
// MhEitPf.
func MhEitS(n int) TableID {
	return TableIDMhEitPf + TableID(n)
}

func isMhEit(id TableID) bool {
	return id >= TableIDMhEitPf && id <= MhEitS(16)
}
