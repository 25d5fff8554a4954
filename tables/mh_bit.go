package tables

import "github.com/zsiec/mmtdemux/tlv"

// BroadcasterInfo is one entry of MhBit.Broadcasters.
type BroadcasterInfo struct {
	BroadcasterID uint8
	Descriptors   []byte // raw descriptor-loop bytes, not further decoded
}

// MhBit is the MH Broadcaster Information Table, grounded on
// mhBIt.cpp's MhBit::unpack bitfield layout.
type MhBit struct {
	SectionSyntaxIndicator bool
	SectionLength          uint16
	OriginalNetworkID      uint16
	VersionNumber          byte
	CurrentNextIndicator   bool
	SectionNumber          byte
	LastSectionNumber      byte
	FirstDescriptors       []byte
	Broadcasters           []BroadcasterInfo
	CRC32                  uint32
}

// TableID implements Table.
func (*MhBit) TableID() TableID { return TableIDMhBit }

func parseMhBit(r *tlv.ByteReader) (*MhBit, error) {
	u16, err := r.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	m := &MhBit{
		SectionSyntaxIndicator: u16&0x8000 != 0,
		SectionLength:          u16 & 0x0FFF,
	}

	m.OriginalNetworkID, err = r.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}

	b, err := r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	m.VersionNumber = (b & 0x3E) >> 1
	m.CurrentNextIndicator = b&0x01 != 0

	m.SectionNumber, err = r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	m.LastSectionNumber, err = r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}

	u16, err = r.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	firstDescriptorsLength := u16 & 0x0FFF

	m.FirstDescriptors, err = r.ReadBytes(int(firstDescriptorsLength))
	if err != nil {
		return nil, ErrTruncated
	}

	// 4 bytes reserved for the trailing CRC; everything else is
	// broadcaster entries.
	for r.Remaining() > 4 {
		bid, err := r.ReadU8()
		if err != nil {
			return nil, ErrTruncated
		}
		u16, err = r.ReadBE16()
		if err != nil {
			return nil, ErrTruncated
		}
		descLen := u16 & 0x0FFF
		desc, err := r.ReadBytes(int(descLen))
		if err != nil {
			return nil, ErrTruncated
		}
		m.Broadcasters = append(m.Broadcasters, BroadcasterInfo{BroadcasterID: bid, Descriptors: desc})
	}

	m.CRC32, err = r.ReadBE32()
	if err != nil {
		return nil, ErrTruncated
	}

	return m, nil
}
