package tables

import (
	"errors"

	"github.com/zsiec/mmtdemux/descriptors"
	"github.com/zsiec/mmtdemux/tlv"
)

// ErrTruncated is returned when a table's declared length exceeds what
// remains in the supplied reader.
var ErrTruncated = errors.New("tables: truncated table")

// AssetType is the fourCC the MPT uses to identify an asset's coding
// format. Its values mirror codec.AssetType so that tables does not
// import codec; stream converts between the two.
type AssetType uint32

const (
	AssetTypeHEV1 AssetType = 0x68657631 // "hev1"
	AssetTypeMP4A AssetType = 0x6D703461 // "mp4a"
	AssetTypeSTPP AssetType = 0x73747070 // "stpp"
	AssetTypeAAPP AssetType = 0x61617070 // "aapp"
)

// LocationInfo describes where an asset's MFUs are delivered.
// LocationType 0 means in-band by MMTP packet-id, the only kind the
// core acts on.
type LocationInfo struct {
	LocationType byte
	PacketID     uint16
}

// Asset is one entry of an Mpt.
type Asset struct {
	AssetType     AssetType
	LocationInfos []LocationInfo
	Descriptors   []descriptors.Descriptor
}

// Mpt is the MMT Package Table: the asset-to-transport-location map the
// StreamRegistry consumes on every update.
type Mpt struct {
	Assets []Asset
}

// TableID implements Table.
func (*Mpt) TableID() TableID { return TableIDMpt }

func parseAssetLocations(r *tlv.ByteReader) ([]LocationInfo, error) {
	count, err := r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	infos := make([]LocationInfo, 0, count)
	for i := byte(0); i < count; i++ {
		locType, err := r.ReadU8()
		if err != nil {
			return nil, ErrTruncated
		}
		info := LocationInfo{LocationType: locType}
		if locType == 0 {
			pid, err := r.ReadBE16()
			if err != nil {
				return nil, ErrTruncated
			}
			info.PacketID = pid
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func parseAssetDescriptors(r *tlv.ByteReader) ([]descriptors.Descriptor, error) {
	length, err := r.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	body, err := r.SubReader(int(length))
	if err != nil {
		return nil, ErrTruncated
	}

	var list []descriptors.Descriptor
	for !body.AtEOF() {
		d, ok, err := descriptors.Parse(body)
		if err != nil {
			return nil, err
		}
		if ok {
			list = append(list, d)
		}
	}
	return list, nil
}

// parseMpt reads an Mpt's body. tableID has already been consumed by
// the caller's table-id peek; r starts at the byte after it.
func parseMpt(r *tlv.ByteReader) (*Mpt, error) {
	// version / length fields specific to the MPT header are not needed
	// by the core's consumers; skip a conventional 3-byte header
	// (version, length_hi, length_lo) the way mpt.h's unpack would after
	// the table id.
	if _, err := r.ReadBytes(3); err != nil {
		return nil, ErrTruncated
	}

	count, err := r.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}

	assets := make([]Asset, 0, count)
	for i := byte(0); i < count; i++ {
		atype, err := r.ReadBE32()
		if err != nil {
			return nil, ErrTruncated
		}
		locations, err := parseAssetLocations(r)
		if err != nil {
			return nil, err
		}
		descs, err := parseAssetDescriptors(r)
		if err != nil {
			return nil, err
		}
		assets = append(assets, Asset{
			AssetType:     AssetType(atype),
			LocationInfos: locations,
			Descriptors:   descs,
		})
	}

	return &Mpt{Assets: assets}, nil
}
