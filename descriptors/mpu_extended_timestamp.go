package descriptors

import "github.com/zsiec/mmtdemux/tlv"

// MPUExtendedTimestampEntry is the per-MPU payload merged into
// ElementaryStream.MPUExtendedTimestamps.
type MPUExtendedTimestampEntry struct {
	MPUSequenceNumber   uint32
	DecodingTimeOffset  uint32
	NumOfAU             uint16
	PTSOffsets          []uint16
	DTSPTSOffsets       []uint16 // empty unless the descriptor carries dts_present_flag
}

// MPUExtendedTimestampDescriptor carries decoding-time and per-AU PTS
// offsets. When TimescaleFlag is set, the StreamRegistry updates the
// stream's timebase to 1/Timescale.
type MPUExtendedTimestampDescriptor struct {
	TimescaleFlag bool
	Timescale     uint32
	DTSPresent    bool
	Entries       []MPUExtendedTimestampEntry
}

// Tag implements Descriptor.
func (d *MPUExtendedTimestampDescriptor) Tag() Tag { return TagMPUExtendedTimestamp }

func parseMPUExtendedTimestamp(body *tlv.ByteReader) (*MPUExtendedTimestampDescriptor, error) {
	b, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	d := &MPUExtendedTimestampDescriptor{
		TimescaleFlag: b&0x80 != 0,
		DTSPresent:    b&0x10 != 0,
	}
	if d.TimescaleFlag {
		d.Timescale, err = body.ReadBE32()
		if err != nil {
			return nil, ErrTruncated
		}
	}

	for !body.AtEOF() {
		seq, err := body.ReadBE32()
		if err != nil {
			return nil, ErrTruncated
		}
		offset, err := body.ReadBE32()
		if err != nil {
			return nil, ErrTruncated
		}
		numOfAU, err := body.ReadBE16()
		if err != nil {
			return nil, ErrTruncated
		}

		entry := MPUExtendedTimestampEntry{
			MPUSequenceNumber:  seq,
			DecodingTimeOffset: offset,
			NumOfAU:            numOfAU,
		}
		for i := uint16(0); i < numOfAU; i++ {
			pts, err := body.ReadBE16()
			if err != nil {
				return nil, ErrTruncated
			}
			entry.PTSOffsets = append(entry.PTSOffsets, pts)

			if d.DTSPresent {
				dts, err := body.ReadBE16()
				if err != nil {
					return nil, ErrTruncated
				}
				entry.DTSPTSOffsets = append(entry.DTSPTSOffsets, dts)
			}
		}
		d.Entries = append(d.Entries, entry)
	}
	return d, nil
}
