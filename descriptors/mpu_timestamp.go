package descriptors

import "github.com/zsiec/mmtdemux/tlv"

// MPUTimestampEntry maps one MPU sequence number to its presentation
// time (NTP-format 64-bit timestamp).
type MPUTimestampEntry struct {
	MPUSequenceNumber   uint32
	MPUPresentationTime uint64
}

// MPUTimestampDescriptor carries the presentation-time mapping the
// StreamRegistry merges into an ElementaryStream's bounded timestamp
// cache per spec.md §4.6.1.
type MPUTimestampDescriptor struct {
	Entries []MPUTimestampEntry
}

// Tag implements Descriptor.
func (d *MPUTimestampDescriptor) Tag() Tag { return TagMPUTimestamp }

func parseMPUTimestamp(body *tlv.ByteReader) (*MPUTimestampDescriptor, error) {
	d := &MPUTimestampDescriptor{}
	for !body.AtEOF() {
		seq, err := body.ReadBE32()
		if err != nil {
			return nil, ErrTruncated
		}
		pt, err := body.ReadBE64()
		if err != nil {
			return nil, ErrTruncated
		}
		d.Entries = append(d.Entries, MPUTimestampEntry{MPUSequenceNumber: seq, MPUPresentationTime: pt})
	}
	return d, nil
}
