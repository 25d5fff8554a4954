package descriptors

import "github.com/zsiec/mmtdemux/tlv"

// StreamIdentificationDescriptor carries the component tag used to
// correlate an asset with its EIT/SDT component description.
type StreamIdentificationDescriptor struct {
	ComponentTag uint16
}

// Tag implements Descriptor.
func (d *StreamIdentificationDescriptor) Tag() Tag { return TagStreamIdentification }

func parseStreamIdentification(body *tlv.ByteReader) (*StreamIdentificationDescriptor, error) {
	tag, err := body.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	return &StreamIdentificationDescriptor{ComponentTag: tag}, nil
}
