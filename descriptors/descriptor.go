// Package descriptors implements the MPT asset descriptors the
// StreamRegistry consumes when processing an MMT Package Table, per
// spec.md §4.6. Each descriptor is a mechanical deserializer from a
// tag-length-value layout, grounded on the original implementation's
// MmtDescriptorTemplate::unpack pattern (descriptor_tag, descriptor_length,
// then a bounded sub-stream).
package descriptors

import (
	"errors"

	"github.com/zsiec/mmtdemux/tlv"
)

// Tag identifies a descriptor's wire format.
type Tag uint16

const (
	TagMPUTimestamp          Tag = 0x0001
	TagMPUExtendedTimestamp  Tag = 0x0002
	TagStreamIdentification  Tag = 0x0011
	TagVideoComponent        Tag = 0x8010
	TagAudioComponent        Tag = 0x8014
)

// ErrTruncated is returned when a descriptor's declared length exceeds
// what remains in the supplied reader.
var ErrTruncated = errors.New("descriptors: truncated descriptor")

// header reads the common descriptor_tag/descriptor_length prefix and
// returns a bounded reader over exactly descriptor_length bytes.
func header(r *tlv.ByteReader) (tag Tag, body *tlv.ByteReader, err error) {
	t, err := r.ReadBE16()
	if err != nil {
		return 0, nil, ErrTruncated
	}
	length, err := r.ReadBE16()
	if err != nil {
		return 0, nil, ErrTruncated
	}
	body, err = r.SubReader(int(length))
	if err != nil {
		return 0, nil, ErrTruncated
	}
	return Tag(t), body, nil
}

// Descriptor is the sum type of all descriptors the registry acts on.
// Unrecognized tags are skipped by Parse and never produce a Descriptor
// value.
type Descriptor interface {
	Tag() Tag
}

// Parse reads one descriptor from r, dispatching on its tag. It returns
// ok=false (with r still advanced past the whole descriptor) when the
// tag is not one the registry needs to act on.
func Parse(r *tlv.ByteReader) (Descriptor, bool, error) {
	tag, body, err := header(r)
	if err != nil {
		return nil, false, err
	}

	switch tag {
	case TagMPUTimestamp:
		d, err := parseMPUTimestamp(body)
		return d, err == nil, err
	case TagMPUExtendedTimestamp:
		d, err := parseMPUExtendedTimestamp(body)
		return d, err == nil, err
	case TagStreamIdentification:
		d, err := parseStreamIdentification(body)
		return d, err == nil, err
	case TagVideoComponent:
		d, err := parseVideoComponent(body)
		return d, err == nil, err
	case TagAudioComponent:
		d, err := parseAudioComponent(body)
		return d, err == nil, err
	default:
		return nil, false, nil
	}
}
