// Package mpu parses the payload of an MMTP packet whose PayloadType is
// MPU: the MPU payload header and the DataUnit(s) it carries. DataUnit
// framing is mechanical; the bytes it yields are opaque MFU data handed
// to a codec.Processor by the caller.
package mpu

import (
	"errors"

	"github.com/zsiec/mmtdemux/tlv"
)

// FragmentationIndicator describes where a DataUnit sits in a
// fragmented MFU sequence.
type FragmentationIndicator byte

const (
	NotFragmented FragmentationIndicator = 0
	Head          FragmentationIndicator = 1
	Middle        FragmentationIndicator = 2
	Tail          FragmentationIndicator = 3
)

// FragmentType identifies what kind of unit the MPU payload carries.
type FragmentType byte

const (
	FragmentTypeMPUMetadata          FragmentType = 0
	FragmentTypeMovieFragmentMetadata FragmentType = 1
	FragmentTypeMFU                  FragmentType = 2
)

// Payload is a decoded MPU payload header plus its raw data-unit area.
// The core iterates DataUnits via Next rather than materializing a
// slice up front, since an aggregated payload's unit count is not known
// until the area is exhausted.
type Payload struct {
	MPUSequenceNumber      uint32
	AggregateFlag          bool
	FragmentationIndicator FragmentationIndicator
	TimedFlag              bool
	FragmentType           FragmentType

	units *tlv.ByteReader
}

// ErrTruncated is returned when the MPU payload header cannot be read in
// full from the supplied reader.
var ErrTruncated = errors.New("mpu: truncated payload")

// ErrInvalidAggregate is returned when aggregate_flag is set together
// with a fragmentation_indicator other than NotFragmented — an illegal
// combination per spec.md §4.4.2.
var ErrInvalidAggregate = errors.New("mpu: aggregate flag set with a fragmentation indicator")

// Decode parses the MPU payload header from r; the remainder of r is
// the data-unit area, consumed via Next.
func Decode(r *tlv.ByteReader) (Payload, error) {
	seq, err := r.ReadBE32()
	if err != nil {
		return Payload{}, ErrTruncated
	}
	b, err := r.ReadU8()
	if err != nil {
		return Payload{}, ErrTruncated
	}

	p := Payload{
		MPUSequenceNumber:      seq,
		FragmentationIndicator: FragmentationIndicator((b >> 6) & 0x03),
		AggregateFlag:          b&0x20 != 0,
		TimedFlag:              b&0x10 != 0,
		FragmentType:           FragmentType((b >> 1) & 0x07),
		units:                  r,
	}

	if p.AggregateFlag && p.FragmentationIndicator != NotFragmented {
		return Payload{}, ErrInvalidAggregate
	}

	return p, nil
}

// DataUnit is one opaque MFU-bearing unit extracted from the data-unit
// area.
type DataUnit struct {
	Data []byte
}

// Next extracts the next DataUnit from the payload's data-unit area.
//
// When AggregateFlag is false there is exactly one DataUnit spanning
// the entire area; the second call returns ok=false. When AggregateFlag
// is true, each unit is individually length-delimited and Next is
// called in a loop until ok is false, which happens exactly when the
// area is exhausted (per spec.md §9's resolved open question: the loop
// condition is "while not EOF", not the source's inverted "while EOF").
func (p *Payload) Next() (DataUnit, bool, error) {
	if p.units.AtEOF() {
		return DataUnit{}, false, nil
	}

	if !p.AggregateFlag {
		data, err := p.units.ReadBytes(p.units.Remaining())
		if err != nil {
			return DataUnit{}, false, ErrTruncated
		}
		return DataUnit{Data: data}, true, nil
	}

	length, err := p.units.ReadBE16()
	if err != nil {
		return DataUnit{}, false, ErrTruncated
	}

	offset := 0
	if p.TimedFlag {
		offset = 4
	}
	if int(length) < offset {
		return DataUnit{}, false, ErrTruncated
	}
	if p.TimedFlag {
		if _, err := p.units.ReadBytes(offset); err != nil {
			return DataUnit{}, false, ErrTruncated
		}
	}
	data, err := p.units.ReadBytes(int(length) - offset)
	if err != nil {
		return DataUnit{}, false, ErrTruncated
	}
	return DataUnit{Data: data}, true, nil
}
