// Package stream implements the StreamRegistry: the set of elementary
// streams announced by the most recent MMT Package Table, keyed by
// MMTP packet-id and, derived from it, by declaration-order stream
// index. Grounded on the original implementation's MmtStream /
// MmtTlvDemuxer::processMmtPackageTable.
package stream

import (
	"github.com/zsiec/mmtdemux/codec"
	"github.com/zsiec/mmtdemux/descriptors"
)

const maxTimestampEntries = 100

// ElementaryStream is the per-packet-id state the demuxer accumulates
// across MPU and MPT processing. It implements codec.StreamState, the
// view MFU processors read for stream index, RAP flag and access-unit
// timing.
type ElementaryStream struct {
	PacketID       uint16
	AssetType      codec.AssetType
	streamIndex    int
	lastMPUSeq     uint32
	auIndex        int
	rapFlag        bool
	timebaseNum    uint32
	timebaseDen    uint32
	Processor      codec.Processor
	ComponentTag   uint16
	VideoComponent *descriptors.VideoComponentDescriptor
	AudioComponent *descriptors.AudioComponentDescriptor

	mpuTimestamps         []descriptors.MPUTimestampEntry
	mpuExtendedTimestamps []descriptors.MPUExtendedTimestampEntry
}

func newElementaryStream(packetID uint16) *ElementaryStream {
	return &ElementaryStream{PacketID: packetID, timebaseNum: 1, timebaseDen: 90000}
}

// StreamIndex implements codec.StreamState.
func (s *ElementaryStream) StreamIndex() int { return s.streamIndex }

// LastMPUSequenceNumber implements codec.StreamState.
func (s *ElementaryStream) LastMPUSequenceNumber() uint32 { return s.lastMPUSeq }

// SetLastMPUSequenceNumber records the most recently accepted MPU
// sequence number, called by the demuxer's MPU sequence-tracking step.
func (s *ElementaryStream) SetLastMPUSequenceNumber(seq uint32) { s.lastMPUSeq = seq }

// ResetAUIndex zeroes the access-unit index, called whenever the
// demuxer advances to a new MPU.
func (s *ElementaryStream) ResetAUIndex() { s.auIndex = 0 }

// NextAUIndex implements codec.StreamState: it returns the current
// index and advances it for the following access unit.
func (s *ElementaryStream) NextAUIndex() int {
	i := s.auIndex
	s.auIndex++
	return i
}

// Timebase implements codec.StreamState.
func (s *ElementaryStream) Timebase() (num, den uint32) { return s.timebaseNum, s.timebaseDen }

// SetTimebase overrides the stream's timebase, called when a MPU
// extended timestamp descriptor carries a timescale_flag.
func (s *ElementaryStream) SetTimebase(num, den uint32) { s.timebaseNum, s.timebaseDen = num, den }

// RAPFlag implements codec.StreamState.
func (s *ElementaryStream) RAPFlag() bool { return s.rapFlag }

// SetRAPFlag records the RAP flag of the most recently processed MMTP
// packet for this stream.
func (s *ElementaryStream) SetRAPFlag(v bool) { s.rapFlag = v }

// MPUTimestamps returns the bounded cache of MPU sequence number to
// presentation time mappings.
func (s *ElementaryStream) MPUTimestamps() []descriptors.MPUTimestampEntry {
	return s.mpuTimestamps
}

// MPUExtendedTimestamps returns the bounded cache of MPU sequence
// number to decoding-time-offset/per-AU-offset mappings.
func (s *ElementaryStream) MPUExtendedTimestamps() []descriptors.MPUExtendedTimestampEntry {
	return s.mpuExtendedTimestamps
}

// MergeMPUTimestamp applies the three-tier merge policy: update an
// existing entry with the same sequence number, else recycle a stale
// entry, else evict the minimum-sequence entry once the cache is full,
// else append.
func (s *ElementaryStream) MergeMPUTimestamp(entry descriptors.MPUTimestampEntry) {
	for i := range s.mpuTimestamps {
		if s.mpuTimestamps[i].MPUSequenceNumber == entry.MPUSequenceNumber {
			s.mpuTimestamps[i].MPUPresentationTime = entry.MPUPresentationTime
			return
		}
	}

	for i := range s.mpuTimestamps {
		if s.mpuTimestamps[i].MPUSequenceNumber < s.lastMPUSeq {
			s.mpuTimestamps[i] = entry
			return
		}
	}

	if len(s.mpuTimestamps) >= maxTimestampEntries {
		minIdx := 0
		minSeq := s.mpuTimestamps[0].MPUSequenceNumber
		for i, e := range s.mpuTimestamps {
			if e.MPUSequenceNumber < minSeq {
				minIdx, minSeq = i, e.MPUSequenceNumber
			}
		}
		s.mpuTimestamps[minIdx] = entry
		return
	}

	s.mpuTimestamps = append(s.mpuTimestamps, entry)
}

// MergeMPUExtendedTimestamp applies the extended-timestamp merge
// policy: stale incoming entries (seq below the stream's last observed
// MPU sequence number) are discarded outright; otherwise the same
// three-tier policy as MergeMPUTimestamp applies.
func (s *ElementaryStream) MergeMPUExtendedTimestamp(entry descriptors.MPUExtendedTimestampEntry) {
	if entry.MPUSequenceNumber < s.lastMPUSeq {
		return
	}

	for i := range s.mpuExtendedTimestamps {
		if s.mpuExtendedTimestamps[i].MPUSequenceNumber == entry.MPUSequenceNumber {
			s.mpuExtendedTimestamps[i] = entry
			return
		}
	}

	for i := range s.mpuExtendedTimestamps {
		if s.mpuExtendedTimestamps[i].MPUSequenceNumber < s.lastMPUSeq {
			s.mpuExtendedTimestamps[i] = entry
			return
		}
	}

	if len(s.mpuExtendedTimestamps) >= maxTimestampEntries {
		minIdx := 0
		minSeq := s.mpuExtendedTimestamps[0].MPUSequenceNumber
		for i, e := range s.mpuExtendedTimestamps {
			if e.MPUSequenceNumber < minSeq {
				minIdx, minSeq = i, e.MPUSequenceNumber
			}
		}
		s.mpuExtendedTimestamps[minIdx] = entry
		return
	}

	s.mpuExtendedTimestamps = append(s.mpuExtendedTimestamps, entry)
}
