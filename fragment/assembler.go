// Package fragment implements the MMTP fragment reassembly state
// machine: one Assembler per MMTP packet-id, reassembling fragmented
// MFU data units and signaling messages while tracking packet sequence
// number continuity.
package fragment

import "github.com/zsiec/mmtdemux/mpu"

// State is the assembler's reassembly state.
type State int

const (
	// Init is the idle state: no partial buffer, waiting for a head or
	// a complete (NotFragmented) unit.
	Init State = iota
	// InFragment holds a partially assembled buffer awaiting its tail.
	InFragment
)

// Assembler reassembles one packet-id's fragmented data units. It is
// not safe for concurrent use; the demuxer drives one at a time from
// process_packet.
type Assembler struct {
	state      State
	buffer     []byte
	lastSeq    uint32
	haveLast   bool
}

// NewAssembler returns a fresh, empty assembler in state Init.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// State reports the assembler's current state.
func (a *Assembler) State() State { return a.state }

// CheckState is the contiguity test invoked before every fragment
// append: the MMTP packet sequence number of each successor fragment
// must equal predecessor + 1 (mod 2^32). A mismatch discards the
// partially assembled buffer and returns to Init. It must be called
// once per MMTP packet that contributes to this assembler, before
// Assemble.
func (a *Assembler) CheckState(packetSequenceNumber uint32) {
	if a.state != InFragment {
		a.lastSeq = packetSequenceNumber
		a.haveLast = true
		return
	}

	if a.haveLast && packetSequenceNumber != a.lastSeq+1 {
		a.reset()
	}
	a.lastSeq = packetSequenceNumber
	a.haveLast = true
}

// Assemble feeds one data unit's bytes through the state machine,
// returning the reassembled unit when fragIndicator completes it
// (NotFragmented or Tail following a valid chain).
func (a *Assembler) Assemble(data []byte, fragIndicator mpu.FragmentationIndicator, packetSequenceNumber uint32) ([]byte, bool) {
	switch a.state {
	case Init:
		switch fragIndicator {
		case mpu.NotFragmented:
			return cloneBytes(data), true
		case mpu.Head:
			a.buffer = cloneBytes(data)
			a.state = InFragment
			return nil, false
		default: // Middle or Tail with no preceding head: drop.
			return nil, false
		}
	case InFragment:
		switch fragIndicator {
		case mpu.Head:
			// A new head while one is in flight: discard the stale
			// buffer and start over with this one.
			a.buffer = cloneBytes(data)
			return nil, false
		case mpu.Middle:
			a.buffer = append(a.buffer, data...)
			return nil, false
		case mpu.Tail:
			a.buffer = append(a.buffer, data...)
			out := a.buffer
			a.clear()
			return out, true
		default: // NotFragmented while mid-chain: discard the in-flight
			// buffer and emit the complete unit.
			a.reset()
			return cloneBytes(data), true
		}
	}
	return nil, false
}

// Clear empties the buffer and returns to Init. Callers invoke it after
// consuming a completed unit from Assemble (Assemble already does this
// internally on completion, but Clear is exposed so the demuxer's
// processing loop can match the reference implementation's explicit
// assembler->clear() call after dispatching the reassembled unit).
func (a *Assembler) Clear() { a.clear() }

func (a *Assembler) clear() {
	a.buffer = nil
	a.state = Init
}

// reset discards an in-flight buffer on a sequence discontinuity,
// returning to Init without emitting anything.
func (a *Assembler) reset() {
	a.buffer = nil
	a.state = Init
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
