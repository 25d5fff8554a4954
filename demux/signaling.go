package demux

import (
	"github.com/zsiec/mmtdemux/mpu"
	"github.com/zsiec/mmtdemux/tlv"
)

// signalingMessage is one entry of a control-message-aggregate MMTP
// payload (spec.md §4.5). No header file for this wire format was
// retrieved; its bit layout mirrors the sibling mpu payload header's
// flag-packing convention (flags in the high bits of a leading byte,
// opaque payload following).
type signalingMessage struct {
	aggregationFlag        bool
	lengthExtensionFlag    bool
	fragmentationIndicator mpu.FragmentationIndicator
	payload                []byte
}

func decodeSignalingMessage(r *tlv.ByteReader) (signalingMessage, error) {
	b, err := r.ReadU8()
	if err != nil {
		return signalingMessage{}, err
	}
	sm := signalingMessage{
		aggregationFlag:        b&0x80 != 0,
		fragmentationIndicator: mpu.FragmentationIndicator((b >> 5) & 0x03),
		lengthExtensionFlag:    b&0x10 != 0,
	}
	sm.payload, err = r.ReadBytes(r.Remaining())
	if err != nil {
		return signalingMessage{}, err
	}
	return sm, nil
}
