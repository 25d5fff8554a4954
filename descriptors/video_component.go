package descriptors

import "github.com/zsiec/mmtdemux/tlv"

// VideoComponentDescriptor describes a video asset's resolution, aspect
// ratio, frame rate, and language, per ARIB STD-B60. Layout is
// grounded on the original implementation's VideoComponentDescriptor::
// unpack.
type VideoComponentDescriptor struct {
	VideoResolution              byte
	VideoAspectRatio             byte
	VideoScanFlag                bool
	VideoFrameRate               byte
	ComponentTag                 uint16
	VideoTransferCharacteristics byte
	Language                     string
	Text                         string
}

// Tag implements Descriptor.
func (d *VideoComponentDescriptor) Tag() Tag { return TagVideoComponent }

func parseVideoComponent(body *tlv.ByteReader) (*VideoComponentDescriptor, error) {
	b0, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	b1, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	componentTag, err := body.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	b2, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	lang, err := body.ReadBytes(3)
	if err != nil {
		return nil, ErrTruncated
	}

	d := &VideoComponentDescriptor{
		VideoResolution:              (b0 & 0xF0) >> 4,
		VideoAspectRatio:             b0 & 0x0F,
		VideoScanFlag:                b1&0x80 != 0,
		VideoFrameRate:               b1 & 0x1F,
		ComponentTag:                 componentTag,
		VideoTransferCharacteristics: (b2 & 0xF0) >> 4,
		Language:                     string(lang),
	}

	if n := body.Remaining(); n > 0 {
		text, err := body.ReadBytes(n)
		if err != nil {
			return nil, ErrTruncated
		}
		d.Text = string(text)
	}

	return d, nil
}
