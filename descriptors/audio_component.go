package descriptors

import "github.com/zsiec/mmtdemux/tlv"

// AudioComponentDescriptor describes an audio asset's coding and
// language. No original source was retrieved for this descriptor; the
// layout mirrors VideoComponentDescriptor's stream-content/component-tag/
// language/text shape, which is the general pattern ARIB component
// descriptors follow.
type AudioComponentDescriptor struct {
	StreamContent    byte
	ComponentType    byte
	ComponentTag     uint16
	SamplingRate     byte
	MultiLingualFlag bool
	Language         string
	Language2        string // only set when MultiLingualFlag is true
	Text             string
}

// Tag implements Descriptor.
func (d *AudioComponentDescriptor) Tag() Tag { return TagAudioComponent }

func parseAudioComponent(body *tlv.ByteReader) (*AudioComponentDescriptor, error) {
	streamContent, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	componentType, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	componentTag, err := body.ReadBE16()
	if err != nil {
		return nil, ErrTruncated
	}
	b, err := body.ReadU8()
	if err != nil {
		return nil, ErrTruncated
	}
	lang, err := body.ReadBytes(3)
	if err != nil {
		return nil, ErrTruncated
	}

	d := &AudioComponentDescriptor{
		StreamContent:    streamContent & 0x0F,
		ComponentType:    componentType,
		ComponentTag:     componentTag,
		SamplingRate:     (b & 0x1C) >> 2,
		MultiLingualFlag: b&0x80 != 0,
		Language:         string(lang),
	}

	if d.MultiLingualFlag {
		lang2, err := body.ReadBytes(3)
		if err != nil {
			return nil, ErrTruncated
		}
		d.Language2 = string(lang2)
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
