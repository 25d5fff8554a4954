package tables

import "github.com/zsiec/mmtdemux/tlv"

// Ecm carries the entitlement control message the DescramblerCoordinator
// forwards to the smart card.
type Ecm struct {
	EcmData []byte
}

// TableID implements Table.
func (*Ecm) TableID() TableID { return TableIDEcm }

func parseEcm(r *tlv.ByteReader) (*Ecm, error) {
	if _, err := r.ReadBytes(3); err != nil {
		return nil, ErrTruncated
	}
	data, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return nil, ErrTruncated
	}
	return &Ecm{EcmData: data}, nil
}
