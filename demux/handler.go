package demux

import (
	"github.com/zsiec/mmtdemux/codec"
	"github.com/zsiec/mmtdemux/ntp"
	"github.com/zsiec/mmtdemux/stream"
	"github.com/zsiec/mmtdemux/tables"
)

// Handler is the sole output surface of the demuxer. Every method is
// invoked synchronously from ProcessPacket, in transport order, before
// it returns; a consumer must not call back into the same Demuxer's
// ProcessPacket from within a callback.
type Handler interface {
	OnVideoData(s *stream.ElementaryStream, mfu codec.MfuData)
	OnAudioData(s *stream.ElementaryStream, mfu codec.MfuData)
	OnSubtitleData(s *stream.ElementaryStream, mfu codec.MfuData)
	OnApplicationData(s *stream.ElementaryStream, mfu codec.MfuData)
	OnNtp(pkt *ntp.Packet)

	OnMpt(t *tables.Mpt)
	OnEcm(t *tables.Ecm)
	OnNit(t *tables.Nit)
	OnPlt(t *tables.Plt)
	OnMhBit(t *tables.MhBit)
	OnMhCdt(t *tables.MhCdt)
	OnMhTot(t *tables.MhTot)
	OnMhSdt(t *tables.MhSdt)
	OnMhEit(t *tables.MhEit)
}

// NopHandler is a Handler whose methods all do nothing. Embed it to
// implement only the callbacks a consumer cares about.
type NopHandler struct{}

func (NopHandler) OnVideoData(*stream.ElementaryStream, codec.MfuData)       {}
func (NopHandler) OnAudioData(*stream.ElementaryStream, codec.MfuData)       {}
func (NopHandler) OnSubtitleData(*stream.ElementaryStream, codec.MfuData)    {}
func (NopHandler) OnApplicationData(*stream.ElementaryStream, codec.MfuData) {}
func (NopHandler) OnNtp(*ntp.Packet)                                        {}
func (NopHandler) OnMpt(*tables.Mpt)                                        {}
func (NopHandler) OnEcm(*tables.Ecm)                                        {}
func (NopHandler) OnNit(*tables.Nit)                                        {}
func (NopHandler) OnPlt(*tables.Plt)                                        {}
func (NopHandler) OnMhBit(*tables.MhBit)                                    {}
func (NopHandler) OnMhCdt(*tables.MhCdt)                                    {}
func (NopHandler) OnMhTot(*tables.MhTot)                                    {}
func (NopHandler) OnMhSdt(*tables.MhSdt)                                    {}
func (NopHandler) OnMhEit(*tables.MhEit)                                    {}
