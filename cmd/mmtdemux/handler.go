package main

import (
	"log/slog"

	"github.com/zsiec/mmtdemux/codec"
	"github.com/zsiec/mmtdemux/demux"
	"github.com/zsiec/mmtdemux/ntp"
	"github.com/zsiec/mmtdemux/stream"
	"github.com/zsiec/mmtdemux/tables"
)

// loggingHandler is a demux.Handler that logs every decoded event at
// Info level, the CLI's only consumer-side behavior: it does not
// remultiplex, transcode, or persist anything.
type loggingHandler struct {
	demux.NopHandler
	log *slog.Logger
}

func newLoggingHandler(log *slog.Logger) *loggingHandler {
	return &loggingHandler{log: log.With("component", "handler")}
}

func (h *loggingHandler) OnVideoData(s *stream.ElementaryStream, mfu codec.MfuData) {
	h.log.Info("video access unit",
		"packet_id", s.PacketID, "stream_index", mfu.StreamIndex,
		"bytes", len(mfu.Payload), "random_access", mfu.Flags.RandomAccess)
}

func (h *loggingHandler) OnAudioData(s *stream.ElementaryStream, mfu codec.MfuData) {
	h.log.Info("audio access unit",
		"packet_id", s.PacketID, "stream_index", mfu.StreamIndex, "bytes", len(mfu.Payload))
}

func (h *loggingHandler) OnSubtitleData(s *stream.ElementaryStream, mfu codec.MfuData) {
	h.log.Info("subtitle unit", "packet_id", s.PacketID, "stream_index", mfu.StreamIndex, "bytes", len(mfu.Payload))
}

func (h *loggingHandler) OnApplicationData(s *stream.ElementaryStream, mfu codec.MfuData) {
	h.log.Info("application data unit", "packet_id", s.PacketID, "stream_index", mfu.StreamIndex, "bytes", len(mfu.Payload))
}

func (h *loggingHandler) OnNtp(pkt *ntp.Packet) {
	h.log.Debug("ntp", "transmit_time", pkt.TransmitTime.Time(), "stratum", pkt.Stratum)
}

func (h *loggingHandler) OnMpt(t *tables.Mpt) {
	h.log.Info("mpt updated", "assets", len(t.Assets))
}

func (h *loggingHandler) OnEcm(t *tables.Ecm) {
	h.log.Info("ecm received", "bytes", len(t.EcmData))
}

func (h *loggingHandler) OnNit(*tables.Nit) { h.log.Debug("nit received") }
func (h *loggingHandler) OnPlt(*tables.Plt) { h.log.Debug("plt received") }

func (h *loggingHandler) OnMhBit(t *tables.MhBit) {
	h.log.Info("mh-bit received", "broadcasters", len(t.Broadcasters), "original_network_id", t.OriginalNetworkID)
}

func (h *loggingHandler) OnMhCdt(*tables.MhCdt) { h.log.Debug("mh-cdt received") }
func (h *loggingHandler) OnMhTot(*tables.MhTot) { h.log.Debug("mh-tot received") }
func (h *loggingHandler) OnMhSdt(*tables.MhSdt) { h.log.Debug("mh-sdt received") }
func (h *loggingHandler) OnMhEit(*tables.MhEit) { h.log.Debug("mh-eit received") }
