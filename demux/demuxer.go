// Package demux implements the Demuxer façade: the single synchronous
// entry point (ProcessPacket) that frames TLV packets, decodes MMTP
// packets and MPU payloads, reassembles fragments, dispatches
// signaling tables, and invokes Handler callbacks. Grounded on the
// original implementation's MmtTlvDemuxer::processPacket and its
// process{Mpu,SignalingMessage(s),TlvTable,MmtTable,...} helpers.
package demux

import (
	"log/slog"

	"github.com/zsiec/mmtdemux/acas"
	"github.com/zsiec/mmtdemux/codec"
	"github.com/zsiec/mmtdemux/fragment"
	"github.com/zsiec/mmtdemux/mmtp"
	"github.com/zsiec/mmtdemux/mpu"
	"github.com/zsiec/mmtdemux/ntp"
	"github.com/zsiec/mmtdemux/stream"
	"github.com/zsiec/mmtdemux/tables"
	"github.com/zsiec/mmtdemux/tlv"
)

// Status codes returned by ProcessPacket, per spec.md §4.8.
const (
	StatusConsumed      = 1
	StatusNeedMoreBytes  = -1
	StatusResync         = -2
)

// Demuxer is the MMT/TLV core. It owns all mutable state: fragment
// assemblers, the stream registry, and the descrambler coordinator.
// It is not safe for concurrent use — ProcessPacket is the only entry
// point that advances state, and it runs to completion before
// returning (spec.md §5).
type Demuxer struct {
	handler    Handler
	assemblers *fragment.Registry
	registry   *stream.Registry
	descram    *acas.Coordinator
	log        *slog.Logger
}

// New returns a Demuxer that reports to handler and descrambles
// through card. If log is nil, slog.Default() is used. If handler is
// nil, callbacks are silently skipped.
func New(handler Handler, card acas.Card, log *slog.Logger) *Demuxer {
	if log == nil {
		log = slog.Default()
	}
	return &Demuxer{
		handler:    handler,
		assemblers: fragment.NewRegistry(),
		registry:   stream.NewRegistry(),
		descram:    acas.NewCoordinator(card, log),
		log:        log.With("component", "demux"),
	}
}

// Init performs the descrambler's init/connect sequence.
func (d *Demuxer) Init() { d.descram.Init() }

// Clear drops all assemblers, all streams, and resets the descrambler.
// Subsequent input is treated as a fresh session starting from the
// next MPT/RAP.
func (d *Demuxer) Clear() {
	d.assemblers.Clear()
	d.registry.Clear()
	d.descram.Clear()
}

// ProcessPacket frames and processes exactly one TLV packet from the
// front of r, returning a status per spec.md §4.8. All callbacks this
// call produces are invoked before it returns.
func (d *Demuxer) ProcessPacket(r *tlv.ByteReader) int {
	pkt, result := tlv.TryConsume(r)
	switch result {
	case tlv.ResultNeedMoreBytes:
		return StatusNeedMoreBytes
	case tlv.ResultResync:
		return StatusResync
	}

	switch pkt.Type {
	case tlv.PacketTypeTransmissionControlSignal:
		d.processTlvTable(pkt.Payload)
	case tlv.PacketTypeIPv6:
		d.processIPv6(pkt.Payload)
	case tlv.PacketTypeHeaderCompressedIP:
		d.processMmtpPacket(pkt.Payload)
	}

	return StatusConsumed
}

// processTlvTable handles a table carried directly in a transmission-
// control-signal TLV packet. An ECM is delivered to OnEcm and a NIT to
// OnNit; other tables found here are ignored. An ECM on this path is
// not submitted to the descrambler.
func (d *Demuxer) processTlvTable(r *tlv.ByteReader) {
	tbl, ok, err := tables.Parse(r)
	if err != nil || !ok || d.handler == nil {
		return
	}
	switch t := tbl.(type) {
	case *tables.Ecm:
		d.handler.OnEcm(t)
	case *tables.Nit:
		d.handler.OnNit(t)
	}
}

func (d *Demuxer) processIPv6(r *tlv.ByteReader) {
	ipv6, err := ntp.ParseIPv6Header(r)
	if err != nil || ipv6.NextHeader != ntp.ProtocolUDP {
		return
	}
	udp, err := ntp.ParseUDPHeader(r)
	if err != nil || udp.DestinationPort != ntp.PortNTP {
		return
	}
	pkt, err := ntp.Parse(r)
	if err != nil {
		return
	}
	if d.handler != nil {
		d.handler.OnNtp(pkt)
	}
}

func (d *Demuxer) processMmtpPacket(r *tlv.ByteReader) {
	pkt, err := mmtp.Decode(r)
	if err != nil {
		return
	}

	if pkt.Scrambling != nil {
		switch pkt.Scrambling.EncryptionFlag {
		case mmtp.EncryptionOdd, mmtp.EncryptionEven:
			if !d.descram.Ready() {
				return
			}
			if err := d.descram.Decrypt(pkt.Payload, descramblerFlag(pkt.Scrambling.EncryptionFlag)); err != nil {
				d.log.Warn("descrambler decrypt failed", "packetId", pkt.PacketID, "error", err)
				return
			}
		}
	}

	switch pkt.PayloadType {
	case mmtp.PayloadTypeMPU:
		d.processMpu(pkt)
	case mmtp.PayloadTypeControlMessageAggregate:
		d.processSignalingMessages(pkt)
	}
}

func descramblerFlag(f mmtp.EncryptionFlag) acas.EncryptionFlag {
	if f == mmtp.EncryptionEven {
		return acas.KeyEven
	}
	return acas.KeyOdd
}

// processMpu implements spec.md §4.4's MPU processing steps.
func (d *Demuxer) processMpu(pkt mmtp.Packet) {
	payload, err := mpu.Decode(tlv.NewByteReader(pkt.Payload))
	if err != nil {
		return
	}
	if payload.FragmentType != mpu.FragmentTypeMFU {
		return
	}

	es := d.registry.Get(pkt.PacketID)
	if es == nil {
		return
	}
	assembler := d.assemblers.Get(pkt.PacketID)

	if assembler.State() == fragment.Init && !pkt.RAPFlag {
		return
	}

	switch {
	case assembler.State() == fragment.Init:
		es.SetLastMPUSequenceNumber(payload.MPUSequenceNumber)
	case payload.MPUSequenceNumber == es.LastMPUSequenceNumber()+1:
		es.SetLastMPUSequenceNumber(payload.MPUSequenceNumber)
		es.ResetAUIndex()
	case payload.MPUSequenceNumber != es.LastMPUSequenceNumber():
		d.log.Warn("mpu sequence drop", "packetId", pkt.PacketID,
			"have", es.LastMPUSequenceNumber(), "got", payload.MPUSequenceNumber)
		assembler.Clear()
		return
	}

	assembler.CheckState(pkt.PacketSequenceNumber)
	es.SetRAPFlag(pkt.RAPFlag)

	for {
		du, ok, err := payload.Next()
		if err != nil {
			return
		}
		if !ok {
			break
		}
		if data, complete := assembler.Assemble(du.Data, payload.FragmentationIndicator, pkt.PacketSequenceNumber); complete {
			d.processMfuData(es, data)
			assembler.Clear()
		}
	}
}

func (d *Demuxer) processMfuData(es *stream.ElementaryStream, data []byte) {
	if es.Processor == nil {
		return
	}
	mfuData, ok := es.Processor.Process(es, data)
	if !ok {
		return
	}

	target := d.registry.ByStreamIndex(mfuData.StreamIndex)
	if target == nil || d.handler == nil {
		return
	}

	switch target.AssetType {
	case codec.AssetTypeHEVC:
		d.handler.OnVideoData(target, mfuData)
	case codec.AssetTypeAAC:
		d.handler.OnAudioData(target, mfuData)
	case codec.AssetTypeTTML:
		d.handler.OnSubtitleData(target, mfuData)
	case codec.AssetTypeApplication:
		d.handler.OnApplicationData(target, mfuData)
	}
}

// processSignalingMessages implements spec.md §4.5.
func (d *Demuxer) processSignalingMessages(pkt mmtp.Packet) {
	sm, err := decodeSignalingMessage(tlv.NewByteReader(pkt.Payload))
	if err != nil {
		return
	}

	assembler := d.assemblers.Get(pkt.PacketID)
	assembler.CheckState(pkt.PacketSequenceNumber)

	if !sm.aggregationFlag {
		if data, ok := assembler.Assemble(sm.payload, sm.fragmentationIndicator, pkt.PacketSequenceNumber); ok {
			d.processSignalingMessage(tlv.NewByteReader(data))
			assembler.Clear()
		}
		return
	}

	if sm.fragmentationIndicator != mpu.NotFragmented {
		return
	}

	nr := tlv.NewByteReader(sm.payload)
	for !nr.AtEOF() {
		var length int
		if sm.lengthExtensionFlag {
			l, err := nr.ReadBE32()
			if err != nil {
				return
			}
			length = int(l)
		} else {
			l, err := nr.ReadBE16()
			if err != nil {
				return
			}
			length = int(l)
		}

		msgBytes, err := nr.ReadBytes(length)
		if err != nil {
			return
		}
		if data, ok := assembler.Assemble(msgBytes, sm.fragmentationIndicator, pkt.PacketSequenceNumber); ok {
			d.processSignalingMessage(tlv.NewByteReader(data))
			assembler.Clear()
		}
	}
}

func (d *Demuxer) processSignalingMessage(r *tlv.ByteReader) {
	idBytes, err := r.Peek(2)
	if err != nil {
		return
	}
	id := tables.MessageID(uint16(idBytes[0])<<8 | uint16(idBytes[1]))

	switch id {
	case tables.MessageIDPA:
		pa, err := tables.ParsePaMessage(r)
		if err != nil {
			return
		}
		for !pa.Tables.AtEOF() {
			d.processMmtTable(pa.Tables)
		}
	case tables.MessageIDM2Section:
		if err := tables.ParseM2SectionMessage(r); err != nil {
			return
		}
		d.processMmtTable(r)
	case tables.MessageIDM2ShortSection:
		if err := tables.ParseM2ShortSectionMessage(r); err != nil {
			return
		}
		d.processMmtTable(r)
	}
}

// processMmtTable implements the table-factory dispatch of spec.md
// §4.5: MPT updates the StreamRegistry, ECM feeds the descrambler, and
// every recognized table is also delivered verbatim to the consumer.
func (d *Demuxer) processMmtTable(r *tlv.ByteReader) {
	tbl, ok, err := tables.Parse(r)
	if err != nil || !ok {
		// Parse leaves r unconsumed on an unrecognized table id and
		// partly consumed on a structural error; discard the rest of the
		// enclosing message so a PA-message table loop's AtEOF() check
		// can terminate.
		r.Skip(r.Remaining())
		return
	}

	switch t := tbl.(type) {
	case *tables.Mpt:
		d.registry.ApplyMpt(t)
		if d.handler != nil {
			d.handler.OnMpt(t)
		}
	case *tables.Ecm:
		d.descram.SubmitECM(t.EcmData)
		if d.handler != nil {
			d.handler.OnEcm(t)
		}
	case *tables.Nit:
		if d.handler != nil {
			d.handler.OnNit(t)
		}
	case *tables.Plt:
		if d.handler != nil {
			d.handler.OnPlt(t)
		}
	case *tables.MhBit:
		if d.handler != nil {
			d.handler.OnMhBit(t)
		}
	case *tables.MhCdt:
		if d.handler != nil {
			d.handler.OnMhCdt(t)
		}
	case *tables.MhTot:
		if d.handler != nil {
			d.handler.OnMhTot(t)
		}
	case *tables.MhSdt:
		if d.handler != nil {
			d.handler.OnMhSdt(t)
		}
	case *tables.MhEit:
		if d.handler != nil {
			d.handler.OnMhEit(t)
		}
	}
}
