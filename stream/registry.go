package stream

import (
	"github.com/zsiec/mmtdemux/codec"
	"github.com/zsiec/mmtdemux/descriptors"
	"github.com/zsiec/mmtdemux/tables"
)

// inBandLocation is the location_type value meaning "delivered in-band
// by MMTP packet-id", the only kind the registry acts on.
const inBandLocation = 0

// Registry holds the set of elementary streams announced by the most
// recently processed MPT, indexed both by MMTP packet-id (authoritative)
// and by stream index (derived, rebuilt on every update).
type Registry struct {
	byPacketID  map[uint16]*ElementaryStream
	byStreamIdx map[int]*ElementaryStream
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byPacketID:  make(map[uint16]*ElementaryStream),
		byStreamIdx: make(map[int]*ElementaryStream),
	}
}

// Get returns the stream for packetID, or nil if none is registered.
func (r *Registry) Get(packetID uint16) *ElementaryStream {
	return r.byPacketID[packetID]
}

// ByStreamIndex returns the stream at the given declaration-order
// index from the most recent MPT, or nil.
func (r *Registry) ByStreamIndex(idx int) *ElementaryStream {
	return r.byStreamIdx[idx]
}

// Clear drops every registered stream, called by Demuxer.Clear.
func (r *Registry) Clear() {
	r.byPacketID = make(map[uint16]*ElementaryStream)
	r.byStreamIdx = make(map[int]*ElementaryStream)
}

func mptAssetType(a tables.AssetType) codec.AssetType { return codec.AssetType(a) }

// recognizedAssetType reports whether the registry tracks streams of
// this asset type at all.
func recognizedAssetType(a codec.AssetType) bool {
	switch a {
	case codec.AssetTypeHEVC, codec.AssetTypeAAC, codec.AssetTypeTTML, codec.AssetTypeApplication:
		return true
	default:
		return false
	}
}

// ApplyMpt updates the registry from a freshly parsed MPT, per spec.md
// §4.6: pruning streams no longer announced or whose asset type
// changed, then upserting streams for each announced in-band asset and
// ingesting its descriptors.
func (r *Registry) ApplyMpt(mpt *tables.Mpt) {
	announced := make(map[uint16]codec.AssetType)
	for _, asset := range mpt.Assets {
		for _, loc := range asset.LocationInfos {
			if loc.LocationType == inBandLocation {
				announced[loc.PacketID] = mptAssetType(asset.AssetType)
			}
		}
	}

	if len(announced) > 0 {
		for pid, s := range r.byPacketID {
			assetType, ok := announced[pid]
			if !ok || assetType != s.AssetType {
				delete(r.byPacketID, pid)
			}
		}
	}

	r.byStreamIdx = make(map[int]*ElementaryStream)

	streamIndex := 0
	for _, asset := range mpt.Assets {
		assetType := mptAssetType(asset.AssetType)
		if !recognizedAssetType(assetType) {
			continue
		}

		var es *ElementaryStream
		for _, loc := range asset.LocationInfos {
			if loc.LocationType != inBandLocation {
				continue
			}

			es = r.byPacketID[loc.PacketID]
			if es == nil {
				es = newElementaryStream(loc.PacketID)
				r.byPacketID[loc.PacketID] = es
			}
			es.AssetType = assetType
			es.streamIndex = streamIndex

			if es.Processor == nil {
				es.Processor = codec.Factory(assetType)
			}

			r.byStreamIdx[streamIndex] = es
			streamIndex++
		}

		if es == nil {
			continue
		}

		for _, d := range asset.Descriptors {
			switch desc := d.(type) {
			case *descriptors.MPUTimestampDescriptor:
				for _, e := range desc.Entries {
					es.MergeMPUTimestamp(e)
				}
			case *descriptors.MPUExtendedTimestampDescriptor:
				if desc.TimescaleFlag {
					es.SetTimebase(1, desc.Timescale)
				}
				for _, e := range desc.Entries {
					es.MergeMPUExtendedTimestamp(e)
				}
			case *descriptors.StreamIdentificationDescriptor:
				es.ComponentTag = desc.ComponentTag
			case *descriptors.VideoComponentDescriptor:
				es.VideoComponent = desc
			case *descriptors.AudioComponentDescriptor:
				es.AudioComponent = desc
			}
		}
	}
}
