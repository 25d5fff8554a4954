package stream

import (
	"testing"

	"github.com/zsiec/mmtdemux/descriptors"
	"github.com/zsiec/mmtdemux/tables"
)

func hevcAsset(pid uint16) tables.Asset {
	return tables.Asset{
		AssetType:     tables.AssetTypeHEV1,
		LocationInfos: []tables.LocationInfo{{LocationType: 0, PacketID: pid}},
	}
}

func TestApplyMpt_UpsertsAndAssignsStreamIndex(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(100)}})

	es := r.Get(100)
	if es == nil {
		t.Fatal("stream 100 not registered")
	}
	if es.StreamIndex() != 0 {
		t.Errorf("streamIndex = %d, want 0", es.StreamIndex())
	}
	if r.ByStreamIndex(0) != es {
		t.Error("byStreamIdx not populated")
	}
	if es.Processor == nil {
		t.Error("expected a processor to be created")
	}
}

func TestApplyMpt_PrunesStreamsNotAnnounced(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(100)}})
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(200)}})

	if r.Get(100) != nil {
		t.Error("stream 100 should have been pruned")
	}
	if r.Get(200) == nil {
		t.Error("stream 200 should be registered")
	}
}

func TestApplyMpt_PrunesOnAssetTypeChange(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(100)}})
	es := r.Get(100)
	es.MergeMPUTimestamp(descriptors.MPUTimestampEntry{MPUSequenceNumber: 1, MPUPresentationTime: 1})

	aacAsset := tables.Asset{
		AssetType:     tables.AssetTypeMP4A,
		LocationInfos: []tables.LocationInfo{{LocationType: 0, PacketID: 100}},
	}
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{aacAsset}})

	newEs := r.Get(100)
	if newEs == es {
		t.Error("expected asset-type change to replace the stream")
	}
	if len(newEs.MPUTimestamps()) != 0 {
		t.Error("expected fresh stream to have no timestamp history")
	}
}

func TestApplyMpt_EmptyMptDoesNotPrune(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(100)}})
	r.ApplyMpt(&tables.Mpt{Assets: nil})

	if r.Get(100) == nil {
		t.Error("empty MPT should not prune existing streams")
	}
}

func TestApplyMpt_IngestsDescriptors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	asset := hevcAsset(100)
	asset.Descriptors = []descriptors.Descriptor{
		&descriptors.StreamIdentificationDescriptor{ComponentTag: 7},
		&descriptors.MPUExtendedTimestampDescriptor{TimescaleFlag: true, Timescale: 27000000},
	}
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{asset}})

	es := r.Get(100)
	if es.ComponentTag != 7 {
		t.Errorf("ComponentTag = %d, want 7", es.ComponentTag)
	}
	num, den := es.Timebase()
	if num != 1 || den != 27000000 {
		t.Errorf("timebase = %d/%d", num, den)
	}
}

func TestMergeMPUTimestamp_EvictsMinimumOnOverflow(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(100)}})
	es := r.Get(100)

	for seq := uint32(0); seq <= 100; seq++ {
		es.MergeMPUTimestamp(descriptors.MPUTimestampEntry{MPUSequenceNumber: seq, MPUPresentationTime: uint64(seq)})
	}

	entries := es.MPUTimestamps()
	if len(entries) != 100 {
		t.Fatalf("len(entries) = %d, want 100", len(entries))
	}
	for _, e := range entries {
		if e.MPUSequenceNumber == 0 {
			t.Error("seq 0 should have been evicted")
		}
	}

	found100 := false
	for _, e := range entries {
		if e.MPUSequenceNumber == 100 {
			found100 = true
		}
	}
	if !found100 {
		t.Error("seq 100 should be present")
	}
}

func TestMergeMPUExtendedTimestamp_DiscardsStaleIncoming(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.ApplyMpt(&tables.Mpt{Assets: []tables.Asset{hevcAsset(100)}})
	es := r.Get(100)
	es.SetLastMPUSequenceNumber(10)

	es.MergeMPUExtendedTimestamp(descriptors.MPUExtendedTimestampEntry{MPUSequenceNumber: 5})
	if len(es.MPUExtendedTimestamps()) != 0 {
		t.Error("stale incoming entry should have been discarded")
	}

	es.MergeMPUExtendedTimestamp(descriptors.MPUExtendedTimestampEntry{MPUSequenceNumber: 11})
	if len(es.MPUExtendedTimestamps()) != 1 {
		t.Error("non-stale entry should have been inserted")
	}
}
