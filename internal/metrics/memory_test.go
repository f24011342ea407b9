package metrics

import "testing"

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	snap := mc.Snapshot()

	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemoryCollector_Delta(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()

	// Allocate some memory
	_ = make([]byte, 1024*1024) // 1 MB

	after := mc.Snapshot()

	// Sys should not decrease between snapshots
	if after.Sys < before.Sys {
		t.Error("Sys should not decrease between snapshots")
	}
}

func TestMemorySnapshot_Since(t *testing.T) {
	t.Parallel()

	before := MemorySnapshot{HeapAlloc: 1000, NumGC: 3, PauseTotalNs: 50}
	after := MemorySnapshot{HeapAlloc: 400, NumGC: 5, PauseTotalNs: 80}

	d := after.Since(before)
	if d.GCCycles != 2 {
		t.Errorf("GCCycles = %d, want 2", d.GCCycles)
	}
	if d.PauseTotalNs != 30 {
		t.Errorf("PauseTotalNs = %d, want 30", d.PauseTotalNs)
	}
	if d.HeapGrowth != -600 {
		t.Errorf("HeapGrowth = %d, want -600", d.HeapGrowth)
	}
}
