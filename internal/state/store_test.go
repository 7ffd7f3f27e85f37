package state

import (
	"testing"

	"bbdash/internal/model"
)

func TestReplaceIsWholesale(t *testing.T) {
	s := NewStore()

	s.ReplaceCurrentBuilds([]model.Build{{Number: 1}, {Number: 2}})
	s.ReplaceCurrentBuilds([]model.Build{{Number: 3}})

	snap := s.Snapshot()
	if len(snap.CurrentBuilds) != 1 {
		t.Fatalf("got %d current builds, want 1", len(snap.CurrentBuilds))
	}
	if snap.CurrentBuilds[0].Number != 3 {
		t.Errorf("build = #%d, want #3", snap.CurrentBuilds[0].Number)
	}
}

func TestClearCurrentBuilds(t *testing.T) {
	s := NewStore()

	s.ReplaceCurrentBuilds([]model.Build{{Number: 1}})
	s.ClearCurrentBuilds()

	if snap := s.Snapshot(); len(snap.CurrentBuilds) != 0 {
		t.Errorf("got %d current builds after clear", len(snap.CurrentBuilds))
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.ReplaceSlaves([]model.Slave{{Name: "slave1"}})

	snap := s.Snapshot()
	snap.Slaves[0].Name = "mutated"
	snap.UpdatedAt["slaves"] = snap.UpdatedAt["slaves"].AddDate(1, 0, 0)

	fresh := s.Snapshot()
	if fresh.Slaves[0].Name != "slave1" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestUpdatedAtPerChannel(t *testing.T) {
	s := NewStore()

	s.ReplacePendingBuilds(nil)
	s.SetGlobal(model.GlobalStatus{RunningBuilds: 2})

	snap := s.Snapshot()
	if _, ok := snap.UpdatedAt["pending_builds"]; !ok {
		t.Error("pending_builds not marked updated")
	}
	if _, ok := snap.UpdatedAt["globalstatus"]; !ok {
		t.Error("globalstatus not marked updated")
	}
	if _, ok := snap.UpdatedAt["slaves"]; ok {
		t.Error("slaves should not be marked updated")
	}
	if snap.Global.RunningBuilds != 2 {
		t.Errorf("global running = %d", snap.Global.RunningBuilds)
	}
}
