package poller

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"bbdash/internal/db"
	"bbdash/internal/model"
	"bbdash/internal/repository"
	"bbdash/internal/state"
)

func newTestRegistry(t *testing.T) (*Registry, *state.Store) {
	t.Helper()
	store := state.NewStore()
	r := NewRegistry()
	RegisterHandlers(r, store, nil)
	return r, store
}

func TestCurrentBuildsMissingListClearsTable(t *testing.T) {
	r, store := newTestRegistry(t)

	store.ReplaceCurrentBuilds([]model.Build{{Number: 1}})

	// Builder payload without a currentBuilds key: nothing is running.
	r.Dispatch(map[string]json.RawMessage{
		ChannelCurrentBuilds: json.RawMessage(`{"state": "idle"}`),
	})

	if snap := store.Snapshot(); len(snap.CurrentBuilds) != 0 {
		t.Errorf("got %d current builds, want 0", len(snap.CurrentBuilds))
	}
}

func TestCurrentBuildsMalformedPayloadKeepsDaemonAlive(t *testing.T) {
	r, store := newTestRegistry(t)

	store.ReplaceCurrentBuilds([]model.Build{{Number: 1}})

	r.Dispatch(map[string]json.RawMessage{
		ChannelCurrentBuilds: json.RawMessage(`not json at all`),
	})

	// The table keeps its previous snapshot; the error is logged, not raised.
	if snap := store.Snapshot(); len(snap.CurrentBuilds) != 1 {
		t.Errorf("got %d current builds, want previous snapshot of 1", len(snap.CurrentBuilds))
	}
}

func TestCurrentBuildsReplacesAllRows(t *testing.T) {
	r, store := newTestRegistry(t)

	payload := json.RawMessage(`{"currentBuilds": [
		{"number": 10, "builderName": "linux"},
		{"number": 11, "builderName": "linux"},
		{"number": 12, "builderName": "linux"}
	]}`)

	r.Dispatch(map[string]json.RawMessage{ChannelCurrentBuilds: payload})

	snap := store.Snapshot()
	if len(snap.CurrentBuilds) != 3 {
		t.Fatalf("got %d rows, want 3", len(snap.CurrentBuilds))
	}
	if snap.CurrentBuilds[0].Number != 10 {
		t.Errorf("first build = #%d", snap.CurrentBuilds[0].Number)
	}
}

func TestHandlersAreIdempotent(t *testing.T) {
	r, store := newTestRegistry(t)

	payload := map[string]json.RawMessage{
		ChannelCurrentBuilds: json.RawMessage(`{"currentBuilds": [{"number": 1}]}`),
		ChannelBuilds:        json.RawMessage(`[{"number": 9, "builderName": "linux"}]`),
		ChannelPending:       json.RawMessage(`[{"builderName": "linux", "reason": "nightly"}]`),
		ChannelSlaves:        json.RawMessage(`{"s1": {"connected": true}}`),
	}

	r.Dispatch(payload)
	first := store.Snapshot()

	r.Dispatch(payload)
	second := store.Snapshot()

	first.UpdatedAt, second.UpdatedAt = nil, nil
	if !reflect.DeepEqual(first, second) {
		t.Error("dispatching the same payload twice changed the tables")
	}
}

func TestSlavesObjectOfObjectsFlattens(t *testing.T) {
	r, store := newTestRegistry(t)

	r.Dispatch(map[string]json.RawMessage{
		ChannelSlaves: json.RawMessage(`{
			"slave1": {"host": "a", "connected": true},
			"slave2": {"host": "b", "connected": false}
		}`),
	})

	snap := store.Snapshot()
	if len(snap.Slaves) != 2 {
		t.Fatalf("got %d slaves, want 2", len(snap.Slaves))
	}
	if snap.Slaves[0].Name != "slave1" || snap.Slaves[1].Name != "slave2" {
		t.Errorf("slave order = %q, %q", snap.Slaves[0].Name, snap.Slaves[1].Name)
	}
}

func TestProjectPayloadFillsBuildersTable(t *testing.T) {
	r, store := newTestRegistry(t)

	r.Dispatch(map[string]json.RawMessage{
		ChannelProject: json.RawMessage(`{"builders": [
			{"name": "linux", "state": "building", "pendingBuilds": 2},
			{"name": "mac", "state": "idle"}
		]}`),
	})

	snap := store.Snapshot()
	if len(snap.Builders) != 2 {
		t.Fatalf("got %d builders, want 2", len(snap.Builders))
	}
	if snap.Builders[0].PendingBuilds != 2 {
		t.Errorf("pending = %d", snap.Builders[0].PendingBuilds)
	}
}

func TestBuildQueuePayloadFillsQueueTable(t *testing.T) {
	r, store := newTestRegistry(t)

	r.Dispatch(map[string]json.RawMessage{
		ChannelQueue: json.RawMessage(`[
			{"builderName": "linux", "reason": "nightly"},
			{"builderName": "mac", "reason": "try"}
		]`),
	})

	snap := store.Snapshot()
	if len(snap.Queue) != 2 {
		t.Fatalf("got %d queued requests, want 2", len(snap.Queue))
	}
	if snap.Queue[1].BuilderName != "mac" {
		t.Errorf("second request builder = %q", snap.Queue[1].BuilderName)
	}
}

func TestGlobalStatusPayload(t *testing.T) {
	r, store := newTestRegistry(t)

	r.Dispatch(map[string]json.RawMessage{
		ChannelGlobal: json.RawMessage(`{"slaves_count": 4, "slaves_busy": 1, "running_builds": 3, "build_load": 7}`),
	})

	snap := store.Snapshot()
	if snap.Global.SlavesCount != 4 || snap.Global.BuildLoad != 7 {
		t.Errorf("global = %+v", snap.Global)
	}
}

func TestFinishedBuildsRecordedOncePerBuild(t *testing.T) {
	if err := db.Init(filepath.Join(t.TempDir(), "bbdash.db")); err != nil {
		t.Fatalf("db.Init: %v", err)
	}

	store := state.NewStore()
	history := repository.NewBuildRepository()
	r := NewRegistry()
	RegisterHandlers(r, store, history)

	payload := map[string]json.RawMessage{
		ChannelBuilds: json.RawMessage(`[
			{"number": 5, "builderName": "linux", "results": 0, "times": [100, 200]},
			{"number": 6, "builderName": "linux", "times": [150, null]}
		]`),
	}

	r.Dispatch(payload)
	r.Dispatch(payload)

	recs, err := history.GetByBuilder("linux", 10)
	if err != nil {
		t.Fatalf("GetByBuilder: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1 (finished build only, recorded once)", len(recs))
	}
	if recs[0].Number != 5 {
		t.Errorf("recorded build #%d, want #5", recs[0].Number)
	}
}

func TestSourcesChannelSet(t *testing.T) {
	sources := Sources("proj", "linux", 15)

	channels := make(map[string]bool, len(sources))
	for _, src := range sources {
		channels[src.Channel] = true
	}

	for _, want := range []string{
		ChannelProject, ChannelCurrentBuilds, ChannelBuilds,
		ChannelPending, ChannelSlaves, ChannelGlobal, ChannelQueue,
	} {
		if !channels[want] {
			t.Errorf("missing channel %s", want)
		}
	}

	// Without a builder, the builder-scoped channels disappear.
	projectOnly := Sources("proj", "", 15)
	for _, src := range projectOnly {
		if src.Channel == ChannelCurrentBuilds || src.Channel == ChannelPending {
			t.Errorf("unexpected channel %s without a builder", src.Channel)
		}
	}
}
