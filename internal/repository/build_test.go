package repository

import (
	"path/filepath"
	"testing"
	"time"

	"bbdash/internal/db"
	"bbdash/internal/model"
)

func newTestRepo(t *testing.T) *BuildRepository {
	t.Helper()

	if err := db.Init(filepath.Join(t.TempDir(), "bbdash.db")); err != nil {
		t.Fatalf("db.Init: %v", err)
	}

	return NewBuildRepository()
}

func record(builder string, number, result int, finished time.Time) model.BuildRecord {
	return model.BuildRecord{
		Builder:    builder,
		Number:     number,
		Result:     result,
		Revision:   "deadbeef",
		Owner:      "alice",
		StartedAt:  finished.Add(-5 * time.Minute),
		FinishedAt: finished,
	}
}

func TestSaveDeduplicatesByBuilderAndNumber(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now()

	if err := repo.Save(record("linux", 7, model.ResultSuccess, now)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(record("linux", 7, model.ResultFailure, now)); err != nil {
		t.Fatalf("Save duplicate: %v", err)
	}

	recs, err := repo.GetByBuilder("linux", 10)
	if err != nil {
		t.Fatalf("GetByBuilder: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Result != model.ResultSuccess {
		t.Errorf("first write should win, got result %d", recs[0].Result)
	}
}

func TestSeen(t *testing.T) {
	repo := newTestRepo(t)

	seen, err := repo.Seen("linux", 7)
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Error("unsaved build reported as seen")
	}

	if err := repo.Save(record("linux", 7, model.ResultSuccess, time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	seen, err = repo.Seen("linux", 7)
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if !seen {
		t.Error("saved build reported as unseen")
	}
}

func TestGetRecentOrdersByFinishTime(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().Truncate(time.Second)

	for i, finished := range []time.Time{base, base.Add(2 * time.Minute), base.Add(time.Minute)} {
		if err := repo.Save(record("linux", i+1, model.ResultSuccess, finished)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	recs, err := repo.GetRecent(2)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Number != 2 || recs[1].Number != 3 {
		t.Errorf("order = [%d %d], want [2 3]", recs[0].Number, recs[1].Number)
	}
}

func TestGetStats(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now()

	for i, result := range []int{model.ResultSuccess, model.ResultSuccess, model.ResultFailure, model.ResultException} {
		if err := repo.Save(record("linux", i+1, result, now)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	stats, err := repo.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Total != 4 || stats.Success != 2 || stats.Failed != 2 {
		t.Errorf("stats = %+v, want total 4 success 2 failed 2", stats)
	}
}
