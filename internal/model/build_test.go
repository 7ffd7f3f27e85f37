package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPropertyUnmarshalTriple(t *testing.T) {
	var p Property
	if err := json.Unmarshal([]byte(`["owner", "alice", "Force Build Form"]`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.Name != "owner" {
		t.Errorf("name = %q, want owner", p.Name)
	}
	if p.Value != "alice" {
		t.Errorf("value = %v, want alice", p.Value)
	}
	if p.Source != "Force Build Form" {
		t.Errorf("source = %q", p.Source)
	}
}

func TestPropertyUnmarshalPair(t *testing.T) {
	var p Property
	if err := json.Unmarshal([]byte(`["buildnumber", 42]`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.Name != "buildnumber" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Value != float64(42) {
		t.Errorf("value = %v, want 42", p.Value)
	}
}

func TestPropertyUnmarshalRejectsShortTriple(t *testing.T) {
	var p Property
	if err := json.Unmarshal([]byte(`["lonely"]`), &p); err == nil {
		t.Fatal("expected error for single-element property")
	}
}

func TestPropertyListLookup(t *testing.T) {
	list := PropertyList{
		{Name: "scheduler", Value: "nightly"},
		{Name: "owner", Value: "alice"},
	}

	v, ok := list.Lookup("owner")
	if !ok || v != "alice" {
		t.Errorf("Lookup(owner) = %v, %v", v, ok)
	}

	if _, ok := list.Lookup("missing"); ok {
		t.Error("Lookup(missing) should not be found")
	}

	var empty PropertyList
	if _, ok := empty.Lookup("owner"); ok {
		t.Error("Lookup on nil list should not be found")
	}
}

func f64(v float64) *float64 { return &v }

func TestBuildTimes(t *testing.T) {
	b := Build{Times: []*float64{f64(1000), nil}}

	start, ok := b.StartTime()
	if !ok {
		t.Fatal("expected start time")
	}
	if start.Unix() != 1000 {
		t.Errorf("start = %v", start.Unix())
	}

	if _, ok := b.EndTime(); ok {
		t.Error("running build should have no end time")
	}
	if b.Finished() {
		t.Error("running build is not finished")
	}

	results := ResultSuccess
	b.Times[1] = f64(1600)
	b.Results = &results
	if !b.Finished() {
		t.Error("build with results and end time is finished")
	}
}

func TestBuildProgress(t *testing.T) {
	now := time.Unix(1300, 0)

	// 300s elapsed, 100s remaining -> 75%
	b := Build{Times: []*float64{f64(1000), nil}, Eta: f64(100)}
	if got := b.Progress(now); got < 0.74 || got > 0.76 {
		t.Errorf("progress = %v, want ~0.75", got)
	}

	// No eta -> unknown, reported as 0.
	b = Build{Times: []*float64{f64(1000), nil}}
	if got := b.Progress(now); got != 0 {
		t.Errorf("progress without eta = %v, want 0", got)
	}

	// Finished -> 1.
	results := ResultFailure
	b = Build{Times: []*float64{f64(1000), f64(1200)}, Results: &results}
	if got := b.Progress(now); got != 1 {
		t.Errorf("finished progress = %v, want 1", got)
	}
}
