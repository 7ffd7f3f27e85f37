package model

import (
	"encoding/json"
	"testing"
)

func TestFlattenSlaves(t *testing.T) {
	payload := json.RawMessage(`{
		"slave2": {"host": "c1.example.org", "connected": true},
		"slave1": {"host": "c2.example.org", "connected": false, "admin": "bob"}
	}`)

	slaves, err := FlattenSlaves(payload)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	if len(slaves) != 2 {
		t.Fatalf("got %d slaves, want 2", len(slaves))
	}

	// Sorted by map key, key wins as the name.
	if slaves[0].Name != "slave1" || slaves[1].Name != "slave2" {
		t.Errorf("order = %q, %q", slaves[0].Name, slaves[1].Name)
	}
	if slaves[0].Admin != "bob" {
		t.Errorf("admin = %q", slaves[0].Admin)
	}
	if !slaves[1].Connected {
		t.Error("slave2 should be connected")
	}
}

func TestFlattenSlavesRejectsArray(t *testing.T) {
	if _, err := FlattenSlaves(json.RawMessage(`[1, 2]`)); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}
