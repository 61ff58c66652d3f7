package model

import (
	"encoding/json"
	"testing"
)

func TestSnapshot_PreservesKeyOrder(t *testing.T) {
	raw := `{"ZZZ": {"History": [1]}, "AAA": {"History": [2]}, "MMM": {"History": [3]}}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"ZZZ", "AAA", "MMM"}
	if len(snap.Order) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(snap.Order))
	}
	for i, name := range want {
		if snap.Order[i] != name {
			t.Errorf("key %d: expected %q, got %q", i, name, snap.Order[i])
		}
	}
}

func TestSnapshot_RejectsNonObject(t *testing.T) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &snap); err == nil {
		t.Error("expected error for non-object payload")
	}
}

func TestSnapshot_MarshalRoundTrip(t *testing.T) {
	raw := `{"B": {"History": [1, 2]}, "A": {"History": [3], "Category": "MEME"}}`

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(&snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var again Snapshot
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if len(again.Order) != 2 || again.Order[0] != "B" || again.Order[1] != "A" {
		t.Errorf("order not preserved through marshal: %v", again.Order)
	}
	if again.Entries["A"].Category != "MEME" {
		t.Errorf("entry fields lost: %+v", again.Entries["A"])
	}
}
