package entropy

import (
	"encoding/json"
	"testing"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := NewSource(7), NewSource(7)
	for i := 0; i < 50; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestStateRoundTripContinuesSequence(t *testing.T) {
	a := NewSource(99)
	a.IntN(10)
	a.IntN(10)

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var b Source
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(500), b.IntN(500); x != y {
			t.Fatalf("draw %d after restore: %d != %d", i, x, y)
		}
	}
}

func TestPickEmpty(t *testing.T) {
	s := NewSource(1)
	if got := s.Pick(0); got != -1 {
		t.Errorf("Pick(0) = %d, want -1", got)
	}
	if got := s.IntN(0); got != 0 {
		t.Errorf("IntN(0) = %d, want 0", got)
	}
}
