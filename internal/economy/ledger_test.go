package economy

import "testing"

func TestGenerateClampsToCapacity(t *testing.T) {
	l := NewLedger(100)
	l.Amount[Steel] = 95
	l.Generate(Steel, 10)
	if l.Amount[Steel] != 100 {
		t.Errorf("expected clamp at 100, got %d", l.Amount[Steel])
	}

	l.Amount[Ore] = 3
	l.Generate(Ore, -5)
	if l.Amount[Ore] != 0 {
		t.Errorf("expected drain to stop at 0, got %d", l.Amount[Ore])
	}
}

func TestGenerateAllAppliesLevelBonusToProducers(t *testing.T) {
	l := NewLedger(1000)
	l.PerSecond[Steel] = 10
	l.PerSecond[Food] = -2
	l.Amount[Food] = 10

	l.GenerateAll(3)

	if l.Amount[Steel] != 13 {
		t.Errorf("steel = %d, want 13", l.Amount[Steel])
	}
	if l.Amount[Food] != 8 {
		t.Errorf("food = %d, want 8 (bonus must not reduce drains)", l.Amount[Food])
	}
}

func TestTransferStep(t *testing.T) {
	tests := []struct {
		name     string
		fromAmt  int
		toAmt    int
		toCap    int
		qty      int
		wantMove bool
	}{
		{"moves one unit", 5, 0, 10, 1, true},
		{"source short", 0, 0, 10, 1, false},
		{"destination full", 5, 10, 10, 1, false},
		{"would overflow", 5, 9, 10, 2, false},
		{"zero qty", 5, 0, 10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := NewLedger(100)
			to := NewLedger(tt.toCap)
			from.Amount[Goods] = tt.fromAmt
			to.Amount[Goods] = tt.toAmt

			moved := TransferStep(&from, &to, Goods, tt.qty)
			if moved != tt.wantMove {
				t.Fatalf("moved = %v, want %v", moved, tt.wantMove)
			}
			if moved {
				if from.Amount[Goods] != tt.fromAmt-tt.qty || to.Amount[Goods] != tt.toAmt+tt.qty {
					t.Errorf("amounts after move: from=%d to=%d", from.Amount[Goods], to.Amount[Goods])
				}
			} else if from.Amount[Goods] != tt.fromAmt || to.Amount[Goods] != tt.toAmt {
				t.Errorf("failed transfer changed amounts: from=%d to=%d", from.Amount[Goods], to.Amount[Goods])
			}
			if !from.Valid() || !to.Valid() {
				t.Error("ledger invariant broken")
			}
		})
	}
}

func TestSetCapacityClamps(t *testing.T) {
	l := NewLedger(100)
	l.Amount[Crystal] = 80
	l.SetCapacity(50)
	if l.Amount[Crystal] != 50 {
		t.Errorf("amount = %d, want 50", l.Amount[Crystal])
	}
	if !l.Valid() {
		t.Error("ledger invariant broken after shrinking capacity")
	}
}

func TestStarvedAndFull(t *testing.T) {
	l := NewLedger(10)
	if !l.IsStarved(Water) {
		t.Error("empty kind should be starved")
	}
	l.Amount[Water] = 3
	l.PerSecond[Water] = -5
	if !l.IsStarved(Water) {
		t.Error("amount below one second of drain should be starved")
	}
	l.Amount[Water] = 10
	if l.IsStarved(Water) {
		t.Error("stocked kind should not be starved")
	}
	if !l.IsFull(Water) {
		t.Error("kind at capacity should be full")
	}
}

func TestAtLeastPercent(t *testing.T) {
	l := NewLedger(100)
	l.Amount[Fuel] = 50
	if !l.AtLeastPercent(Fuel, 50) {
		t.Error("50/100 should be at least 50%")
	}
	if l.AtLeastPercent(Fuel, 51) {
		t.Error("50/100 should not be at least 51%")
	}
	var zero Ledger
	if zero.AtLeastPercent(Fuel, 0) {
		t.Error("zero capacity never qualifies")
	}
}

func TestKindFromString(t *testing.T) {
	k, ok := KindFromString(" Steel ")
	if !ok || k != Steel {
		t.Errorf("got %v %v, want steel", k, ok)
	}
	if k, ok := KindFromString("any"); !ok || k != KindAny {
		t.Errorf("any: got %v %v", k, ok)
	}
	if _, ok := KindFromString("unobtainium"); ok {
		t.Error("unknown kind should not resolve")
	}
	if len(AllKinds()) != NumKinds {
		t.Errorf("AllKinds length %d", len(AllKinds()))
	}
}
