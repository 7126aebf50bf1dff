package economy

// Default per-kind capacities.
const (
	ShipCapacity          = 100
	StationCapacityFactor = 25 // trade and home stations hold 25x a ship
	StockpileCapacity     = 500
)

// Ledger tracks amount, capacity and per-second rate for every resource kind.
// Amount stays within [0, Capacity] once any mutator returns.
type Ledger struct {
	Amount    [NumKinds]int `json:"amount"`
	Capacity  [NumKinds]int `json:"capacity"`
	PerSecond [NumKinds]int `json:"per_second"` // positive generates, negative drains
}

// NewLedger returns a ledger with the same capacity for every kind.
func NewLedger(capacity int) Ledger {
	var l Ledger
	l.SetCapacity(capacity)
	return l
}

// SetCapacity sets every kind's capacity and clamps amounts to fit.
func (l *Ledger) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	for k := range l.Capacity {
		l.Capacity[k] = capacity
	}
	l.Clamp()
}

// Clamp restores 0 <= Amount <= Capacity for every kind.
func (l *Ledger) Clamp() {
	for k := range l.Amount {
		if l.Capacity[k] < 0 {
			l.Capacity[k] = 0
		}
		if l.Amount[k] < 0 {
			l.Amount[k] = 0
		}
		if l.Amount[k] > l.Capacity[k] {
			l.Amount[k] = l.Capacity[k]
		}
	}
}

// Generate applies one second of production (or drain) of a kind. The rate
// may already include a level bonus from the owning entity.
func (l *Ledger) Generate(k Kind, rate int) {
	if !k.Valid() {
		return
	}
	amt := l.Amount[k] + rate
	if amt < 0 {
		amt = 0
	}
	if amt > l.Capacity[k] {
		amt = l.Capacity[k]
	}
	l.Amount[k] = amt
}

// GenerateAll applies PerSecond for every kind, adding levelBonus to kinds
// that are produced (positive rate).
func (l *Ledger) GenerateAll(levelBonus int) {
	for i := range l.PerSecond {
		rate := l.PerSecond[i]
		if rate == 0 {
			continue
		}
		if rate > 0 {
			rate += levelBonus
		}
		l.Generate(Kind(i), rate)
	}
}

// TransferStep moves qty of kind k from one ledger to another. Nothing moves
// unless the source holds qty and the destination has room for all of it.
func TransferStep(from, to *Ledger, k Kind, qty int) bool {
	if from == nil || to == nil || !k.Valid() || qty <= 0 {
		return false
	}
	if from.Amount[k] < qty {
		return false
	}
	if to.Amount[k]+qty > to.Capacity[k] {
		return false
	}
	from.Amount[k] -= qty
	to.Amount[k] += qty
	return true
}

// IsFull reports whether kind k is at capacity.
func (l *Ledger) IsFull(k Kind) bool {
	return k.Valid() && l.Amount[k] >= l.Capacity[k]
}

// IsStarved reports whether kind k is empty or cannot cover one second of drain.
func (l *Ledger) IsStarved(k Kind) bool {
	if !k.Valid() {
		return false
	}
	if l.Amount[k] <= 0 {
		return true
	}
	return l.PerSecond[k] < 0 && l.Amount[k] < -l.PerSecond[k]
}

// Produces reports whether kind k has a positive generation rate.
func (l *Ledger) Produces(k Kind) bool {
	return k.Valid() && l.PerSecond[k] > 0
}

// FillPermille returns Amount/Capacity in thousandths (0 when capacity is 0).
func (l *Ledger) FillPermille(k Kind) int {
	if !k.Valid() || l.Capacity[k] <= 0 {
		return 0
	}
	return l.Amount[k] * 1000 / l.Capacity[k]
}

// AtLeastPercent reports whether Amount >= pct% of Capacity for kind k.
// Zero-capacity kinds never qualify.
func (l *Ledger) AtLeastPercent(k Kind, pct int) bool {
	if !k.Valid() || l.Capacity[k] <= 0 {
		return false
	}
	return l.Amount[k]*100 >= l.Capacity[k]*pct
}

// Total returns the sum of all amounts.
func (l *Ledger) Total() int {
	sum := 0
	for _, a := range l.Amount {
		sum += a
	}
	return sum
}

// Empty reports whether nothing is held.
func (l *Ledger) Empty() bool {
	return l.Total() == 0
}

// AllFull reports whether every kind with non-zero capacity is full.
func (l *Ledger) AllFull() bool {
	for k := range l.Amount {
		if l.Capacity[k] > 0 && l.Amount[k] < l.Capacity[k] {
			return false
		}
	}
	return true
}

// Valid reports whether the ledger invariant currently holds.
func (l *Ledger) Valid() bool {
	for k := range l.Amount {
		if l.Capacity[k] < 0 || l.Amount[k] < 0 || l.Amount[k] > l.Capacity[k] {
			return false
		}
	}
	return true
}
