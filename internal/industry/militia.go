package industry

import (
	"fmt"

	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/world"
)

// LeaderStatus is the militia leader lifecycle state.
type LeaderStatus uint8

const (
	LeaderIdle LeaderStatus = iota
	LeaderPathingForWormhole
	LeaderPathingForMine
	LeaderEnrouteWormhole
	LeaderEnrouteMine
	LeaderPathingForShipyard
	LeaderEnrouteShipyard
	LeaderDefending
	LeaderPatrolling
	numLeaderStatuses
)

var leaderStatusNames = [numLeaderStatuses]string{
	"idle", "pathing_wormhole", "pathing_mine", "enroute_wormhole", "enroute_mine",
	"pathing_shipyard", "enroute_shipyard", "defending", "patrolling",
}

func (s LeaderStatus) String() string {
	if s < numLeaderStatuses {
		return leaderStatusNames[s]
	}
	return "unknown"
}

// AllLeaderStatuses lists statuses in enum order.
func AllLeaderStatuses() []LeaderStatus {
	out := make([]LeaderStatus, numLeaderStatuses)
	for i := range out {
		out[i] = LeaderStatus(i)
	}
	return out
}

var leaderTransitions = map[LeaderStatus][]LeaderStatus{
	LeaderIdle:               {LeaderPathingForWormhole, LeaderPathingForMine, LeaderPathingForShipyard},
	LeaderPathingForWormhole: {LeaderEnrouteWormhole, LeaderIdle},
	LeaderPathingForMine:     {LeaderEnrouteMine, LeaderIdle},
	LeaderPathingForShipyard: {LeaderEnrouteShipyard, LeaderIdle},
	LeaderEnrouteWormhole:    {LeaderDefending, LeaderIdle},
	LeaderEnrouteMine:        {LeaderPatrolling, LeaderIdle},
	LeaderEnrouteShipyard:    {LeaderPatrolling, LeaderIdle},
	LeaderDefending:          {LeaderIdle},
	LeaderPatrolling:         {LeaderIdle},
}

// Deployed reports whether the leader has transformed into a militia post.
func (s LeaderStatus) Deployed() bool {
	return s == LeaderDefending || s == LeaderPatrolling
}

// Pathing reports whether the leader is still heading for its planet's
// trade station.
func (s LeaderStatus) Pathing() bool {
	return s == LeaderPathingForWormhole || s == LeaderPathingForMine || s == LeaderPathingForShipyard
}

// Enroute reports whether the leader is past the trade station and heading
// for its objective.
func (s LeaderStatus) Enroute() bool {
	return s == LeaderEnrouteWormhole || s == LeaderEnrouteMine || s == LeaderEnrouteShipyard
}

// MilitiaLeader anchors a militia fleet. Before deployment ID is the mobile
// construction ship; after transformation ID and Centerpiece are the post.
type MilitiaLeader struct {
	ID          world.EntityID `json:"id"`
	Status      LeaderStatus   `json:"status"`
	Centerpiece world.EntityID `json:"centerpiece"`
	PlanetFocus world.PlanetID `json:"planet_focus"`
	EntityFocus world.EntityID `json:"entity_focus"`

	ShipTypes    [economy.NumKinds]string           `json:"ship_types"`
	Ships        [economy.NumKinds][]world.EntityID `json:"ships"`
	ShipCapacity [economy.NumKinds]int              `json:"ship_capacity"`

	CostMultiplier int  `json:"cost_multiplier"` // percent
	CapMultiplier  int  `json:"cap_multiplier"`  // percent
	BuiltFromHQ    bool `json:"built_from_hq"`
	Shipyard       bool `json:"shipyard"`

	Stockpile economy.Ledger `json:"stockpile"`
	Version   int            `json:"version"`
}

// NewMilitiaLeader creates an idle leader with default multipliers.
func NewMilitiaLeader(id world.EntityID, fromHQ bool) *MilitiaLeader {
	return &MilitiaLeader{
		ID:             id,
		Status:         LeaderIdle,
		Centerpiece:    id,
		CostMultiplier: 100,
		CapMultiplier:  100,
		BuiltFromHQ:    fromHQ,
		Stockpile:      economy.NewLedger(economy.StockpileCapacity),
		Version:        CurrentVersion,
	}
}

// SetStatus moves the leader to a new status if allowed. Dropping to Idle
// releases the claimed objective.
func (m *MilitiaLeader) SetStatus(to LeaderStatus) error {
	if m.Status == to {
		return nil
	}
	allowed := false
	for _, s := range leaderTransitions[m.Status] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("militia leader %d: illegal transition %s -> %s", m.ID, m.Status, to)
	}
	m.Status = to
	if to == LeaderIdle {
		m.Release()
	}
	return nil
}

// Release drops the objective claim and planet focus.
func (m *MilitiaLeader) Release() {
	m.EntityFocus = world.NoEntity
	m.PlanetFocus = world.NoPlanet
}

// Reset forces the leader back to Idle.
func (m *MilitiaLeader) Reset() {
	m.Status = LeaderIdle
	m.Release()
}

// Rebind moves the militia state to a new entity id after transformation.
func (m *MilitiaLeader) Rebind(newID world.EntityID) {
	m.ID = newID
	m.Centerpiece = newID
}

// UnitCount returns the number of tracked units of kind k.
func (m *MilitiaLeader) UnitCount(k economy.Kind) int {
	return len(m.Ships[k])
}

// AllUnits returns every tracked unit id, kinds in index order.
func (m *MilitiaLeader) AllUnits() []world.EntityID {
	var out []world.EntityID
	for k := range m.Ships {
		out = append(out, m.Ships[k]...)
	}
	return out
}

// RemoveUnit forgets a unit id wherever it is tracked.
func (m *MilitiaLeader) RemoveUnit(id world.EntityID) bool {
	for k := range m.Ships {
		for i, u := range m.Ships[k] {
			if u == id {
				m.Ships[k] = append(m.Ships[k][:i], m.Ships[k][i+1:]...)
				return true
			}
		}
	}
	return false
}

// Upgrade fills fields that older saves did not carry.
func (m *MilitiaLeader) Upgrade() {
	if m.Version < 2 {
		if m.CostMultiplier == 0 {
			m.CostMultiplier = 100
		}
		if m.CapMultiplier == 0 {
			m.CapMultiplier = 100
		}
		if m.Centerpiece == world.NoEntity {
			m.Centerpiece = m.ID
		}
		for k := range m.Stockpile.Capacity {
			if m.Stockpile.Capacity[k] == 0 {
				m.Stockpile.Capacity[k] = economy.StockpileCapacity
			}
		}
		m.Stockpile.Clamp()
	}
	m.Version = CurrentVersion
}
