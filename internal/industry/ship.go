package industry

import (
	"fmt"

	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/world"
)

// ShipStatus is the cargo ship lifecycle state.
type ShipStatus uint8

const (
	ShipIdle ShipStatus = iota
	ShipLoading
	ShipUnloading
	ShipBuilding
	ShipPathing
	ShipEnroute
	numShipStatuses
)

var shipStatusNames = [numShipStatuses]string{"idle", "loading", "unloading", "building", "pathing", "enroute"}

func (s ShipStatus) String() string {
	if s < numShipStatuses {
		return shipStatusNames[s]
	}
	return "unknown"
}

// AllShipStatuses lists statuses in bucket order.
func AllShipStatuses() []ShipStatus {
	out := make([]ShipStatus, numShipStatuses)
	for i := range out {
		out[i] = ShipStatus(i)
	}
	return out
}

// shipTransitions is the complete transition table. Anything not listed is
// rejected by SetStatus.
var shipTransitions = map[ShipStatus][]ShipStatus{
	ShipIdle:      {ShipPathing},
	ShipPathing:   {ShipLoading, ShipEnroute, ShipIdle},
	ShipLoading:   {ShipEnroute, ShipIdle},
	ShipEnroute:   {ShipUnloading, ShipBuilding, ShipIdle},
	ShipUnloading: {ShipIdle},
	ShipBuilding:  {ShipIdle},
}

// LoadTimerTicks is the default loading window.
const LoadTimerTicks = 120

// CargoShip is an unarmed transport.
type CargoShip struct {
	ID          world.EntityID `json:"id"`
	Status      ShipStatus     `json:"status"`
	Origin      world.EntityID `json:"origin"`
	Destination world.EntityID `json:"destination"`
	LoadTimer   int            `json:"load_timer"`
	Hold        economy.Ledger `json:"hold"`
	Version     int            `json:"version"`
}

// NewCargoShip creates an idle ship with an empty hold.
func NewCargoShip(id world.EntityID) *CargoShip {
	return &CargoShip{
		ID:        id,
		Status:    ShipIdle,
		LoadTimer: LoadTimerTicks,
		Hold:      economy.NewLedger(economy.ShipCapacity),
		Version:   CurrentVersion,
	}
}

// CanTransition reports whether from -> to is in the table.
func CanTransition(from, to ShipStatus) bool {
	for _, s := range shipTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SetStatus moves the ship to a new status if the transition is allowed.
// Returning to Idle always clears the route.
func (s *CargoShip) SetStatus(to ShipStatus) error {
	if s.Status == to {
		return nil
	}
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("cargo ship %d: illegal transition %s -> %s", s.ID, s.Status, to)
	}
	s.Status = to
	if to == ShipIdle {
		s.Origin = world.NoEntity
		s.Destination = world.NoEntity
	}
	if to == ShipLoading {
		s.LoadTimer = LoadTimerTicks
	}
	return nil
}

// Reset forces the ship back to Idle. Every state may fall back to Idle
// when a referenced station disappears.
func (s *CargoShip) Reset() {
	s.Status = ShipIdle
	s.Origin = world.NoEntity
	s.Destination = world.NoEntity
}

// Assign starts a route. origin may be NoEntity for a direct send.
func (s *CargoShip) Assign(origin, destination world.EntityID) error {
	if err := s.SetStatus(ShipPathing); err != nil {
		return err
	}
	s.Origin = origin
	s.Destination = destination
	return nil
}

// Upgrade fills fields that older saves did not carry.
func (s *CargoShip) Upgrade() {
	if s.Version < 2 {
		if s.LoadTimer == 0 {
			s.LoadTimer = LoadTimerTicks
		}
		for k := range s.Hold.Capacity {
			if s.Hold.Capacity[k] == 0 {
				s.Hold.Capacity[k] = economy.ShipCapacity
			}
		}
		s.Hold.Clamp()
	}
	s.Version = CurrentVersion
}
