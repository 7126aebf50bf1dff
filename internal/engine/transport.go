package engine

import (
	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Transport constants.
const (
	dockRange        = 2000
	loadFullPct      = 50 // loading ends once any kind reaches this share of the hold
	unloadTopUpPct   = 90 // stations at or above this fill are not topped up
	surplusPct       = 50 // a non-produced kind above this is surplus a ship may take
	unitStepsPerKind = 1
)

// tickTransport advances every cargo ship one step.
func (s *Simulation) tickTransport(c *industry.Controller) {
	for _, ship := range c.Ships {
		s.stepShip(c, ship)
	}
}

func (s *Simulation) stepShip(c *industry.Controller, ship *industry.CargoShip) {
	self, ok := s.Host.Entity(ship.ID)
	if !ok {
		return
	}
	switch ship.Status {
	case industry.ShipPathing:
		if ship.Origin == world.NoEntity {
			if _, ok := s.dockOf(c, ship.Destination); !ok {
				ship.Reset()
				return
			}
			_ = ship.SetStatus(industry.ShipEnroute)
			return
		}
		origin, ok := s.dockOf(c, ship.Origin)
		if !ok || origin.station == nil {
			ship.Reset()
			return
		}
		if self.Planet == origin.planet && self.Pos.DistanceTo(origin.pos) <= dockRange {
			_ = ship.SetStatus(industry.ShipLoading)
		}

	case industry.ShipLoading:
		origin, ok := s.dockOf(c, ship.Origin)
		if !ok || origin.station == nil {
			ship.Reset()
			return
		}
		dest, destOK := s.dockOf(c, ship.Destination)
		ship.LoadTimer--
		for _, k := range economy.AllKinds() {
			if !wantsLoad(origin.station, dest, destOK, k) {
				continue
			}
			economy.TransferStep(&origin.station.Ledger, &ship.Hold, k, unitStepsPerKind)
		}
		if ship.LoadTimer > 0 && !holdHalfFull(ship) {
			return
		}
		if ship.Hold.Empty() || !destOK {
			ship.Reset()
			return
		}
		_ = ship.SetStatus(industry.ShipEnroute)

	case industry.ShipEnroute:
		dest, ok := s.dockOf(c, ship.Destination)
		if !ok {
			ship.Reset()
			return
		}
		if self.Planet != dest.planet || self.Pos.DistanceTo(dest.pos) > dockRange {
			return
		}
		if dest.post != nil {
			_ = ship.SetStatus(industry.ShipBuilding)
		} else {
			_ = ship.SetStatus(industry.ShipUnloading)
		}

	case industry.ShipUnloading:
		dest, ok := s.dockOf(c, ship.Destination)
		if !ok || dest.station == nil {
			ship.Reset()
			return
		}
		moved := false
		for _, k := range economy.AllKinds() {
			if ship.Hold.Amount[k] == 0 || dest.station.Ledger.AtLeastPercent(k, unloadTopUpPct) {
				continue
			}
			if economy.TransferStep(&ship.Hold, &dest.station.Ledger, k, unitStepsPerKind) {
				moved = true
			}
		}
		// Whatever the station cannot use stays in the hold for a later
		// direct send.
		if !moved || ship.Hold.Empty() {
			_ = ship.SetStatus(industry.ShipIdle)
		}

	case industry.ShipBuilding:
		dest, ok := s.dockOf(c, ship.Destination)
		if !ok || dest.post == nil {
			ship.Reset()
			return
		}
		moved := false
		for _, k := range economy.AllKinds() {
			if economy.TransferStep(&ship.Hold, &dest.post.Stockpile, k, unitStepsPerKind) {
				moved = true
			}
		}
		if !moved || ship.Hold.Empty() {
			_ = ship.SetStatus(industry.ShipIdle)
		}
	}
}

// wantsLoad decides whether a loading ship takes a unit of k. Producing
// stations keep feeding the ship; other kinds go only when the station has
// surplus. Kinds the destination cannot accept are left behind.
func wantsLoad(origin *industry.Station, dest dock, destOK bool, k economy.Kind) bool {
	if origin.Ledger.Amount[k] == 0 {
		return false
	}
	if !origin.Ledger.Produces(k) && !origin.Ledger.AtLeastPercent(k, surplusPct) {
		return false
	}
	if !destOK {
		return true
	}
	if dest.station != nil {
		return !dest.station.Ledger.AtLeastPercent(k, unloadTopUpPct)
	}
	return !dest.post.Stockpile.IsFull(k)
}

func holdHalfFull(ship *industry.CargoShip) bool {
	for _, k := range economy.AllKinds() {
		if ship.Hold.AtLeastPercent(k, loadFullPct) {
			return true
		}
	}
	return false
}
