package engine

import (
	"slices"

	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// IntentKind names a deferred command.
type IntentKind uint8

const (
	IntentAssignCargo IntentKind = iota
	IntentMove
	IntentAttack
	IntentBuildPressure
	IntentFlushReinforcements
)

func (k IntentKind) String() string {
	switch k {
	case IntentAssignCargo:
		return "assign_cargo"
	case IntentMove:
		return "move"
	case IntentAttack:
		return "attack"
	case IntentBuildPressure:
		return "build_pressure"
	case IntentFlushReinforcements:
		return "flush_reinforcements"
	}
	return "unknown"
}

// Intent is a command produced by planning and applied
// by the next authoritative tick. Fields are used according to Kind.
type Intent struct {
	Kind       IntentKind
	Controller int
	Seq        uint64

	// AssignCargo
	Ship        world.EntityID
	Origin      world.EntityID
	Destination world.EntityID

	// Move and Attack
	Unit   world.EntityID
	Path   []world.PlanetID
	Point  world.Point
	Target world.EntityID

	// BuildPressure
	Pressure int

	// FlushReinforcements
	Planet  world.PlanetID
	Faction world.FactionID
}

// post appends an intent for the controller at index ci.
func (s *Simulation) post(ci int, in Intent) {
	s.seq++
	in.Controller = ci
	in.Seq = s.seq
	s.queue = append(s.queue, in)
}

// applyIntents drains the queue in controller order, then post order.
// Every intent is validated against current state; stale ones are dropped.
func (s *Simulation) applyIntents() {
	if len(s.queue) == 0 {
		return
	}
	q := s.queue
	s.queue = nil
	slices.SortStableFunc(q, func(a, b Intent) int {
		if a.Controller != b.Controller {
			return a.Controller - b.Controller
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
	for _, in := range q {
		if in.Controller < 0 || in.Controller >= len(s.Controllers) {
			continue
		}
		s.apply(s.Controllers[in.Controller], in)
	}
}

func (s *Simulation) apply(c *industry.Controller, in Intent) {
	h := s.Host
	switch in.Kind {
	case IntentAssignCargo:
		ship, ok := c.Ship(in.Ship)
		if !ok || ship.Status != industry.ShipIdle {
			return
		}
		if _, ok := s.dockOf(c, in.Destination); !ok {
			return
		}
		first := in.Destination
		if in.Origin != world.NoEntity {
			if _, ok := c.Station(in.Origin); !ok {
				return
			}
			first = in.Origin
		}
		if err := ship.Assign(in.Origin, in.Destination); err != nil {
			s.rep.report("cargo assignment rejected", "ship", ship.ID, "error", err)
			return
		}
		if o, ok := s.routeTo(ship.ID, first); ok {
			h.SetOrder(ship.ID, o)
		}

	case IntentMove:
		if _, ok := h.Entity(in.Unit); !ok {
			return
		}
		h.SetOrder(in.Unit, world.Order{Path: in.Path, Point: in.Point, HasPoint: true})

	case IntentAttack:
		if _, ok := h.Entity(in.Unit); !ok {
			return
		}
		if _, ok := h.Entity(in.Target); !ok {
			return
		}
		for i := range c.Raid.StrikeGroups {
			if c.Raid.StrikeGroups[i].ID == in.Unit {
				c.Raid.StrikeGroups[i].Target = in.Target
			}
		}
		h.SetOrder(in.Unit, world.Order{Target: in.Target})

	case IntentBuildPressure:
		if in.Pressure > 0 {
			c.CargoShipBuildCounter += in.Pressure
		}

	case IntentFlushReinforcements:
		if _, ok := h.Planet(in.Planet); ok {
			h.FlushReinforcements(in.Planet, in.Faction)
		}
	}
}

// dock is a ledger holder a cargo ship can visit.
type dock struct {
	id      world.EntityID
	planet  world.PlanetID
	pos     world.Point
	station *industry.Station       // nil for militia posts
	post    *industry.MilitiaLeader // nil for stations
}

// dockOf resolves a trade/home station or deployed militia post to its
// live position.
func (s *Simulation) dockOf(c *industry.Controller, id world.EntityID) (dock, bool) {
	e, ok := s.Host.Entity(id)
	if !ok {
		return dock{}, false
	}
	if st, ok := c.Station(id); ok {
		return dock{id: id, planet: e.Planet, pos: e.Pos, station: st}, true
	}
	if m, ok := c.Leader(id); ok && m.Status.Deployed() {
		return dock{id: id, planet: e.Planet, pos: e.Pos, post: m}, true
	}
	return dock{}, false
}

// routeTo builds an order taking unit to the position of entity target.
func (s *Simulation) routeTo(unit, target world.EntityID) (world.Order, bool) {
	u, ok := s.Host.Entity(unit)
	if !ok {
		return world.Order{}, false
	}
	t, ok := s.Host.Entity(target)
	if !ok {
		return world.Order{}, false
	}
	return world.Order{Path: s.Host.Path(u.Planet, t.Planet), Point: t.Pos, HasPoint: true}, true
}

// moveIntent builds a Move taking unit to point on planet p.
func moveIntent(h Host, unit *world.Entity, p world.PlanetID, point world.Point) Intent {
	return Intent{Kind: IntentMove, Unit: unit.ID, Path: h.Path(unit.Planet, p), Point: point}
}
