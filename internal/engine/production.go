// Militia unit production: deployed posts spend their stockpile on units.
package engine

import (
	"github.com/talgya/civic-industry/internal/catalog"
	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Production constants.
const (
	strengthCapBase     = 4000
	strengthPerBarracks = 2000
	shipyardUnitCost    = 250
	hqCapacityFactor    = 3
	hqCostPct           = 33
)

// tickProduction builds, stacks or trims units for every deployed post.
func (s *Simulation) tickProduction(c *industry.Controller) {
	for _, m := range c.Leaders {
		if !m.Status.Deployed() {
			continue
		}
		post, ok := s.Host.Entity(m.ID)
		if !ok {
			continue
		}
		barracks := s.barracksNear(c, post.Planet)
		for _, k := range economy.AllKinds() {
			s.produceKind(c, m, post, k, barracks)
		}
	}
}

// unitTag picks the capability tag a post builds for kind k.
func unitTag(m *industry.MilitiaLeader, k economy.Kind) string {
	switch {
	case m.Shipyard:
		return catalog.ShipyardTag(k)
	case m.Status == industry.LeaderDefending:
		return catalog.TurretTag(k)
	default:
		return catalog.PatrolTag(k)
	}
}

func (s *Simulation) produceKind(c *industry.Controller, m *industry.MilitiaLeader, post *world.Entity, k economy.Kind, barracks int) {
	if m.ShipTypes[k] == "" {
		if m.Stockpile.Amount[k] <= 0 {
			return
		}
		entry, ok := s.Catalog.Resolve(unitTag(m, k))
		if !ok {
			s.rep.report("no unit type for tag", "tag", unitTag(m, k))
			return
		}
		m.ShipTypes[k] = entry.Type
	}
	entry, ok := s.Catalog.Type(m.ShipTypes[k])
	if !ok {
		s.rep.report("unknown militia unit type", "type", m.ShipTypes[k])
		return
	}

	m.ShipCapacity[k] = unitCapacity(m, entry.Strength, barracks)
	count := s.memberCount(m, k)

	if count > m.ShipCapacity[k] {
		s.disbandOne(m, k)
		return
	}
	if count >= m.ShipCapacity[k] {
		return
	}

	cost := unitCost(m, entry.Cost, count, m.ShipCapacity[k], c.CostIntensity)
	if m.Stockpile.Amount[k] < cost {
		return
	}
	m.Stockpile.Amount[k] -= cost

	if entry.StackCap > 0 && s.unitsOfType(c, entry.Type) >= entry.StackCap && len(m.Ships[k]) > 0 {
		if s.Host.AddStack(m.Ships[k][len(m.Ships[k])-1]) {
			return
		}
	}
	id := s.Host.Spawn(world.SpawnSpec{
		Type:     entry.Type,
		Kind:     world.KindShip,
		Owner:    c.Faction,
		Planet:   post.Planet,
		Pos:      post.Pos,
		Strength: entry.Strength,
		Mobile:   entry.Mobile,
		Speed:    entry.Speed,
		Resource: world.NoResource,
	})
	m.Ships[k] = append(m.Ships[k], id)
}

// memberCount counts units of kind k including stacked members. A tracked
// id the host no longer knows counts once until reconcile drops it.
func (s *Simulation) memberCount(m *industry.MilitiaLeader, k economy.Kind) int {
	n := 0
	for _, id := range m.Ships[k] {
		if e, ok := s.Host.Entity(id); ok && e.Stacks > 1 {
			n += e.Stacks
			continue
		}
		n++
	}
	return n
}

// disbandOne removes a single member of kind k: a stacked member first,
// newest stack first, otherwise the oldest unit.
func (s *Simulation) disbandOne(m *industry.MilitiaLeader, k economy.Kind) {
	for i := len(m.Ships[k]) - 1; i >= 0; i-- {
		if s.Host.RemoveStack(m.Ships[k][i]) {
			return
		}
	}
	oldest := m.Ships[k][0]
	m.Ships[k] = m.Ships[k][1:]
	s.Host.Despawn(oldest, world.ReasonDisbanded)
}

// unitCapacity spreads the strength cap, raised by nearby barracks, over
// units of the given strength.
func unitCapacity(m *industry.MilitiaLeader, unitStrength, barracks int) int {
	if m.Shipyard {
		return 1
	}
	if unitStrength <= 0 {
		unitStrength = 1
	}
	capStrength := (strengthCapBase + strengthPerBarracks*barracks) * m.CapMultiplier / 100
	n := capStrength / unitStrength
	if m.Status == industry.LeaderDefending {
		n /= 2
	}
	if m.BuiltFromHQ && m.Status == industry.LeaderPatrolling {
		n *= hqCapacityFactor
	}
	return max(1, n)
}

// unitCost grows with how full the kind already is relative to capacity.
func unitCost(m *industry.MilitiaLeader, base, count, capacity, intensity int) int {
	if m.Shipyard {
		return shipyardUnitCost
	}
	if capacity <= 0 {
		capacity = 1
	}
	cost := base * (100 + 100*count/capacity) / 100
	cost = cost * intensity / 100
	cost = cost * m.CostMultiplier / 100
	if m.BuiltFromHQ && m.Status == industry.LeaderPatrolling {
		cost = cost * hqCostPct / 100
	}
	return max(1, cost)
}

// barracksNear counts friendly barracks within one hop of p.
func (s *Simulation) barracksNear(c *industry.Controller, p world.PlanetID) int {
	planets := append([]world.PlanetID{p}, s.Host.Neighbors(p)...)
	n := 0
	for _, q := range planets {
		for _, e := range s.Host.EntitiesOn(q) {
			if e.Kind == world.KindBarracks && friendly(s.Host, c, e.Owner) {
				n++
			}
		}
	}
	return n
}

// unitsOfType counts live tracked units of a type across the controller.
func (s *Simulation) unitsOfType(c *industry.Controller, typ string) int {
	n := 0
	for _, m := range c.Leaders {
		for k := range m.ShipTypes {
			if m.ShipTypes[k] == typ {
				n += len(m.Ships[k])
			}
		}
	}
	return n
}
