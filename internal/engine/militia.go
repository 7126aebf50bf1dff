package engine

import (
	"github.com/talgya/civic-industry/internal/catalog"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Militia deployment constants, in distance units.
const (
	wormholeMinDistance = 6000  // from the command point
	leaderDockRange     = 2000  // Pathing -> Enroute near the trade station
	standOffRange       = 10000 // outpost settle band is (30%, 100%] of this
	standOffMinPct      = 30
	mineSettleRadius    = 750
	shipyardDockRange   = 2000
)

// objective is what an idle leader can be sent to.
type objective struct {
	status industry.LeaderStatus // the Pathing* state to enter
	focus  world.EntityID        // wormhole or extractor, NoEntity for shipyards
}

// tickMilitia assigns idle leaders and advances deployments.
func (s *Simulation) tickMilitia(c *industry.Controller) {
	s.assignLeaders(c)
	for _, m := range c.Leaders {
		s.deploy(c, m)
	}
}

// assignLeaders looks for an objective on every controlled planet with a
// trade station and a threat report, and sends the nearest idle leader.
// Objectives with no idle leader available add build pressure instead.
func (s *Simulation) assignLeaders(c *industry.Controller) {
	h := s.Host
	for _, st := range c.TradeStations {
		planet, ok := h.Planet(st.Planet)
		if !ok || !friendly(h, c, planet.Owner) || !c.HasReport(st.Planet) {
			continue
		}
		obj, found := s.findObjective(c, planet)
		if !found {
			continue
		}
		leader := s.nearestIdleLeader(c, st.Planet)
		if leader == nil {
			c.MilitiaBuildCounter++
			continue
		}
		if err := leader.SetStatus(obj.status); err != nil {
			s.rep.report("leader assignment rejected", "leader", leader.ID, "error", err)
			continue
		}
		leader.PlanetFocus = st.Planet
		leader.EntityFocus = obj.focus
	}
}

// findObjective prefers a defensible wormhole toward hostile space, then any
// defensible wormhole, then an extractor, then a shipyard upgrade.
func (s *Simulation) findObjective(c *industry.Controller, planet *world.Planet) (objective, bool) {
	h := s.Host
	var fallback world.EntityID
	for _, n := range planet.Links {
		wh, ok := h.WormholeBetween(planet.ID, n)
		if !ok || c.FocusClaimed(wh, world.NoEntity) {
			continue
		}
		e, _ := h.Entity(wh)
		if e.Pos.DistanceTo(planet.CommandPoint) < wormholeMinDistance {
			continue
		}
		if far, ok := h.Planet(n); ok && hostile(h, c, far.Owner) {
			return objective{status: industry.LeaderPathingForWormhole, focus: wh}, true
		}
		if fallback == world.NoEntity {
			fallback = wh
		}
	}
	if fallback != world.NoEntity {
		return objective{status: industry.LeaderPathingForWormhole, focus: fallback}, true
	}

	for _, e := range h.EntitiesOn(planet.ID) {
		if e.Kind == world.KindExtractor && !c.FocusClaimed(e.ID, world.NoEntity) {
			return objective{status: industry.LeaderPathingForMine, focus: e.ID}, true
		}
	}

	if !s.shipyardInProgress(c, planet.ID) {
		return objective{status: industry.LeaderPathingForShipyard}, true
	}
	return objective{}, false
}

// shipyardInProgress reports whether any leader is building or has built an
// advanced shipyard on p. Leaders whose entity cannot be resolved are
// skipped, not counted.
func (s *Simulation) shipyardInProgress(c *industry.Controller, p world.PlanetID) bool {
	for _, m := range c.Leaders {
		if _, ok := s.Host.Entity(m.ID); !ok {
			s.rep.report("unresolvable leader during shipyard scan", "leader", m.ID)
			continue
		}
		if m.PlanetFocus != p {
			continue
		}
		if m.Shipyard || m.Status == industry.LeaderPathingForShipyard || m.Status == industry.LeaderEnrouteShipyard {
			return true
		}
	}
	return false
}

// nearestIdleLeader returns the idle leader with the fewest hops to p.
// Ties keep the first found.
func (s *Simulation) nearestIdleLeader(c *industry.Controller, p world.PlanetID) *industry.MilitiaLeader {
	var best *industry.MilitiaLeader
	bestHops := world.Unreachable
	for _, m := range c.LeadersWithStatus(industry.LeaderIdle) {
		e, ok := s.Host.Entity(m.ID)
		if !ok {
			continue
		}
		if d := s.Host.Hops(e.Planet, p); d < bestHops {
			best, bestHops = m, d
		}
	}
	return best
}

// deploy advances one leader's deployment state machine.
func (s *Simulation) deploy(c *industry.Controller, m *industry.MilitiaLeader) {
	h := s.Host
	if m.Status == industry.LeaderIdle || m.Status.Deployed() {
		return
	}
	self, ok := h.Entity(m.ID)
	if !ok {
		return // reconcile will forget it
	}
	st, ok := c.TradeStationOn(m.PlanetFocus)
	if !ok {
		m.Reset()
		return
	}
	stEnt, ok := h.Entity(st.ID)
	if !ok {
		m.Reset()
		return
	}

	if m.Status.Pathing() {
		if self.Planet == stEnt.Planet && self.Pos.DistanceTo(stEnt.Pos) <= leaderDockRange {
			next := industry.LeaderEnrouteWormhole
			switch m.Status {
			case industry.LeaderPathingForMine:
				next = industry.LeaderEnrouteMine
			case industry.LeaderPathingForShipyard:
				next = industry.LeaderEnrouteShipyard
			}
			_ = m.SetStatus(next)
		}
		return
	}

	switch m.Status {
	case industry.LeaderEnrouteWormhole:
		wh, ok := h.Entity(m.EntityFocus)
		if !ok {
			m.Reset()
			return
		}
		if self.Planet != wh.Planet {
			return
		}
		d := self.Pos.DistanceTo(wh.Pos)
		if d > standOffRange*standOffMinPct/100 && d <= standOffRange {
			s.transformLeader(c, m, catalog.Outpost, industry.LeaderDefending)
		}
	case industry.LeaderEnrouteMine:
		mine, ok := h.Entity(m.EntityFocus)
		if !ok {
			m.Reset()
			return
		}
		if self.Planet == mine.Planet && self.Pos.DistanceTo(mine.Pos) <= mineSettleRadius {
			s.transformLeader(c, m, catalog.PatrolPost, industry.LeaderPatrolling)
		}
	case industry.LeaderEnrouteShipyard:
		if self.Planet == stEnt.Planet && self.Pos.DistanceTo(stEnt.Pos) <= shipyardDockRange {
			m.Shipyard = true
			s.transformLeader(c, m, catalog.Shipyard, industry.LeaderPatrolling)
		}
	}
}

// transformLeader replaces the leader entity with its deployed form and
// rebinds the militia state to the new id.
func (s *Simulation) transformLeader(c *industry.Controller, m *industry.MilitiaLeader, tag string, status industry.LeaderStatus) {
	entry, ok := s.Catalog.Resolve(tag)
	if !ok {
		s.rep.report("catalog missing militia post type", "tag", tag)
		return
	}
	if err := m.SetStatus(status); err != nil {
		s.rep.report("leader transform rejected", "leader", m.ID, "error", err)
		return
	}
	newID, ok := s.Host.Transform(m.ID, entry.Type, world.KindStructure, entry.Strength, entry.Mobile)
	if !ok {
		m.Reset()
		return
	}
	m.Rebind(newID)
}

// leaderGoal is where a deploying leader should be heading.
func (s *Simulation) leaderGoal(c *industry.Controller, m *industry.MilitiaLeader) (world.PlanetID, world.Point, bool) {
	h := s.Host
	st, ok := c.TradeStationOn(m.PlanetFocus)
	if !ok {
		return world.NoPlanet, world.Point{}, false
	}
	stEnt, ok := h.Entity(st.ID)
	if !ok {
		return world.NoPlanet, world.Point{}, false
	}
	switch m.Status {
	case industry.LeaderPathingForWormhole, industry.LeaderPathingForMine, industry.LeaderPathingForShipyard,
		industry.LeaderEnrouteShipyard:
		return stEnt.Planet, stEnt.Pos, true
	case industry.LeaderEnrouteWormhole:
		wh, ok := h.Entity(m.EntityFocus)
		if !ok {
			return world.NoPlanet, world.Point{}, false
		}
		// Middle of the settle band, on the station side of the wormhole.
		return wh.Planet, wh.Pos.Toward(stEnt.Pos, standOffRange*(100+standOffMinPct)/200), true
	case industry.LeaderEnrouteMine:
		mine, ok := h.Entity(m.EntityFocus)
		if !ok {
			return world.NoPlanet, world.Point{}, false
		}
		return mine.Planet, mine.Pos, true
	}
	return world.NoPlanet, world.Point{}, false
}
