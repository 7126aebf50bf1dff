package engine

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/civic-industry/internal/catalog"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Raid generator constants.
const (
	raidWormholes        = 3
	raidWormholeRadius   = 4000
	raidBudgetPerStation = 500
)

// tickRaids counts the raid timer down. At the warning mark it opens
// temporary wormholes around a random trade station; at zero it sends one
// strike group per wormhole after the convoys and closes the wormholes.
func (s *Simulation) tickRaids(c *industry.Controller) {
	if c.RaiderFaction == world.NoFaction {
		return
	}
	c.Raid.Timer--
	switch {
	case c.Raid.Timer == industry.RaidWarningSeconds:
		s.openRaidWormholes(c)
	case c.Raid.Timer <= 0:
		s.launchRaid(c)
		for _, w := range c.Raid.Wormholes {
			s.Host.Despawn(w, world.ReasonExpired)
		}
		c.Raid.Wormholes = nil
		c.Raid.Station = world.NoEntity
		c.Raid.Timer = industry.RaidTimerSeconds
	}
}

func (s *Simulation) openRaidWormholes(c *industry.Controller) {
	if len(c.TradeStations) == 0 {
		return
	}
	st := c.TradeStations[c.RNG.Pick(len(c.TradeStations))]
	stEnt, ok := s.Host.Entity(st.ID)
	if !ok {
		return
	}
	entry, ok := s.Catalog.Resolve(catalog.RaidWormhole)
	if !ok {
		s.rep.report("catalog missing raid wormhole type")
		return
	}
	c.Raid.Station = st.ID
	for _, pos := range world.PointsAround(stEnt.Pos, raidWormholeRadius, raidWormholes, c.RNG.IntN(12)) {
		id := s.Host.Spawn(world.SpawnSpec{
			Type:      entry.Type,
			Kind:      world.KindWormhole,
			Owner:     c.RaiderFaction,
			Planet:    stEnt.Planet,
			Pos:       pos,
			Resource:  world.NoResource,
			Temporary: true,
		})
		c.Raid.Wormholes = append(c.Raid.Wormholes, id)
	}
	slog.Info("raid warning", "faction", c.Faction, "planet", stEnt.Planet, "seconds", industry.RaidWarningSeconds)
}

// launchRaid spends the raid budget. Strike groups get their chase order
// from the host straight away so the intent queue stays free for planning.
func (s *Simulation) launchRaid(c *industry.Controller) {
	if len(c.Raid.Wormholes) == 0 {
		return
	}
	budget := len(c.TradeStations) * raidBudgetPerStation
	if f, ok := s.Host.Faction(c.RaiderFaction); ok {
		budget += f.AttackBudget
	}
	share := budget / len(c.Raid.Wormholes)
	entry, ok := s.Catalog.Resolve(catalog.StrikeGroup)
	if !ok || share <= 0 {
		return
	}
	targeted := s.targetedShips(c)
	launched := 0
	for _, w := range c.Raid.Wormholes {
		wh, ok := s.Host.Entity(w)
		if !ok {
			continue
		}
		target, ok := s.nearestUntargetedShip(c, wh, targeted)
		if !ok {
			break
		}
		targeted[target] = true
		id := s.Host.Spawn(world.SpawnSpec{
			Type:     entry.Type,
			Kind:     world.KindShip,
			Owner:    c.RaiderFaction,
			Planet:   wh.Planet,
			Pos:      wh.Pos,
			Strength: share,
			Mobile:   true,
			Speed:    entry.Speed,
			Resource: world.NoResource,
		})
		c.Raid.StrikeGroups = append(c.Raid.StrikeGroups, industry.StrikeGroup{ID: id, Target: target})
		s.Host.SetOrder(id, world.Order{Target: target})
		launched++
	}
	slog.Info("raid launched", "faction", c.Faction, "strike_groups", launched, "budget", humanize.Comma(int64(budget)))
}

func (s *Simulation) targetedShips(c *industry.Controller) map[world.EntityID]bool {
	out := map[world.EntityID]bool{}
	for _, g := range c.Raid.StrikeGroups {
		if _, ok := c.Ship(g.Target); ok {
			out[g.Target] = true
		}
	}
	return out
}

// nearestUntargetedShip picks by hops, then distance on the same planet,
// then ship order.
func (s *Simulation) nearestUntargetedShip(c *industry.Controller, from *world.Entity, targeted map[world.EntityID]bool) (world.EntityID, bool) {
	best := world.NoEntity
	bestHops, bestDist := world.Unreachable, 0
	for _, ship := range c.Ships {
		if targeted[ship.ID] {
			continue
		}
		e, ok := s.Host.Entity(ship.ID)
		if !ok {
			continue
		}
		hops := s.Host.Hops(from.Planet, e.Planet)
		if hops == world.Unreachable {
			continue
		}
		dist := 0
		if hops == 0 {
			dist = from.Pos.DistanceTo(e.Pos)
		}
		if best == world.NoEntity || hops < bestHops || (hops == bestHops && dist < bestDist) {
			best, bestHops, bestDist = ship.ID, hops, dist
		}
	}
	return best, best != world.NoEntity
}

// planStrikeGroups retargets strike groups whose cargo ship is gone.
func (s *Simulation) planStrikeGroups(c *industry.Controller) []Intent {
	var out []Intent
	targeted := s.targetedShips(c)
	for _, g := range c.Raid.StrikeGroups {
		if _, ok := c.Ship(g.Target); ok {
			continue
		}
		e, ok := s.Host.Entity(g.ID)
		if !ok {
			continue
		}
		target, ok := s.nearestUntargetedShip(c, e, targeted)
		if !ok {
			continue
		}
		targeted[target] = true
		out = append(out, Intent{Kind: IntentAttack, Unit: g.ID, Target: target})
	}
	return out
}
