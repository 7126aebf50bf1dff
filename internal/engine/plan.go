package engine

import (
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// planResult is one controller's planning output, merged after all
// planners finish.
type planResult struct {
	intents []Intent
	imports []*industry.TradeRequest
	exports []*industry.TradeRequest
	matches int
	failed  int
}

// planController runs every planning system for one controller. It only
// reads shared state; all effects are returned as intents.
func (s *Simulation) planController(ci int, c *industry.Controller) planResult {
	var r planResult

	imports, exports := s.collectRequests(c)
	idle := c.ShipsWithStatus(industry.ShipIdle)
	m := s.matchTrades(c, &imports, &exports, &idle)
	r.intents = append(r.intents, m.intents...)
	r.matches, r.failed = m.matches, m.failed
	r.imports, r.exports = imports, exports
	if m.failed > 0 {
		r.intents = append(r.intents, Intent{Kind: IntentBuildPressure, Pressure: m.failed})
	}

	r.intents = append(r.intents, s.planShipRoutes(c)...)
	r.intents = append(r.intents, s.planLeaderRoutes(c)...)
	r.intents = append(r.intents, s.planReaction(c)...)
	r.intents = append(r.intents, s.planStrikeGroups(c)...)
	return r
}

// planShipRoutes refreshes movement orders for ships under way.
func (s *Simulation) planShipRoutes(c *industry.Controller) []Intent {
	var out []Intent
	for _, ship := range c.Ships {
		var goal world.EntityID
		switch ship.Status {
		case industry.ShipPathing:
			goal = ship.Origin
			if goal == world.NoEntity {
				goal = ship.Destination
			}
		case industry.ShipEnroute:
			goal = ship.Destination
		default:
			continue
		}
		self, ok := s.Host.Entity(ship.ID)
		if !ok {
			continue
		}
		d, ok := s.dockOf(c, goal)
		if !ok {
			continue
		}
		out = append(out, moveIntent(s.Host, self, d.planet, d.pos))
	}
	return out
}

// planLeaderRoutes refreshes movement orders for deploying leaders.
func (s *Simulation) planLeaderRoutes(c *industry.Controller) []Intent {
	var out []Intent
	for _, m := range c.Leaders {
		if !m.Status.Pathing() && !m.Status.Enroute() {
			continue
		}
		self, ok := s.Host.Entity(m.ID)
		if !ok {
			continue
		}
		p, point, ok := s.leaderGoal(c, m)
		if !ok {
			continue
		}
		out = append(out, moveIntent(s.Host, self, p, point))
	}
	return out
}
