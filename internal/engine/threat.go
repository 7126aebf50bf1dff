package engine

import (
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Threat assessment constants.
const (
	imminentWaveSeconds  = 90
	imminentWaveFactor   = 3
	friendlyHostileScale = 3
	bleedThroughCeiling  = 1000
	homeThreatFactor     = 2
)

// forces is the raw strength split on one planet before any weighting.
type forces struct {
	militiaGuard, militiaMobile   int
	friendlyGuard, friendlyMobile int
	cloaked, visible              int
	roaming                       int // visible hostile threat and hunter fleets
}

// ownership indexes the ids a controller tracks, for classifying entities.
type ownership struct {
	militia map[world.EntityID]bool
	cargo   map[world.EntityID]bool
	all     map[world.EntityID]bool
}

func ownershipOf(c *industry.Controller) ownership {
	o := ownership{
		militia: make(map[world.EntityID]bool),
		cargo:   make(map[world.EntityID]bool),
		all:     make(map[world.EntityID]bool),
	}
	if c.Home != nil {
		o.all[c.Home.ID] = true
	}
	for _, s := range c.TradeStations {
		o.all[s.ID] = true
	}
	for _, s := range c.Ships {
		o.cargo[s.ID] = true
		o.all[s.ID] = true
	}
	for _, m := range c.Leaders {
		o.militia[m.ID] = true
		o.all[m.ID] = true
		for _, u := range m.AllUnits() {
			o.militia[u] = true
			o.all[u] = true
		}
	}
	return o
}

func friendly(h Host, c *industry.Controller, f world.FactionID) bool {
	return f != world.NoFaction && (f == c.Faction || h.Stance(c.Faction, f) == world.StanceAllied)
}

func hostile(h Host, c *industry.Controller, f world.FactionID) bool {
	return f != world.NoFaction && h.Stance(c.Faction, f) == world.StanceHostile
}

// tally sums the strength on planet p as seen by controller c.
func tally(h Host, c *industry.Controller, own ownership, p world.PlanetID) forces {
	var f forces
	for _, e := range h.EntitiesOn(p) {
		if e.Kind == world.KindWormhole {
			continue
		}
		s := e.TotalStrength()
		if s <= 0 {
			continue
		}
		switch {
		case own.militia[e.ID]:
			if e.Mobile {
				f.militiaMobile += s
			} else {
				f.militiaGuard += s
			}
		case own.cargo[e.ID]:
			// haulers are not a defense
		case friendly(h, c, e.Owner):
			if e.Mobile {
				f.friendlyMobile += s
			} else {
				f.friendlyGuard += s
			}
		case hostile(h, c, e.Owner):
			if e.Cloaked {
				f.cloaked += s
				continue
			}
			f.visible += s
			if e.Behavior != world.BehaviorNormal {
				f.roaming += s
			}
		}
	}
	return f
}

// assessThreat walks breadth-first from the anchor planet and produces one
// report for every planet the controller has a presence on or next to.
// No anchor means no reports this tick.
func assessThreat(h Host, c *industry.Controller) []industry.ThreatReport {
	anchor, ok := c.AnchorPlanet()
	if !ok {
		return nil
	}
	own := ownershipOf(c)

	visit := map[world.PlanetID]bool{anchor: true}
	for id := range own.all {
		e, ok := h.Entity(id)
		if !ok {
			continue
		}
		visit[e.Planet] = true
		for _, n := range h.Neighbors(e.Planet) {
			visit[n] = true
		}
	}
	for _, n := range h.Neighbors(anchor) {
		visit[n] = true
	}

	waves := h.AttackWaves()
	var reports []industry.ThreatReport
	seen := map[world.PlanetID]bool{anchor: true}
	queue := []world.PlanetID{anchor}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range h.Neighbors(p) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
		if !visit[p] {
			continue
		}
		reports = append(reports, reportFor(h, c, own, p, waves))
	}
	return reports
}

func reportFor(h Host, c *industry.Controller, own ownership, p world.PlanetID, waves []world.AttackWave) industry.ThreatReport {
	f := tally(h, c, own, p)
	r := industry.ThreatReport{
		Planet:         p,
		MilitiaGuard:   f.militiaGuard,
		MilitiaMobile:  f.militiaMobile,
		FriendlyGuard:  f.friendlyGuard,
		FriendlyMobile: f.friendlyMobile,
	}

	for _, w := range waves {
		if w.Target != p || !hostile(h, c, w.Faction) {
			continue
		}
		switch {
		case w.DueSeconds <= imminentWaveSeconds:
			r.NonCloakedHostile += w.Strength * imminentWaveFactor
		case w.Alerted:
			r.Wave += w.Strength
		}
	}

	planet, ok := h.Planet(p)
	controlled := ok && friendly(h, c, planet.Owner)
	if controlled {
		// Stealth does not hide anything on our own ground.
		r.NonCloakedHostile += (f.cloaked + f.visible) * friendlyHostileScale
		for _, n := range h.Neighbors(p) {
			nf := tally(h, c, own, n)
			if nf.friendlyGuard+nf.friendlyMobile+nf.militiaGuard+nf.militiaMobile < bleedThroughCeiling {
				r.NonCloakedHostile += nf.roaming
			}
		}
	} else {
		r.NonCloakedHostile += f.visible
		r.CloakedHostile += f.cloaked
	}

	if p == c.HomePlanet {
		r.NonCloakedHostile *= homeThreatFactor
	}
	return r
}
