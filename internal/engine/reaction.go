package engine

import (
	"slices"

	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Threat reaction constants.
const (
	raidPoolThreshold   = 1000
	targetThreatFloor   = 1000
	requiredStrengthPct = 125
	stagingReadyRange   = 3000
	readyRatio          = 2
)

// AttackAssessment is a candidate counter-raid target and the planets that
// can contribute fleets to it.
type AttackAssessment struct {
	Target                world.PlanetID
	Contributors          map[world.PlanetID]int
	Order                 []world.PlanetID // contributor keys in insertion order
	StrengthRequired      int
	MilitiaAlreadyPresent bool
	HasReinforcementPoint bool
	FriendlyPresent       int // friendly mobile + guard on the target
	Owner                 world.FactionID
}

// AttackPower is the summed strength of all contributors.
func (a *AttackAssessment) AttackPower() int {
	sum := 0
	for _, p := range a.Order {
		sum += a.Contributors[p]
	}
	return sum
}

func (a *AttackAssessment) addContributor(p world.PlanetID, strength int) {
	if _, ok := a.Contributors[p]; !ok {
		a.Order = append(a.Order, p)
	}
	a.Contributors[p] = strength
}

func (a *AttackAssessment) dropContributor(p world.PlanetID) {
	if _, ok := a.Contributors[p]; !ok {
		return
	}
	delete(a.Contributors, p)
	a.Order = slices.DeleteFunc(a.Order, func(q world.PlanetID) bool { return q == p })
}

// SortAssessments puts targets already holding militia first, then the
// strongest required first, then lower planet id.
func SortAssessments(as []*AttackAssessment) {
	slices.SortStableFunc(as, func(a, b *AttackAssessment) int {
		if a.MilitiaAlreadyPresent != b.MilitiaAlreadyPresent {
			if a.MilitiaAlreadyPresent {
				return -1
			}
			return 1
		}
		if a.StrengthRequired != b.StrengthRequired {
			return b.StrengthRequired - a.StrengthRequired
		}
		return int(a.Target) - int(b.Target)
	})
}

// fleet is one patrolling leader's view for reaction planning.
type fleet struct {
	leader   *industry.MilitiaLeader
	center   *world.Entity
	units    []*world.Entity // excluding the centerpiece
	strength int
}

func (s *Simulation) fleetOf(m *industry.MilitiaLeader) (fleet, bool) {
	center, ok := s.Host.Entity(m.Centerpiece)
	if !ok {
		return fleet{}, false
	}
	f := fleet{leader: m, center: center}
	for _, id := range m.AllUnits() {
		if id == m.Centerpiece {
			continue
		}
		if e, ok := s.Host.Entity(id); ok {
			f.units = append(f.units, e)
			f.strength += e.TotalStrength()
		}
	}
	return f, true
}

// planReaction decides defend, attack or withdraw for every patrolling
// leader and returns the movement intents.
func (s *Simulation) planReaction(c *industry.Controller) []Intent {
	h := s.Host
	var out []Intent
	engaged := map[*industry.MilitiaLeader]bool{}
	pool := map[world.PlanetID][]fleet{}
	var poolPlanets []world.PlanetID

	for _, m := range c.LeadersWithStatus(industry.LeaderPatrolling) {
		f, ok := s.fleetOf(m)
		if !ok || len(f.units) == 0 {
			continue
		}
		home := f.center.Planet
		if target, ok := s.defenseTarget(c, home); ok {
			engaged[m] = true
			for _, u := range f.units {
				out = append(out, s.funnel(u, home, target))
			}
			continue
		}
		if s.raidable(c, home) {
			if _, seen := pool[home]; !seen {
				poolPlanets = append(poolPlanets, home)
			}
			pool[home] = append(pool[home], f)
		}
	}

	assessments := s.assessTargets(c, pool, poolPlanets)
	for len(assessments) > 0 {
		SortAssessments(assessments)
		a := assessments[0]
		assessments = assessments[1:]

		power := a.AttackPower()
		if power < a.StrengthRequired {
			shortfallCovered := a.FriendlyPresent > 0 && power >= a.StrengthRequired-a.FriendlyPresent
			if !shortfallCovered {
				continue
			}
		}

		out = append(out, s.launch(c, a, pool, engaged)...)

		for _, other := range assessments {
			for _, p := range a.Order {
				other.dropContributor(p)
			}
		}
		assessments = slices.DeleteFunc(assessments, func(x *AttackAssessment) bool { return len(x.Order) == 0 })
	}

	// Withdraw idle fleets to a centerpiece that is outmatched at home.
	for _, m := range c.LeadersWithStatus(industry.LeaderPatrolling) {
		if engaged[m] {
			continue
		}
		f, ok := s.fleetOf(m)
		if !ok {
			continue
		}
		r := c.Report(f.center.Planet)
		if r.MilitiaGuard+r.MilitiaMobile >= r.Total() {
			continue
		}
		for _, u := range f.units {
			if u.Planet != f.center.Planet {
				out = append(out, moveIntent(h, u, f.center.Planet, f.center.Pos))
			}
		}
	}
	return out
}

// defenseTarget finds the leader's planet, or an adjacent controlled planet,
// where hostile strength exceeds the guards there.
func (s *Simulation) defenseTarget(c *industry.Controller, home world.PlanetID) (world.PlanetID, bool) {
	if outmatched(c.Report(home)) {
		return home, true
	}
	for _, n := range s.Host.Neighbors(home) {
		p, ok := s.Host.Planet(n)
		if !ok || !friendly(s.Host, c, p.Owner) {
			continue
		}
		if outmatched(c.Report(n)) {
			return n, true
		}
	}
	return world.NoPlanet, false
}

func outmatched(r industry.ThreatReport) bool {
	return r.Total() > r.MilitiaGuard+r.FriendlyGuard
}

// raidable reports whether an adjacent hostile planet carries enough threat
// to make idle strength count as offensive potential.
func (s *Simulation) raidable(c *industry.Controller, p world.PlanetID) bool {
	for _, n := range s.Host.Neighbors(p) {
		planet, ok := s.Host.Planet(n)
		if ok && hostile(s.Host, c, planet.Owner) && c.Report(n).Total() > raidPoolThreshold {
			return true
		}
	}
	return false
}

// assessTargets builds one assessment per hostile or contested neighbor of
// every raid pool planet.
func (s *Simulation) assessTargets(c *industry.Controller, pool map[world.PlanetID][]fleet, poolPlanets []world.PlanetID) []*AttackAssessment {
	h := s.Host
	byTarget := map[world.PlanetID]*AttackAssessment{}
	var out []*AttackAssessment
	for _, p := range poolPlanets {
		strength := 0
		for _, f := range pool[p] {
			strength += f.strength
		}
		for _, n := range h.Neighbors(p) {
			planet, ok := h.Planet(n)
			if !ok || friendly(h, c, planet.Owner) {
				continue
			}
			r := c.Report(n)
			if !hostile(h, c, planet.Owner) && r.Total() == 0 {
				continue
			}
			hasRP := s.hasReinforcementPoint(c, n)
			present := r.FriendlyMobile + r.FriendlyGuard
			if !hasRP && r.Total() <= max(targetThreatFloor, present/3) {
				continue
			}
			a, ok := byTarget[n]
			if !ok {
				a = &AttackAssessment{
					Target:                n,
					Contributors:          map[world.PlanetID]int{},
					StrengthRequired:      r.Total() * requiredStrengthPct / 100,
					MilitiaAlreadyPresent: r.MilitiaGuard+r.MilitiaMobile > 0,
					HasReinforcementPoint: hasRP,
					FriendlyPresent:       present,
					Owner:                 planet.Owner,
				}
				byTarget[n] = a
				out = append(out, a)
			}
			a.addContributor(p, strength)
		}
	}
	return out
}

func (s *Simulation) hasReinforcementPoint(c *industry.Controller, p world.PlanetID) bool {
	for _, e := range s.Host.EntitiesOn(p) {
		if e.Kind == world.KindReinforcementPoint && hostile(s.Host, c, e.Owner) {
			return true
		}
	}
	return false
}

// launch stages contributing fleets at the wormhole toward the target, and
// sends them through once enough are ready or someone is already there.
func (s *Simulation) launch(c *industry.Controller, a *AttackAssessment, pool map[world.PlanetID][]fleet, engaged map[*industry.MilitiaLeader]bool) []Intent {
	h := s.Host
	type staged struct {
		unit    *world.Entity
		from    world.PlanetID
		staging world.Point
	}
	var units []staged
	ready, notReady := 0, 0
	onTarget := false
	for _, p := range a.Order {
		wh, ok := h.WormholeBetween(p, a.Target)
		if !ok {
			continue
		}
		whEnt, _ := h.Entity(wh)
		for _, f := range pool[p] {
			engaged[f.leader] = true
			for _, u := range f.units {
				units = append(units, staged{unit: u, from: p, staging: whEnt.Pos})
				switch {
				case u.Planet == a.Target:
					onTarget = true
				case u.Planet == p && u.Pos.DistanceTo(whEnt.Pos) <= stagingReadyRange:
					ready++
				default:
					notReady++
				}
			}
		}
	}

	var out []Intent
	release := onTarget || ready >= readyRatio*notReady
	target, _ := h.Planet(a.Target)
	for _, su := range units {
		if release {
			out = append(out, moveIntent(h, su.unit, a.Target, target.CommandPoint))
		} else {
			out = append(out, moveIntent(h, su.unit, su.from, su.staging))
		}
	}
	if onTarget {
		out = append(out, Intent{Kind: IntentFlushReinforcements, Planet: a.Target, Faction: a.Owner})
	}
	return out
}

// funnel routes a unit through its leader's planet and on to the target.
func (s *Simulation) funnel(u *world.Entity, via, target world.PlanetID) Intent {
	h := s.Host
	path := h.Path(u.Planet, via)
	path = append(path, h.Path(via, target)...)
	point := world.Point{}
	if p, ok := h.Planet(target); ok {
		point = p.CommandPoint
	}
	return Intent{Kind: IntentMove, Unit: u.ID, Path: path, Point: point}
}
