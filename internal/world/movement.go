package world

import "slices"

// Host-side movement and attrition constants.
const (
	DefaultSpeed   = 900 // distance units per second
	JumpRange      = 600 // distance from a wormhole at which a unit jumps
	arrivalPointR  = 12000
	attritionPct   = 2 // percent of opposing strength dealt as damage per second
	waveSpawnSpeed = 700
)

// Advance runs one second of host simulation: due attack waves arrive,
// entities follow their orders, and hostile forces on the same planet wear
// each other down. Iteration is in id order so every peer gets the same result.
func (g *Galaxy) Advance() {
	g.advanceWaves()

	ids := make([]EntityID, 0, len(g.Entities))
	for id, e := range g.Entities {
		if e.Order != nil && e.Mobile {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		if e, ok := g.Entities[id]; ok {
			g.follow(e)
		}
	}

	for _, p := range g.planetOrder {
		g.attrition(p)
	}
}

func (g *Galaxy) follow(e *Entity) {
	o := e.Order
	speed := e.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}

	if o.Target != NoEntity {
		target, ok := g.Entities[o.Target]
		if !ok {
			e.Order = nil
			return
		}
		if target.Planet == e.Planet {
			e.Pos = e.Pos.Toward(target.Pos, speed)
			return
		}
		o.Path = g.Path(e.Planet, target.Planet)
	}

	if len(o.Path) > 0 {
		next := o.Path[0]
		wh, ok := g.WormholeBetween(e.Planet, next)
		if !ok {
			// Broken route; drop the order rather than teleport.
			e.Order = nil
			return
		}
		whPos := g.Entities[wh].Pos
		if e.Pos.DistanceTo(whPos) > JumpRange {
			e.Pos = e.Pos.Toward(whPos, speed)
			return
		}
		arrive := Point{}
		if back, ok := g.WormholeBetween(next, e.Planet); ok {
			arrive = g.Entities[back].Pos
		}
		g.moveTo(e, next, arrive)
		o.Path = o.Path[1:]
		return
	}

	if o.HasPoint {
		e.Pos = e.Pos.Toward(o.Point, speed)
		if e.Pos == o.Point && o.Target == NoEntity {
			e.Order = nil
		}
		return
	}
	if o.Target == NoEntity {
		e.Order = nil
	}
}

// attrition deals damage between mutually hostile owners on one planet.
// Each side loses strength in proportion to the opposing strength present;
// entities reduced to nothing are destroyed.
func (g *Galaxy) attrition(p PlanetID) {
	ents := g.EntitiesOn(p)
	strength := map[FactionID]int{}
	var owners []FactionID
	for _, e := range ents {
		if e.Strength <= 0 || e.Kind == KindWormhole {
			continue
		}
		if _, ok := strength[e.Owner]; !ok {
			owners = append(owners, e.Owner)
		}
		strength[e.Owner] += e.TotalStrength()
	}
	if len(owners) < 2 {
		return
	}
	slices.Sort(owners)

	damage := map[FactionID]int{}
	for _, a := range owners {
		for _, b := range owners {
			if g.Stance(a, b) == StanceHostile {
				damage[a] += strength[b] * attritionPct / 100
			}
		}
	}

	for _, e := range ents {
		d := damage[e.Owner]
		if d <= 0 || e.Strength <= 0 || e.Kind == KindWormhole {
			continue
		}
		// Spread damage by share of the owner's strength.
		share := d * e.TotalStrength() / max(1, strength[e.Owner])
		if share <= 0 {
			share = 1
		}
		remaining := e.TotalStrength() - share
		if remaining <= 0 {
			g.Despawn(e.ID, ReasonDestroyed)
			continue
		}
		if e.Stacks > 1 {
			e.Stacks = remaining / max(1, e.Strength)
			if e.Stacks < 1 {
				e.Stacks = 1
				e.Strength = remaining
			}
		} else {
			e.Strength = remaining
		}
	}
}

// advanceWaves counts down queued waves and lands the ones that are due.
func (g *Galaxy) advanceWaves() {
	kept := g.Waves[:0]
	for _, w := range g.Waves {
		w.DueSeconds--
		if w.DueSeconds <= 120 {
			w.Alerted = true
		}
		if w.DueSeconds > 0 {
			kept = append(kept, w)
			continue
		}
		pos := Point{X: arrivalPointR}
		for _, id := range g.byPlanet[w.Target] {
			if e := g.Entities[id]; e != nil && e.Kind == KindWormhole {
				pos = e.Pos
				break
			}
		}
		g.Spawn(SpawnSpec{
			Type:     "wave_fleet",
			Kind:     KindShip,
			Owner:    w.Faction,
			Planet:   w.Target,
			Pos:      pos,
			Strength: w.Strength,
			Mobile:   true,
			Resource: NoResource,
			Speed:    waveSpawnSpeed,
		})
	}
	g.Waves = kept
}
