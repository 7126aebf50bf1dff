// Package world provides the host side of the simulation: the planet graph,
// the entities living on it, spawn/transform/despawn, paths and orders.
// The engine reads it through engine.Host and never mutates it except by
// applying queued intents.
package world

import (
	"math"
	"slices"
)

// PlanetID identifies a planet. Zero means "none".
type PlanetID int32

// EntityID identifies an entity. Zero means "none"; ids are never reused.
type EntityID int32

// FactionID identifies a faction. Zero means "none".
type FactionID int32

const (
	NoPlanet  PlanetID  = 0
	NoEntity  EntityID  = 0
	NoFaction FactionID = 0
)

// Unreachable is the hop distance between disconnected planets.
const Unreachable = math.MaxInt32

// Point is a planet-local position in distance units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceTo returns the integer Euclidean distance between two points.
func (p Point) DistanceTo(o Point) int {
	dx := int64(p.X - o.X)
	dy := int64(p.Y - o.Y)
	return int(isqrt(dx*dx + dy*dy))
}

// Toward returns the point step units from p in the direction of target,
// or target itself when it is closer than step.
func (p Point) Toward(target Point, step int) Point {
	d := p.DistanceTo(target)
	if d <= step || d == 0 {
		return target
	}
	return Point{
		X: p.X + (target.X-p.X)*step/d,
		Y: p.Y + (target.Y-p.Y)*step/d,
	}
}

// isqrt returns floor(sqrt(n)) using integer Newton iteration.
func isqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// Planet is a node of the galaxy graph.
type Planet struct {
	ID           PlanetID   `json:"id"`
	Name         string     `json:"name"`
	Pos          Point      `json:"pos"`           // galaxy-map position, used only for generation
	Links        []PlanetID `json:"links"`         // linked neighbors, kept sorted
	Owner        FactionID  `json:"owner"`         // controlling faction, NoFaction if unclaimed
	CommandPoint Point      `json:"command_point"` // local position of the planet's command station
	Level        int        `json:"level"`         // mark level bonus for stations built here
}

// HasLink reports whether other is a linked neighbor.
func (p *Planet) HasLink(other PlanetID) bool {
	_, ok := slices.BinarySearch(p.Links, other)
	return ok
}

// buildHops computes all-pairs hop distances by BFS from every planet.
// Done once in Finalize so concurrent readers never fill a cache.
func (g *Galaxy) buildHops() {
	g.hops = make(map[PlanetID]map[PlanetID]int, len(g.Planets))
	for _, src := range g.planetOrder {
		dist := map[PlanetID]int{src: 0}
		queue := []PlanetID{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range g.Planets[cur].Links {
				if _, seen := dist[n]; seen {
					continue
				}
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
		g.hops[src] = dist
	}
}

// Hops returns the number of wormhole jumps between two planets, or
// Unreachable if they are not connected.
func (g *Galaxy) Hops(a, b PlanetID) int {
	if a == b {
		if _, ok := g.Planets[a]; ok {
			return 0
		}
		return Unreachable
	}
	row, ok := g.hops[a]
	if !ok {
		return Unreachable
	}
	d, ok := row[b]
	if !ok {
		return Unreachable
	}
	return d
}

// Path returns the planets visited after a on a shortest route to b,
// ending with b. Ties prefer the lower planet id at every hop. Returns nil
// when a == b or when b is unreachable.
func (g *Galaxy) Path(a, b PlanetID) []PlanetID {
	total := g.Hops(a, b)
	if a == b || total == Unreachable {
		return nil
	}
	path := make([]PlanetID, 0, total)
	cur := a
	for cur != b {
		next := NoPlanet
		for _, n := range g.Planets[cur].Links {
			if g.Hops(n, b) == g.Hops(cur, b)-1 {
				next = n
				break
			}
		}
		if next == NoPlanet {
			return nil
		}
		path = append(path, next)
		cur = next
	}
	return path
}
