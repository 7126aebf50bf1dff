package engine

import (
	"testing"

	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// fixture is a three-planet line: 1 (home, player) - 2 (player) - 3 (hostile).
type fixture struct {
	t *testing.T
	g *world.Galaxy
	c *industry.Controller
	s *Simulation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := world.NewGalaxy()
	g.AddPlanet(&world.Planet{ID: 1, Name: "home", Pos: world.Point{X: 0}, Owner: world.FactionPlayer, Level: 1})
	g.AddPlanet(&world.Planet{ID: 2, Name: "border", Pos: world.Point{X: 100}, Owner: world.FactionPlayer, Level: 1})
	g.AddPlanet(&world.Planet{ID: 3, Name: "enemy", Pos: world.Point{X: 200}, Owner: world.FactionHostile, Level: 1})
	g.Link(1, 2)
	g.Link(2, 3)
	g.AddFaction(&world.Faction{ID: world.FactionPlayer})
	g.AddFaction(&world.Faction{ID: world.FactionCivilians})
	g.AddFaction(&world.Faction{ID: world.FactionHostile, AttackBudget: 3000})
	g.AddFaction(&world.Faction{ID: world.FactionRaiders, AttackBudget: 1000})
	g.SetStance(world.FactionPlayer, world.FactionCivilians, world.StanceAllied)
	g.SetStance(world.FactionPlayer, world.FactionHostile, world.StanceHostile)
	g.SetStance(world.FactionCivilians, world.FactionHostile, world.StanceHostile)
	g.SetStance(world.FactionCivilians, world.FactionRaiders, world.StanceHostile)
	g.Finalize()
	for _, id := range g.PlanetIDs() {
		p := g.Planets[id]
		for _, n := range p.Links {
			g.Spawn(world.SpawnSpec{
				Type:     "wormhole",
				Kind:     world.KindWormhole,
				Planet:   id,
				Pos:      world.OffsetToward(p.CommandPoint, 14000, p.Pos, g.Planets[n].Pos),
				LinkTo:   n,
				Resource: world.NoResource,
			})
		}
	}
	c := industry.NewController(world.FactionCivilians, world.FactionRaiders, 1, 1)
	return &fixture{t: t, g: g, c: c, s: NewSimulation(g, nil, []*industry.Controller{c})}
}

func (f *fixture) spawn(spec world.SpawnSpec) *world.Entity {
	f.t.Helper()
	if spec.Resource == 0 && spec.Kind != world.KindExtractor {
		spec.Resource = world.NoResource
	}
	id := f.g.Spawn(spec)
	e, ok := f.g.Entity(id)
	if !ok {
		f.t.Fatalf("spawned entity %d missing", id)
	}
	return e
}

func (f *fixture) station(kind industry.StationKind, p world.PlanetID) *industry.Station {
	planet := f.g.Planets[p]
	e := f.spawn(world.SpawnSpec{Type: "station", Kind: world.KindStation, Owner: f.c.Faction, Planet: p,
		Pos: world.StationSite(planet, 1), Strength: 800})
	st := industry.NewStation(e.ID, kind, p)
	if kind == industry.StationHome {
		f.c.Home = st
	} else {
		f.c.TradeStations = append(f.c.TradeStations, st)
	}
	return st
}

func (f *fixture) ship(p world.PlanetID, pos world.Point) *industry.CargoShip {
	e := f.spawn(world.SpawnSpec{Type: "bulk_hauler", Kind: world.KindCargoShip, Owner: f.c.Faction, Planet: p,
		Pos: pos, Strength: 40, Mobile: true})
	sh := industry.NewCargoShip(e.ID)
	f.c.Ships = append(f.c.Ships, sh)
	return sh
}

func (f *fixture) leader(p world.PlanetID, pos world.Point) *industry.MilitiaLeader {
	e := f.spawn(world.SpawnSpec{Type: "militia_tender", Kind: world.KindLeader, Owner: f.c.Faction, Planet: p,
		Pos: pos, Strength: 50, Mobile: true})
	m := industry.NewMilitiaLeader(e.ID, false)
	f.c.Leaders = append(f.c.Leaders, m)
	return m
}

func (f *fixture) pos(id world.EntityID) world.Point {
	e, ok := f.g.Entity(id)
	if !ok {
		f.t.Fatalf("entity %d missing", id)
	}
	return e.Pos
}

func (f *fixture) wormhole(from, to world.PlanetID) world.EntityID {
	id, ok := f.g.WormholeBetween(from, to)
	if !ok {
		f.t.Fatalf("no wormhole %d -> %d", from, to)
	}
	return id
}
