package world

import (
	"slices"
	"testing"
)

func twoPlanets() *Galaxy {
	g := NewGalaxy()
	g.AddPlanet(&Planet{ID: 1, Owner: FactionPlayer})
	g.AddPlanet(&Planet{ID: 2, Owner: FactionHostile})
	g.Link(1, 2)
	g.AddFaction(&Faction{ID: FactionPlayer})
	g.AddFaction(&Faction{ID: FactionHostile, AttackBudget: 1000})
	g.SetStance(FactionPlayer, FactionHostile, StanceHostile)
	g.Finalize()
	g.Spawn(SpawnSpec{Type: "wormhole", Kind: KindWormhole, Planet: 1, Pos: Point{X: 14000}, LinkTo: 2, Resource: NoResource})
	g.Spawn(SpawnSpec{Type: "wormhole", Kind: KindWormhole, Planet: 2, Pos: Point{X: -14000}, LinkTo: 1, Resource: NoResource})
	return g
}

func TestSpawnIndexesByPlanet(t *testing.T) {
	g := twoPlanets()
	a := g.Spawn(SpawnSpec{Type: "frigate", Kind: KindShip, Owner: FactionPlayer, Planet: 1, Strength: 100, Resource: NoResource})
	b := g.Spawn(SpawnSpec{Type: "frigate", Kind: KindShip, Owner: FactionPlayer, Planet: 1, Strength: 100, Resource: NoResource})
	if a >= b {
		t.Fatalf("ids must increase: %d then %d", a, b)
	}
	var ids []EntityID
	for _, e := range g.EntitiesOn(1) {
		ids = append(ids, e.ID)
	}
	if !slices.IsSorted(ids) || len(ids) != 3 {
		t.Errorf("EntitiesOn(1) ids = %v", ids)
	}
	if wh, ok := g.WormholeBetween(1, 2); !ok || g.Entities[wh].LinkTo != 2 {
		t.Errorf("wormhole 1->2 not found")
	}
}

func TestTransformReplacesID(t *testing.T) {
	g := twoPlanets()
	old := g.Spawn(SpawnSpec{Type: "leader", Kind: KindLeader, Owner: FactionPlayer, Planet: 1, Pos: Point{X: 50}, Resource: NoResource})
	nid, ok := g.Transform(old, "outpost", KindStructure, 500, false)
	if !ok || nid == old {
		t.Fatalf("Transform = %d,%v", nid, ok)
	}
	if _, ok := g.Entity(old); ok {
		t.Error("old id still alive")
	}
	e, _ := g.Entity(nid)
	if e.Pos.X != 50 || e.Owner != FactionPlayer || e.Type != "outpost" {
		t.Errorf("transformed entity = %+v", e)
	}
	if got := g.DrainDestroyed(); len(got) != 0 {
		t.Errorf("transform must not report destruction, got %v", got)
	}
}

func TestTransformCarriesStacks(t *testing.T) {
	g := twoPlanets()
	old := g.Spawn(SpawnSpec{Type: "gunboat", Kind: KindShip, Owner: FactionPlayer, Planet: 1, Strength: 90, Resource: NoResource})
	g.AddStack(old)
	g.AddStack(old)
	nid, _ := g.Transform(old, "gunboat_mk2", KindShip, 120, true)
	e, _ := g.Entity(nid)
	if e.Stacks != 3 || e.TotalStrength() != 360 {
		t.Errorf("stacks = %d strength = %d, want 3 and 360", e.Stacks, e.TotalStrength())
	}
}

func TestRemoveStackKeepsLastMember(t *testing.T) {
	g := twoPlanets()
	id := g.Spawn(SpawnSpec{Type: "gunboat", Kind: KindShip, Owner: FactionPlayer, Planet: 1, Strength: 90, Resource: NoResource})
	g.AddStack(id)
	if !g.RemoveStack(id) {
		t.Fatal("RemoveStack on a stack of 2 failed")
	}
	if g.RemoveStack(id) {
		t.Error("RemoveStack split the last member")
	}
	if e, ok := g.Entity(id); !ok || e.Stacks != 1 {
		t.Errorf("entity = %+v, want one member left", e)
	}
	if g.RemoveStack(9999) {
		t.Error("RemoveStack on unknown id succeeded")
	}
}

func TestDespawnDestroyedIsDrained(t *testing.T) {
	g := twoPlanets()
	id := g.Spawn(SpawnSpec{Type: "station", Kind: KindStation, Owner: FactionCivilians, Planet: 1, Resource: NoResource})
	if !g.Despawn(id, ReasonDestroyed) {
		t.Fatal("despawn failed")
	}
	if g.Despawn(id, ReasonDestroyed) {
		t.Error("second despawn should report false")
	}
	if got := g.DrainDestroyed(); !slices.Equal(got, []EntityID{id}) {
		t.Errorf("destroyed = %v", got)
	}
	if got := g.DrainDestroyed(); len(got) != 0 {
		t.Errorf("drain twice = %v", got)
	}
}

func TestStance(t *testing.T) {
	g := twoPlanets()
	if g.Stance(FactionPlayer, FactionHostile) != StanceHostile || g.Stance(FactionHostile, FactionPlayer) != StanceHostile {
		t.Error("hostile stance must be symmetric")
	}
	if g.Stance(FactionPlayer, FactionPlayer) != StanceAllied {
		t.Error("faction must be allied with itself")
	}
	if g.Stance(FactionPlayer, FactionRaiders) != StanceNeutral {
		t.Error("unknown pairs are neutral")
	}
}

func TestAdvanceFollowsPathThroughWormhole(t *testing.T) {
	g := twoPlanets()
	id := g.Spawn(SpawnSpec{Type: "courier", Kind: KindCargoShip, Owner: FactionPlayer, Planet: 1,
		Pos: Point{X: 13500}, Mobile: true, Resource: NoResource})
	g.SetOrder(id, Order{Path: []PlanetID{2}})
	g.Advance()
	e, _ := g.Entity(id)
	if e.Planet != 2 {
		t.Fatalf("entity on planet %d, want 2", e.Planet)
	}
	if e.Pos != (Point{X: -14000}) {
		t.Errorf("arrival at %+v, want far-side wormhole", e.Pos)
	}
}

func TestAttritionDestroysWeakSide(t *testing.T) {
	g := twoPlanets()
	weak := g.Spawn(SpawnSpec{Type: "scout", Kind: KindShip, Owner: FactionPlayer, Planet: 2, Strength: 1, Resource: NoResource})
	g.Spawn(SpawnSpec{Type: "fortress", Kind: KindStructure, Owner: FactionHostile, Planet: 2, Strength: 5000, Resource: NoResource})
	g.Advance()
	if _, ok := g.Entity(weak); ok {
		t.Error("weak scout should be destroyed")
	}
	if got := g.DrainDestroyed(); !slices.Contains(got, weak) {
		t.Errorf("destroyed = %v", got)
	}
}

func TestWaveLandsWhenDue(t *testing.T) {
	g := twoPlanets()
	g.QueueWave(AttackWave{Faction: FactionHostile, Target: 1, Strength: 700, DueSeconds: 2})
	g.Advance()
	if len(g.Waves) != 1 || g.Waves[0].DueSeconds != 1 || !g.Waves[0].Alerted {
		t.Fatalf("waves after one tick = %+v", g.Waves)
	}
	before := len(g.Entities)
	g.Advance()
	if len(g.Waves) != 0 || len(g.Entities) != before+1 {
		t.Errorf("wave should spawn a fleet, entities %d -> %d", before, len(g.Entities))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(SmallTestConfig())
	b := Generate(SmallTestConfig())
	if len(a.Planets) != 9 || len(a.Entities) != len(b.Entities) {
		t.Fatalf("planets=%d entities %d vs %d", len(a.Planets), len(a.Entities), len(b.Entities))
	}
	for id, p := range a.Planets {
		q := b.Planets[id]
		if p.Owner != q.Owner || !slices.Equal(p.Links, q.Links) {
			t.Errorf("planet %d differs", id)
		}
	}
	for _, id := range a.PlanetIDs() {
		for _, n := range a.Neighbors(id) {
			if _, ok := a.WormholeBetween(id, n); !ok {
				t.Errorf("missing wormhole %d->%d", id, n)
			}
		}
		if a.Hops(1, id) == Unreachable {
			t.Errorf("planet %d unreachable", id)
		}
	}
}
