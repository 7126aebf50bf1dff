package engine

import (
	"testing"

	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

func reportOn(t *testing.T, reports []industry.ThreatReport, p world.PlanetID) industry.ThreatReport {
	t.Helper()
	for _, r := range reports {
		if r.Planet == p {
			return r
		}
	}
	t.Fatalf("no report for planet %d", p)
	return industry.ThreatReport{}
}

func TestHomeThreatCountsWavesAndDoubles(t *testing.T) {
	f := newFixture(t)
	f.station(industry.StationHome, 1)
	f.spawn(world.SpawnSpec{Type: "raider_pack", Kind: world.KindShip, Owner: world.FactionHostile, Planet: 1,
		Strength: 100, Mobile: true})
	f.g.QueueWave(world.AttackWave{Faction: world.FactionHostile, Target: 1, Strength: 50, DueSeconds: 60})
	f.g.QueueWave(world.AttackWave{Faction: world.FactionHostile, Target: 1, Strength: 70, DueSeconds: 500, Alerted: true})

	r := reportOn(t, assessThreat(f.g, f.c), 1)
	if r.NonCloakedHostile != 900 {
		t.Errorf("non-cloaked = %d, want 900", r.NonCloakedHostile)
	}
	if r.Wave != 70 {
		t.Errorf("wave = %d, want 70", r.Wave)
	}
	if r.FriendlyGuard != 800 {
		t.Errorf("friendly guard = %d, want the home station", r.FriendlyGuard)
	}
}

func TestThreatOnHostileGroundKeepsStealth(t *testing.T) {
	f := newFixture(t)
	f.station(industry.StationHome, 1)
	f.station(industry.StationTrade, 2)
	f.spawn(world.SpawnSpec{Type: "fortress", Kind: world.KindStructure, Owner: world.FactionHostile, Planet: 3, Strength: 500})
	f.spawn(world.SpawnSpec{Type: "stalker", Kind: world.KindShip, Owner: world.FactionHostile, Planet: 3,
		Strength: 200, Mobile: true, Cloaked: true})

	r := reportOn(t, assessThreat(f.g, f.c), 3)
	if r.NonCloakedHostile != 500 || r.CloakedHostile != 200 {
		t.Errorf("report = %+v", r)
	}
}

func TestRoamingThreatBleedsIntoWeakNeighbor(t *testing.T) {
	f := newFixture(t)
	f.station(industry.StationHome, 1)
	f.station(industry.StationTrade, 2)
	f.spawn(world.SpawnSpec{Type: "threat_fleet", Kind: world.KindShip, Owner: world.FactionHostile, Planet: 3,
		Strength: 400, Mobile: true, Behavior: world.BehaviorThreat})

	reports := assessThreat(f.g, f.c)
	if r := reportOn(t, reports, 2); r.NonCloakedHostile != 400 {
		t.Errorf("bleed into planet 2 = %d, want 400", r.NonCloakedHostile)
	}

	// A strong garrison on the roamer's planet keeps it home.
	f.spawn(world.SpawnSpec{Type: "guard_post", Kind: world.KindStructure, Owner: world.FactionPlayer, Planet: 3, Strength: 1500})
	reports = assessThreat(f.g, f.c)
	if r := reportOn(t, reports, 2); r.NonCloakedHostile != 0 {
		t.Errorf("bleed past garrison = %d, want 0", r.NonCloakedHostile)
	}
}

func TestThreatGrowsWithHostileStrength(t *testing.T) {
	f := newFixture(t)
	f.station(industry.StationHome, 1)
	prev := -1
	for range 4 {
		f.spawn(world.SpawnSpec{Type: "raider_pack", Kind: world.KindShip, Owner: world.FactionHostile, Planet: 2,
			Strength: 150, Mobile: true})
		total := reportOn(t, assessThreat(f.g, f.c), 2).Total()
		if total <= prev {
			t.Errorf("threat %d did not grow from %d", total, prev)
		}
		prev = total
	}
}

func TestNoAnchorNoReports(t *testing.T) {
	f := newFixture(t)
	if reports := assessThreat(f.g, f.c); reports != nil {
		t.Errorf("reports without any station: %v", reports)
	}
}

func TestCargoShipsAreNotDefense(t *testing.T) {
	f := newFixture(t)
	st := f.station(industry.StationHome, 1)
	f.ship(1, f.pos(st.ID))
	r := reportOn(t, assessThreat(f.g, f.c), 1)
	if r.Defense() != 800 {
		t.Errorf("defense = %d, want the station alone", r.Defense())
	}
}
