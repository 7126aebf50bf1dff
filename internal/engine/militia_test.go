package engine

import (
	"testing"

	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

func TestOutpostSettlesInStandOffBand(t *testing.T) {
	tests := []struct {
		name   string
		x      int
		settle bool
	}{
		{"inside band", 5000, true},
		{"too close", 12000, false},
		{"too far", 3000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.station(industry.StationTrade, 1)
			wh := f.wormhole(1, 2)
			m := f.leader(1, world.Point{X: tt.x})
			oldID := m.ID
			m.Status = industry.LeaderEnrouteWormhole
			m.PlanetFocus = 1
			m.EntityFocus = wh

			f.s.deploy(f.c, m)

			if !tt.settle {
				if m.Status != industry.LeaderEnrouteWormhole || m.ID != oldID {
					t.Errorf("leader settled at distance %d", f.pos(wh).DistanceTo(world.Point{X: tt.x}))
				}
				return
			}
			if m.Status != industry.LeaderDefending {
				t.Fatalf("status = %s, want defending", m.Status)
			}
			e, ok := f.g.Entity(m.ID)
			if !ok || e.Type != "militia_outpost" || m.ID == oldID || m.Centerpiece != m.ID {
				t.Errorf("post entity = %+v (leader id %d, old %d)", e, m.ID, oldID)
			}
			if m.EntityFocus != wh {
				t.Errorf("focus = %d, want %d", m.EntityFocus, wh)
			}
		})
	}
}

func TestLeaderPathingBecomesEnrouteAtStation(t *testing.T) {
	f := newFixture(t)
	st := f.station(industry.StationTrade, 1)
	m := f.leader(1, f.pos(st.ID))
	_ = m.SetStatus(industry.LeaderPathingForMine)
	m.PlanetFocus = 1

	f.s.deploy(f.c, m)
	if m.Status != industry.LeaderEnrouteMine {
		t.Errorf("status = %s, want enroute_mine", m.Status)
	}
}

func TestDeployResetsWithoutStation(t *testing.T) {
	f := newFixture(t)
	m := f.leader(1, world.Point{})
	_ = m.SetStatus(industry.LeaderPathingForWormhole)
	m.PlanetFocus = 1
	m.EntityFocus = f.wormhole(1, 2)

	f.s.deploy(f.c, m)
	if m.Status != industry.LeaderIdle || m.EntityFocus != world.NoEntity {
		t.Errorf("leader = %+v, want idle with no claim", m)
	}
}

func TestAssignLeadersClaimsDistinctObjectives(t *testing.T) {
	f := newFixture(t)
	st := f.station(industry.StationTrade, 2)
	mine := f.spawn(world.SpawnSpec{Type: "extractor", Kind: world.KindExtractor, Planet: 2,
		Pos: world.Point{X: 5000}, Resource: int(economy.Ore)})
	for range 3 {
		f.leader(2, f.pos(st.ID))
	}
	f.c.SetReports(assessThreat(f.g, f.c))
	if !f.c.HasReport(2) {
		t.Fatal("no report for the station planet")
	}

	for range 3 {
		f.s.assignLeaders(f.c)
	}
	want := []struct {
		status industry.LeaderStatus
		focus  world.EntityID
	}{
		{industry.LeaderPathingForWormhole, f.wormhole(2, 3)},
		{industry.LeaderPathingForWormhole, f.wormhole(2, 1)},
		{industry.LeaderPathingForMine, mine.ID},
	}
	for i, w := range want {
		m := f.c.Leaders[i]
		if m.Status != w.status || m.EntityFocus != w.focus || m.PlanetFocus != 2 {
			t.Errorf("leader %d = %s focus %d, want %s focus %d", i, m.Status, m.EntityFocus, w.status, w.focus)
		}
	}
	if f.c.MilitiaBuildCounter != 0 {
		t.Errorf("build counter = %d before leaders ran out", f.c.MilitiaBuildCounter)
	}

	f.s.assignLeaders(f.c)
	if f.c.MilitiaBuildCounter != 1 {
		t.Errorf("build counter = %d, want 1", f.c.MilitiaBuildCounter)
	}

	seen := map[world.EntityID]bool{}
	for _, m := range f.c.Leaders {
		if m.EntityFocus == world.NoEntity {
			continue
		}
		if seen[m.EntityFocus] {
			t.Errorf("focus %d claimed twice", m.EntityFocus)
		}
		seen[m.EntityFocus] = true
	}
}

func TestShipyardScanSkipsUnresolvableLeader(t *testing.T) {
	f := newFixture(t)
	m := f.leader(2, world.Point{})
	m.PlanetFocus = 2
	m.Shipyard = true
	f.g.Despawn(m.ID, world.ReasonDestroyed)

	if f.s.shipyardInProgress(f.c, 2) {
		t.Error("dead leader counted as a shipyard")
	}
	if f.s.rep.count("unresolvable leader during shipyard scan") != 1 {
		t.Error("unresolvable leader not reported")
	}
}

func TestProductionBuildsTurret(t *testing.T) {
	f := newFixture(t)
	f.station(industry.StationTrade, 2)
	m := f.leader(2, world.Point{X: 5000})
	m.Status = industry.LeaderDefending
	m.Stockpile.Amount[economy.Steel] = 100

	f.s.tickProduction(f.c)

	if m.ShipTypes[economy.Steel] != "flak_battery" {
		t.Fatalf("unit type = %q", m.ShipTypes[economy.Steel])
	}
	if m.ShipCapacity[economy.Steel] != 16 {
		t.Errorf("capacity = %d, want 16", m.ShipCapacity[economy.Steel])
	}
	if m.UnitCount(economy.Steel) != 1 || m.Stockpile.Amount[economy.Steel] != 60 {
		t.Errorf("units = %d, stockpile = %d", m.UnitCount(economy.Steel), m.Stockpile.Amount[economy.Steel])
	}
	for _, k := range economy.AllKinds() {
		if k != economy.Steel && m.ShipTypes[k] != "" {
			t.Errorf("type chosen for unfunded kind %s", k)
		}
	}

	f.s.tickProduction(f.c)
	if m.UnitCount(economy.Steel) != 2 || m.Stockpile.Amount[economy.Steel] != 18 {
		t.Errorf("second build: units = %d, stockpile = %d", m.UnitCount(economy.Steel), m.Stockpile.Amount[economy.Steel])
	}
}

func TestProductionDisbandsOverCapacity(t *testing.T) {
	f := newFixture(t)
	m := f.leader(2, world.Point{X: 5000})
	m.Status = industry.LeaderDefending
	m.ShipTypes[economy.Steel] = "flak_battery"
	m.CapMultiplier = 3 // 120 strength -> one turret, halved to the minimum
	for range 3 {
		u := f.spawn(world.SpawnSpec{Type: "flak_battery", Kind: world.KindShip, Owner: f.c.Faction, Planet: 2, Strength: 120})
		m.Ships[economy.Steel] = append(m.Ships[economy.Steel], u.ID)
	}
	oldest := m.Ships[economy.Steel][0]

	f.s.tickProduction(f.c)
	if m.UnitCount(economy.Steel) != 2 {
		t.Errorf("units = %d, want 2", m.UnitCount(economy.Steel))
	}
	if _, ok := f.g.Entity(oldest); ok {
		t.Error("oldest unit not disbanded")
	}
}

// stackedPosts sets up three defending flak posts on planet 2 holding 14
// turrets each, so the controller is past the flak stack cap of 40.
func stackedPosts(f *fixture) []*industry.MilitiaLeader {
	var posts []*industry.MilitiaLeader
	for i := range 3 {
		m := f.leader(2, world.Point{X: 5000 + 100*i})
		m.Status = industry.LeaderDefending
		m.ShipTypes[economy.Steel] = "flak_battery"
		for range 14 {
			u := f.spawn(world.SpawnSpec{Type: "flak_battery", Kind: world.KindShip, Owner: f.c.Faction, Planet: 2, Strength: 120})
			m.Ships[economy.Steel] = append(m.Ships[economy.Steel], u.ID)
		}
		posts = append(posts, m)
	}
	return posts
}

func TestProductionStacksRespectCapacity(t *testing.T) {
	f := newFixture(t)
	posts := stackedPosts(f)
	m := posts[2]
	m.Stockpile.Amount[economy.Steel] = 500

	for range 30 {
		f.s.tickProduction(f.c)
	}

	// capacity 4000/120 = 33, halved to 16 while defending
	if m.ShipCapacity[economy.Steel] != 16 {
		t.Fatalf("capacity = %d, want 16", m.ShipCapacity[economy.Steel])
	}
	if got := f.s.memberCount(m, economy.Steel); got != 16 {
		t.Errorf("members = %d, want 16", got)
	}
	if got := m.UnitCount(economy.Steel); got != 14 {
		t.Errorf("tracked ids = %d, want 14 (new members stack)", got)
	}
	// costs rise with members: 40*(100+87)/100, then 40*(100+93)/100
	if got := m.Stockpile.Amount[economy.Steel]; got != 500-74-77 {
		t.Errorf("stockpile = %d, want %d", got, 500-74-77)
	}
}

func TestProductionDisbandsStackedMemberFirst(t *testing.T) {
	f := newFixture(t)
	m := f.leader(2, world.Point{X: 5000})
	m.Status = industry.LeaderDefending
	m.ShipTypes[economy.Steel] = "flak_battery"
	m.CapMultiplier = 3 // capacity 1
	for range 2 {
		u := f.spawn(world.SpawnSpec{Type: "flak_battery", Kind: world.KindShip, Owner: f.c.Faction, Planet: 2, Strength: 120})
		m.Ships[economy.Steel] = append(m.Ships[economy.Steel], u.ID)
	}
	last := m.Ships[economy.Steel][1]
	f.g.AddStack(last)
	f.g.AddStack(last)

	f.s.tickProduction(f.c)

	if m.UnitCount(economy.Steel) != 2 {
		t.Errorf("tracked ids = %d, want 2", m.UnitCount(economy.Steel))
	}
	if e, _ := f.g.Entity(last); e.Stacks != 2 {
		t.Errorf("stacks = %d, want 2", e.Stacks)
	}
	if got := f.s.memberCount(m, economy.Steel); got != 3 {
		t.Errorf("members = %d, want 3", got)
	}
}

func TestUnitCost(t *testing.T) {
	defending := industry.NewMilitiaLeader(1, false)
	defending.Status = industry.LeaderDefending
	hq := industry.NewMilitiaLeader(2, true)
	hq.Status = industry.LeaderPatrolling
	yard := industry.NewMilitiaLeader(3, false)
	yard.Shipyard = true

	tests := []struct {
		name                              string
		m                                 *industry.MilitiaLeader
		base, count, capacity, intensity int
		want                              int
	}{
		{"empty", defending, 40, 0, 16, 100, 40},
		{"half full", defending, 40, 8, 16, 100, 60},
		{"intensity", defending, 40, 0, 16, 50, 20},
		{"hq discount", hq, 25, 0, 10, 100, 8},
		{"shipyard flat", yard, 40, 5, 1, 300, 250},
		{"floor", defending, 1, 0, 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unitCost(tt.m, tt.base, tt.count, tt.capacity, tt.intensity); got != tt.want {
				t.Errorf("cost = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnitCapacity(t *testing.T) {
	defending := industry.NewMilitiaLeader(1, false)
	defending.Status = industry.LeaderDefending
	hq := industry.NewMilitiaLeader(2, true)
	hq.Status = industry.LeaderPatrolling
	yard := industry.NewMilitiaLeader(3, false)
	yard.Shipyard = true

	tests := []struct {
		name               string
		m                  *industry.MilitiaLeader
		strength, barracks int
		want               int
	}{
		{"defending halves", defending, 120, 0, 16},
		{"barracks raise cap", defending, 120, 1, 25},
		{"hq patrol triples", hq, 100, 0, 120},
		{"shipyard single", yard, 900, 3, 1},
		{"never zero", defending, 9000, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unitCapacity(tt.m, tt.strength, tt.barracks); got != tt.want {
				t.Errorf("capacity = %d, want %d", got, tt.want)
			}
		})
	}
}
