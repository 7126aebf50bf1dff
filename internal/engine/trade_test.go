package engine

import (
	"testing"

	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

func TestProducedExportUrgency(t *testing.T) {
	tests := []struct {
		name                   string
		amount, rate, capacity int
		want                   int
	}{
		{"just over a tenth", 150, 10, 1000, 8},
		{"exact", 200, 10, 1000, 10},
		{"capped", 2500, 10, 2500, 20},
		{"small", 300, 1, 2500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := producedExportUrgency(tt.amount, tt.rate, tt.capacity); got != tt.want {
				t.Errorf("urgency = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProducedKindBecomesExportRequest(t *testing.T) {
	f := newFixture(t)
	st := f.station(industry.StationTrade, 1)
	st.Ledger.Capacity[economy.Steel] = 1000
	st.Ledger.Amount[economy.Steel] = 150
	st.Ledger.PerSecond[economy.Steel] = 10

	_, exports := f.s.collectRequests(f.c)
	var found *industry.TradeRequest
	for _, r := range exports {
		if r.Kind == economy.Steel && r.Station == st.ID {
			found = r
		}
	}
	if found == nil {
		t.Fatal("no steel export")
	}
	if found.Urgency != 8 || found.MaxSearchHops != stationMaxHops {
		t.Errorf("export = %+v, want urgency 8", found)
	}
}

func TestExportUrgencyDropsPerInboundPickup(t *testing.T) {
	f := newFixture(t)
	st := f.station(industry.StationTrade, 1)
	st.Ledger.Capacity[economy.Steel] = 1000
	st.Ledger.Amount[economy.Steel] = 150
	st.Ledger.PerSecond[economy.Steel] = 10
	ship := f.ship(1, f.pos(st.ID))
	if err := ship.Assign(st.ID, st.ID); err != nil {
		t.Fatal(err)
	}
	_, exports := f.s.collectRequests(f.c)
	for _, r := range exports {
		if r.Kind == economy.Steel && r.Urgency != 6 {
			t.Errorf("urgency with one pickup = %d, want 6", r.Urgency)
		}
	}
}

func TestMilitiaPostImport(t *testing.T) {
	f := newFixture(t)
	m := f.leader(1, f.pos(f.wormhole(1, 2)))
	m.Status = industry.LeaderDefending
	m.Stockpile.Amount[economy.Ore] = m.Stockpile.Capacity[economy.Ore]

	imports, _ := f.s.collectRequests(f.c)
	if len(imports) != 1 {
		t.Fatalf("imports = %d, want 1", len(imports))
	}
	r := imports[0]
	if r.Kind != economy.KindAny || r.Urgency != postImportUrgency || r.MaxSearchHops != postMaxHops {
		t.Errorf("post import = %+v", r)
	}
	if !r.Declined[economy.Ore] || r.Declined[economy.Steel] {
		t.Errorf("declined = %v", r.Declined)
	}

	m.Shipyard = true
	ship := f.ship(1, world.Point{})
	_ = ship.Assign(0, m.ID)
	imports, _ = f.s.collectRequests(f.c)
	if imports[0].Urgency != postImportUrgency-yardInboundPenalty {
		t.Errorf("shipyard urgency = %d", imports[0].Urgency)
	}
}

func matchingFixture(t *testing.T) (*fixture, *industry.Station, *industry.Station, []*industry.CargoShip) {
	f := newFixture(t)
	a := f.station(industry.StationTrade, 1)
	b := f.station(industry.StationTrade, 2)
	a.Ledger.Amount[economy.Steel] = 1000
	a.Ledger.PerSecond[economy.Steel] = 10
	ships := []*industry.CargoShip{f.ship(1, f.pos(a.ID)), f.ship(1, f.pos(a.ID))}
	return f, a, b, ships
}

func TestMatchingPairsExporterWithImporter(t *testing.T) {
	f, a, b, ships := matchingFixture(t)
	imports, exports := f.s.collectRequests(f.c)
	idle := f.c.ShipsWithStatus(industry.ShipIdle)

	res := f.s.matchTrades(f.c, &imports, &exports, &idle)
	if res.matches != 1 || len(res.intents) != 1 || res.failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	in := res.intents[0]
	if in.Kind != IntentAssignCargo || in.Ship != ships[0].ID || in.Origin != a.ID || in.Destination != b.ID {
		t.Errorf("intent = %+v", in)
	}
	if len(idle) != 1 || idle[0] != ships[1] {
		t.Errorf("consumed transport not removed")
	}
	for _, r := range append(imports, exports...) {
		if r.Processed {
			t.Errorf("processed request left in list: %+v", r)
		}
	}
}

func TestMatchingIsIdempotent(t *testing.T) {
	f, _, _, _ := matchingFixture(t)
	imports, exports := f.s.collectRequests(f.c)
	idle := f.c.ShipsWithStatus(industry.ShipIdle)
	f.s.matchTrades(f.c, &imports, &exports, &idle)

	again := f.s.matchTrades(f.c, &imports, &exports, &idle)
	if again.matches != 0 || len(again.intents) != 0 {
		t.Errorf("second run matched %d (%d intents)", again.matches, len(again.intents))
	}
}

func TestPlanTwiceWithoutTickAddsNothing(t *testing.T) {
	f, a, _, ships := matchingFixture(t)
	f.s.Plan(5)
	first := f.s.Pending()
	if first == 0 {
		t.Fatal("plan produced no intents")
	}
	f.s.Plan(10)
	if f.s.Pending() != first {
		t.Errorf("pending %d -> %d after second plan", first, f.s.Pending())
	}

	f.s.Tick(11)
	if ships[0].Status == industry.ShipIdle || ships[0].Origin != a.ID {
		t.Errorf("ship after apply = %+v", ships[0])
	}
	if f.s.Pending() != 0 {
		t.Errorf("queue not drained: %d", f.s.Pending())
	}
}

func TestDirectSendSkipsExporter(t *testing.T) {
	f, _, _, ships := matchingFixture(t)
	ships[0].Hold.Amount[economy.Water] = 80

	imports, exports := f.s.collectRequests(f.c)
	idle := f.c.ShipsWithStatus(industry.ShipIdle)
	res := f.s.matchTrades(f.c, &imports, &exports, &idle)

	direct := false
	for _, in := range res.intents {
		if in.Ship == ships[0].ID && in.Origin == 0 {
			direct = true
		}
	}
	if !direct {
		t.Errorf("loaded ship was not sent directly: %+v", res.intents)
	}
}

func TestUnmatchedImportsBuildPressure(t *testing.T) {
	f := newFixture(t)
	f.station(industry.StationTrade, 1)

	imports, exports := f.s.collectRequests(f.c)
	want := len(imports)
	var idle []*industry.CargoShip
	res := f.s.matchTrades(f.c, &imports, &exports, &idle)
	if res.failed != want {
		t.Errorf("failed = %d, want %d", res.failed, want)
	}

	f.s.Plan(5)
	f.s.applyIntents()
	if f.c.CargoShipBuildCounter != want {
		t.Errorf("build counter = %d, want %d", f.c.CargoShipBuildCounter, want)
	}
}
