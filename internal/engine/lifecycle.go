package engine

import (
	"log/slog"
	"slices"

	"github.com/talgya/civic-industry/internal/catalog"
	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Lifecycle and station economy constants.
const (
	cargoShipCostPerShip = 120 // build counter needed per existing ship
	leaderCostPerLeader  = 60
	baseShipLimit        = 4
	shipsPerTradeStation = 2
	tradeStationReach    = 2 // hops from home a trade station may be built at
	maxTradeStations     = 6
	extractorRate        = 2
	homeSteelRate        = 3
	homeGoodsRate        = 2
	fuelUpkeep           = -1
)

// handleLoss reacts to an entity the controller tracked being destroyed.
// Stations start rebuild timers; everything else is simply forgotten.
// Ships or leaders that referenced the lost entity reset themselves on
// their next tick.
func handleLoss(c *industry.Controller, id world.EntityID) {
	if c.Home != nil && c.Home.ID == id {
		c.Home = nil
		c.HomeStationRebuildSeconds = industry.HomeStationRebuildSeconds
		slog.Info("home station lost", "faction", c.Faction, "rebuild_in", c.HomeStationRebuildSeconds)
		return
	}
	for _, st := range c.TradeStations {
		if st.ID == id {
			c.TradeStationRebuild[st.Planet] = industry.TradeStationRebuildSeconds
			slog.Info("trade station lost", "faction", c.Faction, "planet", st.Planet)
			break
		}
	}
	c.Remove(id)
}

// reconcile drops anything the host no longer knows about, in case a death
// notification was missed.
func (s *Simulation) reconcile(c *industry.Controller) {
	h := s.Host
	var gone []world.EntityID
	if c.Home != nil {
		if _, ok := h.Entity(c.Home.ID); !ok {
			gone = append(gone, c.Home.ID)
		}
	}
	for _, st := range c.TradeStations {
		if _, ok := h.Entity(st.ID); !ok {
			gone = append(gone, st.ID)
		}
	}
	for _, sh := range c.Ships {
		if _, ok := h.Entity(sh.ID); !ok {
			gone = append(gone, sh.ID)
		}
	}
	for _, m := range c.Leaders {
		if _, ok := h.Entity(m.ID); !ok {
			gone = append(gone, m.ID)
			continue
		}
		for _, u := range m.AllUnits() {
			if _, ok := h.Entity(u); !ok {
				gone = append(gone, u)
			}
		}
	}
	for _, g := range c.Raid.StrikeGroups {
		if _, ok := h.Entity(g.ID); !ok {
			gone = append(gone, g.ID)
		}
	}
	for _, w := range c.Raid.Wormholes {
		if _, ok := h.Entity(w); !ok {
			gone = append(gone, w)
		}
	}
	for _, id := range gone {
		handleLoss(c, id)
	}
}

// tickStations refreshes production rates and generates resources.
func (s *Simulation) tickStations(c *industry.Controller) {
	stations := slices.Clone(c.TradeStations)
	if c.Home != nil {
		stations = append([]*industry.Station{c.Home}, stations...)
	}
	for _, st := range stations {
		s.setRates(c, st)
		bonus := 0
		if p, ok := s.Host.Planet(st.Planet); ok && p.Level > 1 {
			bonus = p.Level - 1
		}
		st.Ledger.GenerateAll(bonus)
	}
}

// setRates derives per-second rates from friendly extractors on the planet.
// Home stations also produce construction materials; every station burns fuel
// unless it produces some.
func (s *Simulation) setRates(c *industry.Controller, st *industry.Station) {
	var rates [economy.NumKinds]int
	for _, e := range s.Host.EntitiesOn(st.Planet) {
		if e.Kind != world.KindExtractor || e.Resource < 0 || e.Resource >= economy.NumKinds {
			continue
		}
		if e.Owner != world.NoFaction && !friendly(s.Host, c, e.Owner) {
			continue
		}
		rates[e.Resource] += extractorRate
	}
	if st.Kind == industry.StationHome {
		rates[economy.Steel] += homeSteelRate
		rates[economy.Goods] += homeGoodsRate
	}
	if rates[economy.Fuel] == 0 {
		rates[economy.Fuel] = fuelUpkeep
	}
	st.Ledger.PerSecond = rates
}

// tickLifecycle counts down rebuild timers and builds stations, cargo ships
// and leaders when their counters allow.
func (s *Simulation) tickLifecycle(ci int, c *industry.Controller) {
	h := s.Host

	if c.Home == nil {
		if c.HomeStationRebuildSeconds > 0 {
			c.HomeStationRebuildSeconds--
		}
		if c.HomeStationRebuildSeconds <= 0 {
			if st, ok := s.spawnStation(c, industry.StationHome, c.HomePlanet); ok {
				c.Home = st
			}
		}
	}

	for p, t := range c.TradeStationRebuild {
		if t <= 1 {
			delete(c.TradeStationRebuild, p)
			continue
		}
		c.TradeStationRebuild[p] = t - 1
	}

	if c.Home != nil && len(c.TradeStations) < maxTradeStations {
		for _, p := range h.PlanetIDs() {
			if !s.tradeStationSite(c, p) {
				continue
			}
			if st, ok := s.spawnStation(c, industry.StationTrade, p); ok {
				c.TradeStations = append(c.TradeStations, st)
			}
			break // one per tick
		}
	}

	s.buildCargoShip(c)
	s.buildLeader(c)
	s.scanBarracks(c)
}

func (s *Simulation) tradeStationSite(c *industry.Controller, p world.PlanetID) bool {
	if _, cooling := c.TradeStationRebuild[p]; cooling {
		return false
	}
	if _, exists := c.TradeStationOn(p); exists {
		return false
	}
	planet, ok := s.Host.Planet(p)
	if !ok || !friendly(s.Host, c, planet.Owner) {
		return false
	}
	return s.Host.Hops(c.HomePlanet, p) <= tradeStationReach
}

func (s *Simulation) spawnStation(c *industry.Controller, kind industry.StationKind, p world.PlanetID) (*industry.Station, bool) {
	planet, ok := s.Host.Planet(p)
	if !ok {
		return nil, false
	}
	tag, slot := catalog.TradeStation, 1
	if kind == industry.StationHome {
		tag, slot = catalog.HomeStation, 0
	}
	entry, ok := s.Catalog.Resolve(tag)
	if !ok {
		s.rep.report("catalog missing station type", "tag", tag)
		return nil, false
	}
	id := s.Host.Spawn(world.SpawnSpec{
		Type:     entry.Type,
		Kind:     world.KindStation,
		Owner:    c.Faction,
		Planet:   p,
		Pos:      world.StationSite(planet, slot),
		Strength: entry.Strength,
		Resource: world.NoResource,
		Level:    planet.Level,
	})
	slog.Info("station built", "faction", c.Faction, "kind", kind.String(), "planet", p, "id", id)
	return industry.NewStation(id, kind, p), true
}

func (s *Simulation) shipLimit(c *industry.Controller) int {
	return baseShipLimit + shipsPerTradeStation*len(c.TradeStations)
}

// buildCargoShip spends the cargo ship build counter at the home station.
func (s *Simulation) buildCargoShip(c *industry.Controller) {
	if c.Home == nil || len(c.Ships) >= s.shipLimit(c) {
		return
	}
	c.CargoShipBuildCounter++
	if c.CargoShipBuildCounter < cargoShipCostPerShip*(len(c.Ships)+1) {
		return
	}
	home, ok := s.Host.Entity(c.Home.ID)
	if !ok {
		return
	}
	entry, ok := s.Catalog.Resolve(catalog.CargoShip)
	if !ok {
		s.rep.report("catalog missing cargo ship type")
		return
	}
	id := s.Host.Spawn(world.SpawnSpec{
		Type:     entry.Type,
		Kind:     world.KindCargoShip,
		Owner:    c.Faction,
		Planet:   home.Planet,
		Pos:      home.Pos,
		Strength: entry.Strength,
		Mobile:   true,
		Speed:    entry.Speed,
		Resource: world.NoResource,
	})
	c.Ships = append(c.Ships, industry.NewCargoShip(id))
	c.CargoShipBuildCounter = 0
	slog.Debug("cargo ship built", "faction", c.Faction, "id", id, "fleet", len(c.Ships))
}

// buildLeader spawns a militia leader at the home station once enough
// unserved objectives have piled up.
func (s *Simulation) buildLeader(c *industry.Controller) {
	if c.Home == nil || c.MilitiaBuildCounter < leaderCostPerLeader*(len(c.Leaders)+1) {
		return
	}
	home, ok := s.Host.Entity(c.Home.ID)
	if !ok {
		return
	}
	if id, ok := s.spawnLeader(c, home); ok {
		c.Leaders = append(c.Leaders, industry.NewMilitiaLeader(id, false))
		c.MilitiaBuildCounter = 0
	}
}

func (s *Simulation) spawnLeader(c *industry.Controller, at *world.Entity) (world.EntityID, bool) {
	entry, ok := s.Catalog.Resolve(catalog.Leader)
	if !ok {
		s.rep.report("catalog missing leader type")
		return world.NoEntity, false
	}
	id := s.Host.Spawn(world.SpawnSpec{
		Type:     entry.Type,
		Kind:     world.KindLeader,
		Owner:    c.Faction,
		Planet:   at.Planet,
		Pos:      at.Pos,
		Strength: entry.Strength,
		Mobile:   true,
		Speed:    entry.Speed,
		Resource: world.NoResource,
	})
	slog.Debug("militia leader built", "faction", c.Faction, "id", id, "planet", at.Planet)
	return id, true
}

// scanBarracks picks up allied barracks on planets with a trade station.
// Each one sponsors a single headquarters leader the first time it is seen.
func (s *Simulation) scanBarracks(c *industry.Controller) {
	for _, st := range c.TradeStations {
		for _, e := range s.Host.EntitiesOn(st.Planet) {
			if e.Kind != world.KindBarracks || !friendly(s.Host, c, e.Owner) {
				continue
			}
			if slices.Contains(c.ScannedBarracks, e.ID) {
				continue
			}
			c.ScannedBarracks = append(c.ScannedBarracks, e.ID)
			if id, ok := s.spawnLeader(c, e); ok {
				c.Leaders = append(c.Leaders, industry.NewMilitiaLeader(id, true))
			}
		}
	}
}
