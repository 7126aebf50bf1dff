package industry

import (
	"slices"

	"github.com/talgya/civic-industry/internal/entropy"
	"github.com/talgya/civic-industry/internal/world"
)

// Rebuild cooldowns in seconds.
const (
	HomeStationRebuildSeconds  = 600
	TradeStationRebuildSeconds = 300
	RaidTimerSeconds           = 1800
	RaidWarningSeconds         = 120
	DefaultCostIntensity       = 100
)

// StrikeGroup is a raider unit spawned by the raid generator and the cargo
// ship it is hunting.
type StrikeGroup struct {
	ID     world.EntityID `json:"id"`
	Target world.EntityID `json:"target"`
}

// RaidState drives the raid generator that threatens this controller's convoys.
type RaidState struct {
	Timer        int              `json:"timer"`
	Station      world.EntityID   `json:"station"` // trade station the warning wormholes surround
	Wormholes    []world.EntityID `json:"wormholes"`
	StrikeGroups []StrikeGroup    `json:"strike_groups"`
}

// Controller is one minor faction running the logistics and defense engine.
type Controller struct {
	Faction       world.FactionID `json:"faction"`
	RaiderFaction world.FactionID `json:"raider_faction"`
	HomePlanet    world.PlanetID  `json:"home_planet"`

	Home          *Station         `json:"home,omitempty"`
	TradeStations []*Station       `json:"trade_stations"`
	Ships         []*CargoShip     `json:"ships"`
	Leaders       []*MilitiaLeader `json:"leaders"`

	CargoShipBuildCounter int `json:"cargo_ship_build_counter"`
	MilitiaBuildCounter   int `json:"militia_build_counter"`
	FailedMatches         int `json:"failed_matches"`

	HomeStationRebuildSeconds int                    `json:"home_station_rebuild_seconds"`
	TradeStationRebuild       map[world.PlanetID]int `json:"trade_station_rebuild"`

	ScannedBarracks []world.EntityID `json:"scanned_barracks"`

	CostIntensity int             `json:"cost_intensity"` // percent
	Raid          RaidState       `json:"raid"`
	RNG           *entropy.Source `json:"rng"`
	Version       int             `json:"version"`

	// Ephemeral, rebuilt each cycle.
	Imports     []*TradeRequest `json:"-"`
	Exports     []*TradeRequest `json:"-"`
	Reports     []ThreatReport  `json:"-"`
	Matched     int             `json:"-"`
	reportIndex map[world.PlanetID]int
}

// NewController creates a controller with no stations yet.
func NewController(faction, raiders world.FactionID, homePlanet world.PlanetID, seed uint64) *Controller {
	return &Controller{
		Faction:             faction,
		RaiderFaction:       raiders,
		HomePlanet:          homePlanet,
		TradeStationRebuild: make(map[world.PlanetID]int),
		CostIntensity:       DefaultCostIntensity,
		Raid:                RaidState{Timer: RaidTimerSeconds},
		RNG:                 entropy.NewSource(seed),
		Version:             CurrentVersion,
	}
}

// Upgrade fills fields older saves did not carry, on the controller and
// everything it owns.
func (c *Controller) Upgrade(seed uint64) {
	if c.Version < 2 {
		if c.CostIntensity == 0 {
			c.CostIntensity = DefaultCostIntensity
		}
		if c.Raid.Timer == 0 {
			c.Raid.Timer = RaidTimerSeconds
		}
	}
	if c.TradeStationRebuild == nil {
		c.TradeStationRebuild = make(map[world.PlanetID]int)
	}
	if c.RNG == nil {
		c.RNG = entropy.NewSource(seed)
	}
	if c.Home != nil {
		c.Home.Upgrade()
	}
	for _, s := range c.TradeStations {
		s.Upgrade()
	}
	for _, s := range c.Ships {
		s.Upgrade()
	}
	for _, m := range c.Leaders {
		m.Upgrade()
	}
	c.Version = CurrentVersion
}

// ShipsWithStatus projects the ordered ship list onto one status bucket.
// Membership is derived, so a ship is always in exactly one bucket.
func (c *Controller) ShipsWithStatus(status ShipStatus) []*CargoShip {
	var out []*CargoShip
	for _, s := range c.Ships {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// LeadersWithStatus projects the ordered leader list onto one status.
func (c *Controller) LeadersWithStatus(status LeaderStatus) []*MilitiaLeader {
	var out []*MilitiaLeader
	for _, m := range c.Leaders {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

// Station looks up a home or trade station by id.
func (c *Controller) Station(id world.EntityID) (*Station, bool) {
	if id == world.NoEntity {
		return nil, false
	}
	if c.Home != nil && c.Home.ID == id {
		return c.Home, true
	}
	for _, s := range c.TradeStations {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// TradeStationOn returns the trade station on a planet.
func (c *Controller) TradeStationOn(p world.PlanetID) (*Station, bool) {
	for _, s := range c.TradeStations {
		if s.Planet == p {
			return s, true
		}
	}
	return nil, false
}

// Ship looks up a cargo ship.
func (c *Controller) Ship(id world.EntityID) (*CargoShip, bool) {
	for _, s := range c.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Leader looks up a militia leader by its current id.
func (c *Controller) Leader(id world.EntityID) (*MilitiaLeader, bool) {
	for _, m := range c.Leaders {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// FocusClaimed reports whether any leader other than except holds the claim.
func (c *Controller) FocusClaimed(focus, except world.EntityID) bool {
	if focus == world.NoEntity {
		return false
	}
	for _, m := range c.Leaders {
		if m.ID != except && m.EntityFocus == focus {
			return true
		}
	}
	return false
}

// Owns reports whether id is any station, ship, leader or militia unit of
// this controller.
func (c *Controller) Owns(id world.EntityID) bool {
	if _, ok := c.Station(id); ok {
		return true
	}
	if _, ok := c.Ship(id); ok {
		return true
	}
	for _, m := range c.Leaders {
		if m.ID == id || slices.Contains(m.AllUnits(), id) {
			return true
		}
	}
	return false
}

// Remove forgets an entity id everywhere it appears. Dependents that
// referenced it are reset on their next tick.
func (c *Controller) Remove(id world.EntityID) {
	if c.Home != nil && c.Home.ID == id {
		c.Home = nil
	}
	c.TradeStations = slices.DeleteFunc(c.TradeStations, func(s *Station) bool { return s.ID == id })
	c.Ships = slices.DeleteFunc(c.Ships, func(s *CargoShip) bool { return s.ID == id })
	c.Leaders = slices.DeleteFunc(c.Leaders, func(m *MilitiaLeader) bool { return m.ID == id })
	for _, m := range c.Leaders {
		m.RemoveUnit(id)
	}
	c.Raid.StrikeGroups = slices.DeleteFunc(c.Raid.StrikeGroups, func(g StrikeGroup) bool { return g.ID == id })
	c.Raid.Wormholes = slices.DeleteFunc(c.Raid.Wormholes, func(w world.EntityID) bool { return w == id })
}

// SetReports replaces the threat reports and rebuilds the planet index.
func (c *Controller) SetReports(reports []ThreatReport) {
	SortReports(reports)
	c.Reports = reports
	c.reportIndex = make(map[world.PlanetID]int, len(reports))
	for i, r := range reports {
		c.reportIndex[r.Planet] = i
	}
}

// Report returns the threat report for a planet, or a zero report.
func (c *Controller) Report(p world.PlanetID) ThreatReport {
	if i, ok := c.reportIndex[p]; ok {
		return c.Reports[i]
	}
	return ThreatReport{Planet: p}
}

// HasReport reports whether the planet was visited this tick.
func (c *Controller) HasReport(p world.PlanetID) bool {
	_, ok := c.reportIndex[p]
	return ok
}

// AnchorPlanet is where the threat walk starts: the home station's planet,
// falling back to the first trade station.
func (c *Controller) AnchorPlanet() (world.PlanetID, bool) {
	if c.Home != nil {
		return c.Home.Planet, true
	}
	if len(c.TradeStations) > 0 {
		return c.TradeStations[0].Planet, true
	}
	return world.NoPlanet, false
}

// InboundDeliveries counts ships heading to a station as destination.
func (c *Controller) InboundDeliveries(station world.EntityID) int {
	n := 0
	for _, s := range c.Ships {
		if s.Destination == station && s.Status != ShipIdle {
			n++
		}
	}
	return n
}

// InboundPickups counts ships heading to a station as origin.
func (c *Controller) InboundPickups(station world.EntityID) int {
	n := 0
	for _, s := range c.Ships {
		if s.Origin == station && (s.Status == ShipPathing || s.Status == ShipLoading) {
			n++
		}
	}
	return n
}
