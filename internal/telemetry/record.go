// Package telemetry writes per-cycle controller records to CSV for offline
// analysis of convoy and militia behavior.
package telemetry

import (
	"github.com/talgya/civic-industry/internal/industry"
)

// CycleRecord is one controller's state after a planning pass.
type CycleRecord struct {
	Tick    uint64 `csv:"tick"`
	Faction int32  `csv:"faction"`

	HomeStation   bool `csv:"home_station"`
	TradeStations int  `csv:"trade_stations"`

	ShipsIdle      int `csv:"ships_idle"`
	ShipsLoading   int `csv:"ships_loading"`
	ShipsUnloading int `csv:"ships_unloading"`
	ShipsBuilding  int `csv:"ships_building"`
	ShipsPathing   int `csv:"ships_pathing"`
	ShipsEnroute   int `csv:"ships_enroute"`

	Leaders         int `csv:"leaders"`
	LeadersIdle     int `csv:"leaders_idle"`
	LeadersMoving   int `csv:"leaders_moving"`
	LeadersDefend   int `csv:"leaders_defending"`
	LeadersPatrol   int `csv:"leaders_patrolling"`
	MilitiaUnits    int `csv:"militia_units"`
	MilitiaCounter  int `csv:"militia_build_counter"`
	CargoCounter    int `csv:"cargo_build_counter"`
	Imports         int `csv:"imports"`
	Exports         int `csv:"exports"`
	Matches         int `csv:"matches"`
	FailedMatches   int `csv:"failed_matches_total"`
	TopThreat       int `csv:"top_threat"`
	TopThreatPlanet int `csv:"top_threat_planet"`
	RaidTimer       int `csv:"raid_timer"`
	StrikeGroups    int `csv:"strike_groups"`
}

// NewCycleRecord summarizes a controller.
func NewCycleRecord(tick uint64, c *industry.Controller) CycleRecord {
	r := CycleRecord{
		Tick:           tick,
		Faction:        int32(c.Faction),
		HomeStation:    c.Home != nil,
		TradeStations:  len(c.TradeStations),
		Leaders:        len(c.Leaders),
		MilitiaCounter: c.MilitiaBuildCounter,
		CargoCounter:   c.CargoShipBuildCounter,
		Imports:        len(c.Imports),
		Exports:        len(c.Exports),
		Matches:        c.Matched,
		FailedMatches:  c.FailedMatches,
		RaidTimer:      c.Raid.Timer,
		StrikeGroups:   len(c.Raid.StrikeGroups),
	}

	for _, s := range c.Ships {
		switch s.Status {
		case industry.ShipIdle:
			r.ShipsIdle++
		case industry.ShipLoading:
			r.ShipsLoading++
		case industry.ShipUnloading:
			r.ShipsUnloading++
		case industry.ShipBuilding:
			r.ShipsBuilding++
		case industry.ShipPathing:
			r.ShipsPathing++
		case industry.ShipEnroute:
			r.ShipsEnroute++
		}
	}

	for _, m := range c.Leaders {
		switch m.Status {
		case industry.LeaderIdle:
			r.LeadersIdle++
		case industry.LeaderDefending:
			r.LeadersDefend++
		case industry.LeaderPatrolling:
			r.LeadersPatrol++
		default:
			r.LeadersMoving++
		}
		r.MilitiaUnits += len(m.AllUnits())
	}

	if len(c.Reports) > 0 {
		r.TopThreat = c.Reports[0].Total()
		r.TopThreatPlanet = int(c.Reports[0].Planet)
	}
	return r
}

// CycleRecords summarizes every controller in order.
func CycleRecords(tick uint64, controllers []*industry.Controller) []CycleRecord {
	out := make([]CycleRecord, 0, len(controllers))
	for _, c := range controllers {
		out = append(out, NewCycleRecord(tick, c))
	}
	return out
}
