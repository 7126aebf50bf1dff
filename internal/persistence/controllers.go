package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

type controllerRow struct {
	Idx                   int    `db:"idx"`
	Faction               int32  `db:"faction"`
	RaiderFaction         int32  `db:"raider_faction"`
	HomePlanet            int32  `db:"home_planet"`
	CargoShipBuildCounter int    `db:"cargo_ship_build_counter"`
	MilitiaBuildCounter   int    `db:"militia_build_counter"`
	FailedMatches         int    `db:"failed_matches"`
	HomeRebuildSeconds    int    `db:"home_rebuild_seconds"`
	CostIntensity         int    `db:"cost_intensity"`
	TradeRebuildJSON      string `db:"trade_rebuild_json"`
	ScannedBarracksJSON   string `db:"scanned_barracks_json"`
	RaidJSON              string `db:"raid_json"`
	RNGJSON               string `db:"rng_json"`
	Version               int    `db:"version"`
}

type stationRow struct {
	ID         int32  `db:"id"`
	Controller int    `db:"controller"`
	Seq        int    `db:"seq"`
	Kind       uint8  `db:"kind"`
	Planet     int32  `db:"planet"`
	LedgerJSON string `db:"ledger_json"`
	Version    int    `db:"version"`
}

type shipRow struct {
	ID          int32  `db:"id"`
	Controller  int    `db:"controller"`
	Seq         int    `db:"seq"`
	Status      uint8  `db:"status"`
	Origin      int32  `db:"origin"`
	Destination int32  `db:"destination"`
	LoadTimer   int    `db:"load_timer"`
	HoldJSON    string `db:"hold_json"`
	Version     int    `db:"version"`
}

type leaderRow struct {
	ID               int32  `db:"id"`
	Controller       int    `db:"controller"`
	Seq              int    `db:"seq"`
	Status           uint8  `db:"status"`
	Centerpiece      int32  `db:"centerpiece"`
	PlanetFocus      int32  `db:"planet_focus"`
	EntityFocus      int32  `db:"entity_focus"`
	ShipTypesJSON    string `db:"ship_types_json"`
	ShipsJSON        string `db:"ships_json"`
	ShipCapacityJSON string `db:"ship_capacity_json"`
	CostMultiplier   int    `db:"cost_multiplier"`
	CapMultiplier    int    `db:"cap_multiplier"`
	BuiltFromHQ      bool   `db:"built_from_hq"`
	Shipyard         bool   `db:"shipyard"`
	StockpileJSON    string `db:"stockpile_json"`
	Version          int    `db:"version"`
}

// homeSeq marks the home station row; trade stations count up from 0.
const homeSeq = -1

// SaveControllers writes every controller and its holdings (full replace).
func (db *DB) SaveControllers(ctrls []*industry.Controller) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"controllers", "stations", "cargo_ships", "militia_leaders"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, c := range ctrls {
		if err := saveController(tx, i, c); err != nil {
			return fmt.Errorf("controller %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func saveController(tx *sqlx.Tx, idx int, c *industry.Controller) error {
	row := controllerRow{
		Idx:                   idx,
		Faction:               int32(c.Faction),
		RaiderFaction:         int32(c.RaiderFaction),
		HomePlanet:            int32(c.HomePlanet),
		CargoShipBuildCounter: c.CargoShipBuildCounter,
		MilitiaBuildCounter:   c.MilitiaBuildCounter,
		FailedMatches:         c.FailedMatches,
		HomeRebuildSeconds:    c.HomeStationRebuildSeconds,
		CostIntensity:         c.CostIntensity,
		Version:               industry.CurrentVersion,
	}
	var err error
	if row.TradeRebuildJSON, err = encode(c.TradeStationRebuild); err != nil {
		return err
	}
	if row.ScannedBarracksJSON, err = encode(c.ScannedBarracks); err != nil {
		return err
	}
	if row.RaidJSON, err = encode(c.Raid); err != nil {
		return err
	}
	if row.RNGJSON, err = encode(c.RNG); err != nil {
		return err
	}
	if _, err := tx.NamedExec(`INSERT INTO controllers
		(idx, faction, raider_faction, home_planet, cargo_ship_build_counter, militia_build_counter,
		 failed_matches, home_rebuild_seconds, cost_intensity, trade_rebuild_json,
		 scanned_barracks_json, raid_json, rng_json, version)
		VALUES (:idx, :faction, :raider_faction, :home_planet, :cargo_ship_build_counter, :militia_build_counter,
		 :failed_matches, :home_rebuild_seconds, :cost_intensity, :trade_rebuild_json,
		 :scanned_barracks_json, :raid_json, :rng_json, :version)`, row); err != nil {
		return fmt.Errorf("insert controller: %w", err)
	}

	if c.Home != nil {
		if err := saveStation(tx, idx, homeSeq, c.Home); err != nil {
			return err
		}
	}
	for seq, st := range c.TradeStations {
		if err := saveStation(tx, idx, seq, st); err != nil {
			return err
		}
	}

	for seq, s := range c.Ships {
		hold, err := encode(s.Hold)
		if err != nil {
			return err
		}
		_, err = tx.NamedExec(`INSERT INTO cargo_ships
			(id, controller, seq, status, origin, destination, load_timer, hold_json, version)
			VALUES (:id, :controller, :seq, :status, :origin, :destination, :load_timer, :hold_json, :version)`,
			shipRow{
				ID: int32(s.ID), Controller: idx, Seq: seq, Status: uint8(s.Status),
				Origin: int32(s.Origin), Destination: int32(s.Destination), LoadTimer: s.LoadTimer,
				HoldJSON: hold, Version: industry.CurrentVersion,
			})
		if err != nil {
			return fmt.Errorf("insert cargo ship %d: %w", s.ID, err)
		}
	}

	for seq, m := range c.Leaders {
		lr := leaderRow{
			ID: int32(m.ID), Controller: idx, Seq: seq, Status: uint8(m.Status),
			Centerpiece: int32(m.Centerpiece), PlanetFocus: int32(m.PlanetFocus), EntityFocus: int32(m.EntityFocus),
			CostMultiplier: m.CostMultiplier, CapMultiplier: m.CapMultiplier,
			BuiltFromHQ: m.BuiltFromHQ, Shipyard: m.Shipyard, Version: industry.CurrentVersion,
		}
		if lr.ShipTypesJSON, err = encode(m.ShipTypes); err != nil {
			return err
		}
		if lr.ShipsJSON, err = encode(m.Ships); err != nil {
			return err
		}
		if lr.ShipCapacityJSON, err = encode(m.ShipCapacity); err != nil {
			return err
		}
		if lr.StockpileJSON, err = encode(m.Stockpile); err != nil {
			return err
		}
		_, err = tx.NamedExec(`INSERT INTO militia_leaders
			(id, controller, seq, status, centerpiece, planet_focus, entity_focus, ship_types_json,
			 ships_json, ship_capacity_json, cost_multiplier, cap_multiplier, built_from_hq, shipyard,
			 stockpile_json, version)
			VALUES (:id, :controller, :seq, :status, :centerpiece, :planet_focus, :entity_focus, :ship_types_json,
			 :ships_json, :ship_capacity_json, :cost_multiplier, :cap_multiplier, :built_from_hq, :shipyard,
			 :stockpile_json, :version)`, lr)
		if err != nil {
			return fmt.Errorf("insert militia leader %d: %w", m.ID, err)
		}
	}
	return nil
}

func saveStation(tx *sqlx.Tx, idx, seq int, st *industry.Station) error {
	ledger, err := encode(st.Ledger)
	if err != nil {
		return err
	}
	_, err = tx.NamedExec(`INSERT INTO stations (id, controller, seq, kind, planet, ledger_json, version)
		VALUES (:id, :controller, :seq, :kind, :planet, :ledger_json, :version)`,
		stationRow{
			ID: int32(st.ID), Controller: idx, Seq: seq, Kind: uint8(st.Kind),
			Planet: int32(st.Planet), LedgerJSON: ledger, Version: industry.CurrentVersion,
		})
	if err != nil {
		return fmt.Errorf("insert station %d: %w", st.ID, err)
	}
	return nil
}

// LoadControllers restores every saved controller in its original order.
// Records from older versions are upgraded; seed backs a missing RNG state.
func (db *DB) LoadControllers(seed uint64) ([]*industry.Controller, error) {
	var rows []controllerRow
	if err := db.conn.Select(&rows, "SELECT * FROM controllers ORDER BY idx"); err != nil {
		return nil, fmt.Errorf("select controllers: %w", err)
	}

	out := make([]*industry.Controller, 0, len(rows))
	byIdx := make(map[int]*industry.Controller, len(rows))
	for _, r := range rows {
		c := &industry.Controller{
			Faction:                   world.FactionID(r.Faction),
			RaiderFaction:             world.FactionID(r.RaiderFaction),
			HomePlanet:                world.PlanetID(r.HomePlanet),
			CargoShipBuildCounter:     r.CargoShipBuildCounter,
			MilitiaBuildCounter:       r.MilitiaBuildCounter,
			FailedMatches:             r.FailedMatches,
			HomeStationRebuildSeconds: r.HomeRebuildSeconds,
			CostIntensity:             r.CostIntensity,
			Version:                   r.Version,
		}
		if err := decode(r.TradeRebuildJSON, &c.TradeStationRebuild); err != nil {
			return nil, err
		}
		if err := decode(r.ScannedBarracksJSON, &c.ScannedBarracks); err != nil {
			return nil, err
		}
		if err := decode(r.RaidJSON, &c.Raid); err != nil {
			return nil, err
		}
		if r.RNGJSON != "" && r.RNGJSON != "null" {
			if err := decode(r.RNGJSON, &c.RNG); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
		byIdx[r.Idx] = c
	}

	var stations []stationRow
	if err := db.conn.Select(&stations, "SELECT * FROM stations ORDER BY controller, seq"); err != nil {
		return nil, fmt.Errorf("select stations: %w", err)
	}
	for _, r := range stations {
		c, ok := byIdx[r.Controller]
		if !ok {
			continue
		}
		st := &industry.Station{
			ID: world.EntityID(r.ID), Kind: industry.StationKind(r.Kind),
			Planet: world.PlanetID(r.Planet), Version: r.Version,
		}
		if err := decode(r.LedgerJSON, &st.Ledger); err != nil {
			return nil, err
		}
		if r.Seq == homeSeq {
			c.Home = st
		} else {
			c.TradeStations = append(c.TradeStations, st)
		}
	}

	var ships []shipRow
	if err := db.conn.Select(&ships, "SELECT * FROM cargo_ships ORDER BY controller, seq"); err != nil {
		return nil, fmt.Errorf("select cargo ships: %w", err)
	}
	for _, r := range ships {
		c, ok := byIdx[r.Controller]
		if !ok {
			continue
		}
		s := &industry.CargoShip{
			ID: world.EntityID(r.ID), Status: industry.ShipStatus(r.Status),
			Origin: world.EntityID(r.Origin), Destination: world.EntityID(r.Destination),
			LoadTimer: r.LoadTimer, Version: r.Version,
		}
		if err := decode(r.HoldJSON, &s.Hold); err != nil {
			return nil, err
		}
		c.Ships = append(c.Ships, s)
	}

	var leaders []leaderRow
	if err := db.conn.Select(&leaders, "SELECT * FROM militia_leaders ORDER BY controller, seq"); err != nil {
		return nil, fmt.Errorf("select militia leaders: %w", err)
	}
	for _, r := range leaders {
		c, ok := byIdx[r.Controller]
		if !ok {
			continue
		}
		m := &industry.MilitiaLeader{
			ID: world.EntityID(r.ID), Status: industry.LeaderStatus(r.Status),
			Centerpiece: world.EntityID(r.Centerpiece), PlanetFocus: world.PlanetID(r.PlanetFocus),
			EntityFocus:    world.EntityID(r.EntityFocus),
			CostMultiplier: r.CostMultiplier, CapMultiplier: r.CapMultiplier,
			BuiltFromHQ: r.BuiltFromHQ, Shipyard: r.Shipyard, Version: r.Version,
		}
		for _, f := range []struct {
			data string
			into any
		}{
			{r.ShipTypesJSON, &m.ShipTypes},
			{r.ShipsJSON, &m.Ships},
			{r.ShipCapacityJSON, &m.ShipCapacity},
			{r.StockpileJSON, &m.Stockpile},
		} {
			if err := decode(f.data, f.into); err != nil {
				return nil, err
			}
		}
		c.Leaders = append(c.Leaders, m)
	}

	for i, c := range out {
		c.Upgrade(seed + uint64(i))
	}
	return out, nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %T: %w", v, err)
	}
	return string(data), nil
}

func decode(data string, into any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), into); err != nil {
		return fmt.Errorf("decode %T: %w", into, err)
	}
	return nil
}
