// Package industry holds the data model of a civilian industry controller:
// its stations, cargo ships, militia leaders and the ephemeral trade
// requests and threat reports rebuilt every cycle. Everything references
// everything else by entity id; lookups return (value, ok).
package industry

import (
	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/world"
)

// CurrentVersion is written with every persisted record. Older records get
// defaults filled on load (see Upgrade methods).
const CurrentVersion = 2

// StationKind distinguishes home and trade stations.
type StationKind uint8

const (
	StationHome StationKind = iota
	StationTrade
)

func (k StationKind) String() string {
	if k == StationHome {
		return "home"
	}
	return "trade"
}

// Station is a stationary ledger holder.
type Station struct {
	ID      world.EntityID `json:"id"`
	Kind    StationKind    `json:"kind"`
	Planet  world.PlanetID `json:"planet"`
	Ledger  economy.Ledger `json:"ledger"`
	Version int            `json:"version"`
}

// NewStation creates a station with the large station capacity in every kind.
func NewStation(id world.EntityID, kind StationKind, planet world.PlanetID) *Station {
	return &Station{
		ID:      id,
		Kind:    kind,
		Planet:  planet,
		Ledger:  economy.NewLedger(economy.ShipCapacity * economy.StationCapacityFactor),
		Version: CurrentVersion,
	}
}

// Upgrade fills fields that older saves did not carry.
func (s *Station) Upgrade() {
	if s.Version < 2 {
		for k := range s.Ledger.Capacity {
			if s.Ledger.Capacity[k] == 0 {
				s.Ledger.Capacity[k] = economy.ShipCapacity * economy.StationCapacityFactor
			}
		}
		s.Ledger.Clamp()
	}
	s.Version = CurrentVersion
}
