package industry

import (
	"slices"

	"github.com/talgya/civic-industry/internal/world"
)

// ThreatReport is the per-planet strength snapshot recomputed every tick.
type ThreatReport struct {
	Planet            world.PlanetID `json:"planet"`
	MilitiaGuard      int            `json:"militia_guard"`
	MilitiaMobile     int            `json:"militia_mobile"`
	FriendlyGuard     int            `json:"friendly_guard"`
	FriendlyMobile    int            `json:"friendly_mobile"`
	CloakedHostile    int            `json:"cloaked_hostile"`
	NonCloakedHostile int            `json:"non_cloaked_hostile"`
	Wave              int            `json:"wave"`
}

// Total is the hostile threat on the planet.
func (r ThreatReport) Total() int {
	return r.CloakedHostile + r.NonCloakedHostile
}

// Defense is everything friendly on the planet.
func (r ThreatReport) Defense() int {
	return r.MilitiaGuard + r.MilitiaMobile + r.FriendlyGuard + r.FriendlyMobile
}

// SortReports orders by descending total, then planet id.
func SortReports(reports []ThreatReport) {
	slices.SortStableFunc(reports, func(a, b ThreatReport) int {
		if a.Total() != b.Total() {
			return b.Total() - a.Total()
		}
		return int(a.Planet) - int(b.Planet)
	})
}
