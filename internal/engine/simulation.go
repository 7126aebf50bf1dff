// Simulation ties the controllers to the host galaxy and runs them each tick.
package engine

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgya/civic-industry/internal/catalog"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Host is everything the engine needs from the surrounding galaxy.
// world.Galaxy implements it. Planning only calls the read methods.
type Host interface {
	Planet(id world.PlanetID) (*world.Planet, bool)
	PlanetIDs() []world.PlanetID
	Neighbors(id world.PlanetID) []world.PlanetID
	Hops(a, b world.PlanetID) int
	Path(a, b world.PlanetID) []world.PlanetID
	WormholeBetween(a, b world.PlanetID) (world.EntityID, bool)
	EntitiesOn(p world.PlanetID) []*world.Entity
	Entity(id world.EntityID) (*world.Entity, bool)
	Stance(a, b world.FactionID) world.Stance
	Faction(id world.FactionID) (*world.Faction, bool)
	AttackWaves() []world.AttackWave

	Spawn(spec world.SpawnSpec) world.EntityID
	Transform(id world.EntityID, newType string, kind world.Kind, strength int, mobile bool) (world.EntityID, bool)
	Despawn(id world.EntityID, reason world.DespawnReason) bool
	AddStack(id world.EntityID) bool
	RemoveStack(id world.EntityID) bool
	SetOrder(id world.EntityID, o world.Order) bool
	FlushReinforcements(p world.PlanetID, faction world.FactionID)
}

// Simulation holds every controller and the pending intent queue.
type Simulation struct {
	Host        Host
	Catalog     *catalog.Catalog
	Controllers []*industry.Controller
	LastTick    uint64

	queue []Intent
	seq   uint64
	rep   *reporter

	// Stats from the last planning pass.
	Stats SimStats
}

// SimStats tracks aggregate statistics across controllers.
type SimStats struct {
	Stations      int `json:"stations"`
	CargoShips    int `json:"cargo_ships"`
	Leaders       int `json:"leaders"`
	MilitiaUnits  int `json:"militia_units"`
	Matches       int `json:"matches"`
	FailedMatches int `json:"failed_matches"`
	TopThreat     int `json:"top_threat"`
}

// NewSimulation creates a Simulation over a host. The catalog defaults to
// the embedded one when nil.
func NewSimulation(h Host, cat *catalog.Catalog, controllers []*industry.Controller) *Simulation {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Simulation{
		Host:        h,
		Catalog:     cat,
		Controllers: controllers,
		rep:         newReporter(),
	}
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Pending returns the number of intents waiting for the next tick.
func (s *Simulation) Pending() int {
	return len(s.queue)
}

// Tick is the authoritative one-second pass. Queued intents are applied
// first, then every controller runs its systems in a fixed order.
func (s *Simulation) Tick(tick uint64) {
	s.LastTick = tick
	s.applyIntents()

	for i, c := range s.Controllers {
		s.guard(c, "tick", func() {
			s.reconcile(c)
			s.tickStations(c)
			c.SetReports(assessThreat(s.Host, c))
			s.tickLifecycle(i, c)
			s.tickMilitia(c)
			s.tickProduction(c)
			s.tickTransport(c)
			s.tickRaids(c)
		})
	}
}

// Plan is the slower planning pass. Each controller is planned on its own
// goroutine against read-only state; the resulting intents are merged in
// controller order and applied on the next Tick. If the previous plan has
// not been applied yet there is nothing new to decide.
func (s *Simulation) Plan(tick uint64) {
	if len(s.queue) > 0 {
		return
	}
	results := make([]planResult, len(s.Controllers))
	var wg sync.WaitGroup
	for i, c := range s.Controllers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.guard(c, "plan", func() {
				results[i] = s.planController(i, c)
			})
		}()
	}
	wg.Wait()

	stats := SimStats{}
	for i, c := range s.Controllers {
		r := results[i]
		c.Imports, c.Exports = r.imports, r.exports
		c.Matched = r.matches
		c.FailedMatches += r.failed
		for _, in := range r.intents {
			s.post(i, in)
		}
		stats.Matches += r.matches
		stats.FailedMatches += r.failed
		s.collectStats(c, &stats)
	}
	s.Stats = stats

	slog.Debug("planning pass",
		"tick", tick,
		"intents", len(s.queue),
		"matches", stats.Matches,
		"failed", stats.FailedMatches,
		"top_threat", humanize.Comma(int64(stats.TopThreat)),
	)
}

func (s *Simulation) collectStats(c *industry.Controller, st *SimStats) {
	if c.Home != nil {
		st.Stations++
	}
	st.Stations += len(c.TradeStations)
	st.CargoShips += len(c.Ships)
	st.Leaders += len(c.Leaders)
	for _, m := range c.Leaders {
		st.MilitiaUnits += len(m.AllUnits())
	}
	if len(c.Reports) > 0 && c.Reports[0].Total() > st.TopThreat {
		st.TopThreat = c.Reports[0].Total()
	}
}

// NotifyDestroyed is the host's death notification. Every controller that
// tracks one of the ids forgets it and starts rebuild timers as needed.
func (s *Simulation) NotifyDestroyed(ids ...world.EntityID) {
	for _, c := range s.Controllers {
		for _, id := range ids {
			handleLoss(c, id)
		}
	}
}

// LogSummary writes one line per controller.
func (s *Simulation) LogSummary(tick uint64) {
	for _, c := range s.Controllers {
		strength := 0
		for _, m := range c.Leaders {
			for _, u := range m.AllUnits() {
				if e, ok := s.Host.Entity(u); ok {
					strength += e.TotalStrength()
				}
			}
		}
		slog.Info("controller summary",
			"tick", tick,
			"faction", c.Faction,
			"home", c.Home != nil,
			"trade_stations", len(c.TradeStations),
			"cargo_ships", len(c.Ships),
			"leaders", len(c.Leaders),
			"militia_strength", humanize.Comma(int64(strength)),
			"failed_matches", c.FailedMatches,
		)
	}
}

// guard runs fn and keeps a panic in one controller from stopping the others.
func (s *Simulation) guard(c *industry.Controller, phase string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.rep.report("controller "+phase+" panic", "faction", c.Faction, "panic", r)
		}
	}()
	fn()
}
