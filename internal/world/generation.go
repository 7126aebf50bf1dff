// Galaxy generation using layered simplex noise.
// Planets sit on a jittered grid; noise decides links, ownership,
// extractors and garrisons.
package world

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/civic-industry/internal/economy"
)

// Factions created by Generate.
const (
	FactionPlayer    FactionID = 1 // patron empire the civilians trade with
	FactionCivilians FactionID = 2 // the minor faction running the engine
	FactionHostile   FactionID = 3 // hostile AI empire
	FactionRaiders   FactionID = 4 // raiders preying on cargo convoys
)

// GenConfig holds galaxy generation parameters.
type GenConfig struct {
	Planets        int   // number of planets
	Seed           int64 // random seed (0 = random)
	WormholeRadius int   // distance of wormholes from the command point
	Spacing        int   // galaxy-map distance between grid cells
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Planets:        36,
		Seed:           0,
		WormholeRadius: 14000,
		Spacing:        100,
	}
}

// SmallTestConfig returns a tiny galaxy for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Planets:        9,
		Seed:           42,
		WormholeRadius: 14000,
		Spacing:        100,
	}
}

// Generate creates a complete galaxy with planets, links, factions and entities.
func Generate(cfg GenConfig) *Galaxy {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.Planets < 2 {
		cfg.Planets = 2
	}
	if cfg.WormholeRadius <= 0 {
		cfg.WormholeRadius = 14000
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = 100
	}

	// Independent layers for layout, control and wealth.
	jitterNoise := opensimplex.NewNormalized(seed)
	controlNoise := opensimplex.NewNormalized(seed + 1)
	wealthNoise := opensimplex.NewNormalized(seed + 2)

	g := NewGalaxy()
	seedFactions(g)

	cols := 1
	for cols*cols < cfg.Planets {
		cols++
	}

	for i := 0; i < cfg.Planets; i++ {
		col, row := i%cols, i/cols
		x, y := float64(col), float64(row)
		jx := int((octaveNoise(jitterNoise, x, y, 2, 0.9, 0.5) - 0.5) * float64(cfg.Spacing) / 2)
		jy := int((octaveNoise(jitterNoise, y, x, 2, 0.9, 0.5) - 0.5) * float64(cfg.Spacing) / 2)

		// Player space on the west edge, hostile space on the east edge,
		// noise blurs the frontier.
		frontier := float64(col)/float64(max(1, cols-1))*0.7 + octaveNoise(controlNoise, x, y, 3, 0.35, 0.5)*0.3
		owner := NoFaction
		switch {
		case frontier < 0.4:
			owner = FactionPlayer
		case frontier > 0.62:
			owner = FactionHostile
		}

		id := PlanetID(i + 1)
		g.AddPlanet(&Planet{
			ID:    id,
			Name:  fmt.Sprintf("P-%02d", id),
			Pos:   Point{X: col*cfg.Spacing + jx, Y: row*cfg.Spacing + jy},
			Owner: owner,
			Level: 1 + int(octaveNoise(wealthNoise, x, y, 2, 0.5, 0.5)*3),
		})
	}

	// Grid links keep the galaxy connected; noise adds diagonals.
	for i := 0; i < cfg.Planets; i++ {
		col := i % cols
		a := PlanetID(i + 1)
		if col+1 < cols && i+1 < cfg.Planets {
			g.Link(a, PlanetID(i+2))
		}
		if i+cols < cfg.Planets {
			g.Link(a, PlanetID(i+cols+1))
		}
		if col+1 < cols && i+cols+1 < cfg.Planets &&
			octaveNoise(jitterNoise, float64(i), 0.5, 1, 0.7, 0.5) > 0.62 {
			g.Link(a, PlanetID(i+cols+2))
		}
	}
	g.Finalize()

	for _, id := range g.PlanetIDs() {
		p := g.Planets[id]
		placeWormholes(g, p, cfg.WormholeRadius)
		x, y := float64(p.Pos.X)/float64(cfg.Spacing), float64(p.Pos.Y)/float64(cfg.Spacing)
		wealth := octaveNoise(wealthNoise, x, y, 3, 0.6, 0.5)
		placeExtractors(g, p, wealth)
		placeGarrison(g, p, octaveNoise(controlNoise, y, x, 2, 0.8, 0.5))
	}

	queueOpeningWaves(g, seed)
	return g
}

func seedFactions(g *Galaxy) {
	g.AddFaction(&Faction{ID: FactionPlayer, Name: "Concord", AttackBudget: 0})
	g.AddFaction(&Faction{ID: FactionCivilians, Name: "Free Traders", AttackBudget: 0})
	g.AddFaction(&Faction{ID: FactionHostile, Name: "Dominion", AttackBudget: 3000})
	g.AddFaction(&Faction{ID: FactionRaiders, Name: "Reavers", AttackBudget: 2000})

	g.SetStance(FactionPlayer, FactionCivilians, StanceAllied)
	g.SetStance(FactionPlayer, FactionHostile, StanceHostile)
	g.SetStance(FactionCivilians, FactionHostile, StanceHostile)
	g.SetStance(FactionPlayer, FactionRaiders, StanceHostile)
	g.SetStance(FactionCivilians, FactionRaiders, StanceHostile)
}

// placeWormholes puts one wormhole per link on the side facing the neighbor.
func placeWormholes(g *Galaxy, p *Planet, radius int) {
	for _, n := range p.Links {
		other := g.Planets[n]
		g.Spawn(SpawnSpec{
			Type:     "wormhole",
			Kind:     KindWormhole,
			Planet:   p.ID,
			Pos:      OffsetToward(p.CommandPoint, radius, p.Pos, other.Pos),
			LinkTo:   n,
			Resource: NoResource,
		})
	}
}

// placeExtractors seeds zero to three extractors depending on local wealth.
func placeExtractors(g *Galaxy, p *Planet, wealth float64) {
	count := int(wealth * 4)
	if count > 3 {
		count = 3
	}
	for i, pos := range PointsAround(p.CommandPoint, 5000, count, int(p.ID)%12) {
		g.Spawn(SpawnSpec{
			Type:     "extractor",
			Kind:     KindExtractor,
			Owner:    p.Owner,
			Planet:   p.ID,
			Pos:      pos,
			Resource: (int(p.ID)*3 + i) % economy.NumKinds,
		})
	}
}

// placeGarrison adds guard structures, fleets and roaming threats.
func placeGarrison(g *Galaxy, p *Planet, heat float64) {
	guardStrength := 500 + int(heat*2500)
	switch p.Owner {
	case FactionPlayer:
		g.Spawn(SpawnSpec{Type: "guard_post", Kind: KindStructure, Owner: FactionPlayer, Planet: p.ID,
			Pos: p.CommandPoint, Strength: guardStrength / 2, Resource: NoResource})
		g.Spawn(SpawnSpec{Type: "frigate_squadron", Kind: KindShip, Owner: FactionPlayer, Planet: p.ID,
			Pos: p.CommandPoint, Strength: 400 + int(heat*600), Mobile: true, Resource: NoResource})
		if heat > 0.6 {
			g.Spawn(SpawnSpec{Type: "militia_barracks", Kind: KindBarracks, Owner: FactionPlayer, Planet: p.ID,
				Pos: StationSite(p, 6), Resource: NoResource})
		}
	case FactionHostile:
		g.Spawn(SpawnSpec{Type: "fortress", Kind: KindStructure, Owner: FactionHostile, Planet: p.ID,
			Pos: p.CommandPoint, Strength: guardStrength, Resource: NoResource})
		g.Spawn(SpawnSpec{Type: "raider_pack", Kind: KindShip, Owner: FactionHostile, Planet: p.ID,
			Pos: p.CommandPoint, Strength: 300 + int(heat*900), Mobile: true, Resource: NoResource})
		if int(p.ID)%3 == 0 {
			g.Spawn(SpawnSpec{Type: "warp_gate", Kind: KindReinforcementPoint, Owner: FactionHostile, Planet: p.ID,
				Pos: StationSite(p, 3), Strength: 200, Resource: NoResource})
		}
	default:
		if heat > 0.7 {
			g.Spawn(SpawnSpec{Type: "threat_fleet", Kind: KindShip, Owner: FactionHostile, Planet: p.ID,
				Pos: p.CommandPoint, Strength: 600 + int(heat*800), Mobile: true,
				Behavior: BehaviorThreat, Resource: NoResource})
		}
		if heat < 0.2 {
			g.Spawn(SpawnSpec{Type: "cloaked_stalker", Kind: KindShip, Owner: FactionHostile, Planet: p.ID,
				Pos: p.CommandPoint, Strength: 400, Mobile: true, Cloaked: true,
				Behavior: BehaviorHunter, Resource: NoResource})
		}
	}
}

// queueOpeningWaves schedules a few early hostile waves against player planets.
func queueOpeningWaves(g *Galaxy, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))
	var targets []PlanetID
	for _, id := range g.PlanetIDs() {
		if g.Planets[id].Owner == FactionPlayer {
			targets = append(targets, id)
		}
	}
	if len(targets) == 0 {
		return
	}
	budget := g.Factions[FactionHostile].AttackBudget
	for i := 0; i < 3; i++ {
		g.QueueWave(AttackWave{
			Faction:    FactionHostile,
			Target:     targets[rng.Intn(len(targets))],
			Strength:   budget/2 + rng.Intn(budget/2+1),
			DueSeconds: 600 + i*900 + rng.Intn(300),
		})
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// OwnerCounts returns how many planets each faction controls.
func OwnerCounts(g *Galaxy) map[FactionID]int {
	counts := make(map[FactionID]int)
	for _, p := range g.Planets {
		counts[p.Owner]++
	}
	return counts
}
