package world

import (
	"fmt"
	"slices"
)

// Galaxy holds the complete host state: planets, links, entities and factions.
type Galaxy struct {
	Planets   map[PlanetID]*Planet   `json:"planets"`
	Entities  map[EntityID]*Entity   `json:"entities"`
	Factions  map[FactionID]*Faction `json:"factions"`
	Relations []Relation             `json:"relations"`
	Waves     []AttackWave           `json:"waves"`
	NextID    EntityID               `json:"next_id"`

	planetOrder []PlanetID
	hops        map[PlanetID]map[PlanetID]int
	stances     map[[2]FactionID]Stance
	byPlanet    map[PlanetID][]EntityID // sorted ids per planet
	destroyed   []EntityID
}

// NewGalaxy creates an empty galaxy.
func NewGalaxy() *Galaxy {
	return &Galaxy{
		Planets:  make(map[PlanetID]*Planet),
		Entities: make(map[EntityID]*Entity),
		Factions: make(map[FactionID]*Faction),
		NextID:   1,
		stances:  make(map[[2]FactionID]Stance),
		byPlanet: make(map[PlanetID][]EntityID),
	}
}

// AddPlanet inserts a planet. Call Finalize after the graph is complete.
func (g *Galaxy) AddPlanet(p *Planet) {
	g.Planets[p.ID] = p
}

// Link connects two planets in both directions.
func (g *Galaxy) Link(a, b PlanetID) {
	pa, okA := g.Planets[a]
	pb, okB := g.Planets[b]
	if !okA || !okB || a == b {
		return
	}
	if !pa.HasLink(b) {
		pa.Links = insertSorted(pa.Links, b)
	}
	if !pb.HasLink(a) {
		pb.Links = insertSorted(pb.Links, a)
	}
}

// AddFaction registers a faction.
func (g *Galaxy) AddFaction(f *Faction) {
	if f.Reinforcements == nil {
		f.Reinforcements = make(map[PlanetID]int)
	}
	g.Factions[f.ID] = f
}

// SetStance records a symmetric relation between two factions.
func (g *Galaxy) SetStance(a, b FactionID, s Stance) {
	for i, r := range g.Relations {
		if (r.A == a && r.B == b) || (r.A == b && r.B == a) {
			g.Relations[i].Stance = s
			g.stances[stanceKey(a, b)] = s
			return
		}
	}
	g.Relations = append(g.Relations, Relation{A: a, B: b, Stance: s})
	g.stances[stanceKey(a, b)] = s
}

// Finalize rebuilds every derived index: planet order, hop matrix, stance
// lookup and the per-planet entity index. Call after construction or load.
func (g *Galaxy) Finalize() {
	g.planetOrder = g.planetOrder[:0]
	for id, p := range g.Planets {
		g.planetOrder = append(g.planetOrder, id)
		slices.Sort(p.Links)
	}
	slices.Sort(g.planetOrder)
	g.buildHops()

	g.stances = make(map[[2]FactionID]Stance, len(g.Relations))
	for _, r := range g.Relations {
		g.stances[stanceKey(r.A, r.B)] = r.Stance
	}

	g.byPlanet = make(map[PlanetID][]EntityID)
	for id, e := range g.Entities {
		g.byPlanet[e.Planet] = append(g.byPlanet[e.Planet], id)
		if id >= g.NextID {
			g.NextID = id + 1
		}
	}
	for p := range g.byPlanet {
		slices.Sort(g.byPlanet[p])
	}
	for _, f := range g.Factions {
		if f.Reinforcements == nil {
			f.Reinforcements = make(map[PlanetID]int)
		}
	}
}

// Planet returns the planet with the given id.
func (g *Galaxy) Planet(id PlanetID) (*Planet, bool) {
	p, ok := g.Planets[id]
	return p, ok
}

// PlanetIDs returns every planet id in ascending order.
func (g *Galaxy) PlanetIDs() []PlanetID {
	return g.planetOrder
}

// Neighbors returns the linked neighbors of a planet in ascending id order.
func (g *Galaxy) Neighbors(id PlanetID) []PlanetID {
	p, ok := g.Planets[id]
	if !ok {
		return nil
	}
	return p.Links
}

// Entity returns a live entity.
func (g *Galaxy) Entity(id EntityID) (*Entity, bool) {
	if id == NoEntity {
		return nil, false
	}
	e, ok := g.Entities[id]
	return e, ok
}

// EntitiesOn returns the entities on a planet in ascending id order.
func (g *Galaxy) EntitiesOn(p PlanetID) []*Entity {
	ids := g.byPlanet[p]
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := g.Entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// WormholeBetween returns the wormhole on planet a that leads to planet b.
func (g *Galaxy) WormholeBetween(a, b PlanetID) (EntityID, bool) {
	for _, id := range g.byPlanet[a] {
		e := g.Entities[id]
		if e != nil && e.Kind == KindWormhole && e.LinkTo == b {
			return id, true
		}
	}
	return NoEntity, false
}

// Stance returns the relation between two factions. A faction is allied
// with itself; unknown pairs are neutral.
func (g *Galaxy) Stance(a, b FactionID) Stance {
	if a == b && a != NoFaction {
		return StanceAllied
	}
	return g.stances[stanceKey(a, b)]
}

// Faction returns a registered faction.
func (g *Galaxy) Faction(id FactionID) (*Faction, bool) {
	f, ok := g.Factions[id]
	return f, ok
}

// AttackWaves returns the queued attack waves.
func (g *Galaxy) AttackWaves() []AttackWave {
	return g.Waves
}

// QueueWave adds an attack wave.
func (g *Galaxy) QueueWave(w AttackWave) {
	g.Waves = append(g.Waves, w)
}

// Spawn creates an entity and returns its id.
func (g *Galaxy) Spawn(spec SpawnSpec) EntityID {
	id := g.NextID
	g.NextID++
	e := &Entity{
		ID:        id,
		Type:      spec.Type,
		Kind:      spec.Kind,
		Owner:     spec.Owner,
		Planet:    spec.Planet,
		Pos:       spec.Pos,
		Strength:  spec.Strength,
		Stacks:    1,
		Cloaked:   spec.Cloaked,
		Mobile:    spec.Mobile,
		Behavior:  spec.Behavior,
		LinkTo:    spec.LinkTo,
		Resource:  spec.Resource,
		Level:     spec.Level,
		Speed:     spec.Speed,
		Temporary: spec.Temporary,
	}
	g.Entities[id] = e
	g.byPlanet[e.Planet] = insertSorted(g.byPlanet[e.Planet], id)
	return id
}

// Transform replaces an entity with a new one of another type at the same
// place under the same owner. The old id is despawned; the new id is returned.
func (g *Galaxy) Transform(id EntityID, newType string, kind Kind, strength int, mobile bool) (EntityID, bool) {
	old, ok := g.Entities[id]
	if !ok {
		return NoEntity, false
	}
	newID := g.Spawn(SpawnSpec{
		Type:     newType,
		Kind:     kind,
		Owner:    old.Owner,
		Planet:   old.Planet,
		Pos:      old.Pos,
		Strength: strength,
		Mobile:   mobile,
		Resource: NoResource,
		Level:    old.Level,
		Speed:    old.Speed,
	})
	g.Entities[newID].Stacks = max(1, old.Stacks)
	g.Despawn(id, ReasonTransformed)
	return newID, true
}

// Despawn removes an entity. Destroyed entities are remembered until
// DrainDestroyed so the host can notify the engine.
func (g *Galaxy) Despawn(id EntityID, reason DespawnReason) bool {
	e, ok := g.Entities[id]
	if !ok {
		return false
	}
	g.byPlanet[e.Planet] = removeSorted(g.byPlanet[e.Planet], id)
	delete(g.Entities, id)
	if reason == ReasonDestroyed {
		g.destroyed = append(g.destroyed, id)
	}
	return true
}

// DrainDestroyed returns and clears the ids destroyed since the last call.
func (g *Galaxy) DrainDestroyed() []EntityID {
	out := g.destroyed
	g.destroyed = nil
	return out
}

// AddStack merges one more member of the same type into an existing entity.
func (g *Galaxy) AddStack(id EntityID) bool {
	e, ok := g.Entities[id]
	if !ok {
		return false
	}
	if e.Stacks < 1 {
		e.Stacks = 1
	}
	e.Stacks++
	return true
}

// RemoveStack splits one member off a stacked entity. An entity with a
// single member is left alone; despawn it instead.
func (g *Galaxy) RemoveStack(id EntityID) bool {
	e, ok := g.Entities[id]
	if !ok || e.Stacks <= 1 {
		return false
	}
	e.Stacks--
	return true
}

// SetOrder replaces an entity's standing order.
func (g *Galaxy) SetOrder(id EntityID, o Order) bool {
	e, ok := g.Entities[id]
	if !ok {
		return false
	}
	path := make([]PlanetID, len(o.Path))
	copy(path, o.Path)
	o.Path = path
	e.Order = &o
	return true
}

// FlushReinforcements empties a faction's queued reinforcements for a planet.
func (g *Galaxy) FlushReinforcements(p PlanetID, faction FactionID) {
	if f, ok := g.Factions[faction]; ok {
		delete(f.Reinforcements, p)
	}
}

// moveTo relocates an entity to another planet, keeping the index in sync.
func (g *Galaxy) moveTo(e *Entity, p PlanetID, pos Point) {
	if e.Planet != p {
		g.byPlanet[e.Planet] = removeSorted(g.byPlanet[e.Planet], e.ID)
		g.byPlanet[p] = insertSorted(g.byPlanet[p], e.ID)
		e.Planet = p
	}
	e.Pos = pos
}

// Place moves an entity directly, bypassing orders. Used by hosts and tests.
func (g *Galaxy) Place(id EntityID, p PlanetID, pos Point) bool {
	e, ok := g.Entities[id]
	if !ok {
		return false
	}
	g.moveTo(e, p, pos)
	return true
}

// String returns a summary of the galaxy.
func (g *Galaxy) String() string {
	return fmt.Sprintf("Galaxy(planets=%d, entities=%d, factions=%d)", len(g.Planets), len(g.Entities), len(g.Factions))
}

func stanceKey(a, b FactionID) [2]FactionID {
	if a > b {
		a, b = b, a
	}
	return [2]FactionID{a, b}
}

func insertSorted[T ~int32](s []T, v T) []T {
	i, found := slices.BinarySearch(s, v)
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}

func removeSorted[T ~int32](s []T, v T) []T {
	i, found := slices.BinarySearch(s, v)
	if !found {
		return s
	}
	return slices.Delete(s, i, i+1)
}
