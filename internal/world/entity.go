package world

// Kind classifies what an entity is for the engine's purposes.
type Kind uint8

const (
	KindShip               Kind = iota // mobile combat unit
	KindStructure                      // stationary combat or guard structure
	KindWormhole                       // link endpoint; LinkTo names the far planet
	KindExtractor                      // resource extractor ("mine")
	KindReinforcementPoint             // guard post that feeds a faction's reinforcements
	KindStation                        // home or trade station
	KindCargoShip                      // unarmed transport
	KindLeader                         // militia construction ship before transformation
	KindBarracks                       // militia barracks raising nearby militia caps
)

var kindNames = [...]string{
	"ship", "structure", "wormhole", "extractor", "reinforcement_point",
	"station", "cargo_ship", "leader", "barracks",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Behavior tags roaming hostile units that matter to neighboring planets.
type Behavior uint8

const (
	BehaviorNormal Behavior = iota
	BehaviorThreat          // free-roaming threat fleet
	BehaviorHunter          // hunter fleet
)

// Stance is the diplomatic relation between two factions.
type Stance uint8

const (
	StanceNeutral Stance = iota
	StanceAllied
	StanceHostile
)

// DespawnReason explains why an entity left the galaxy.
type DespawnReason string

const (
	ReasonDestroyed   DespawnReason = "destroyed"
	ReasonTransformed DespawnReason = "transformed"
	ReasonDisbanded   DespawnReason = "disbanded"
	ReasonExpired     DespawnReason = "expired"
)

// NoResource marks an extractor-less entity.
const NoResource = -1

// Entity is anything placed on a planet.
type Entity struct {
	ID        EntityID  `json:"id"`
	Type      string    `json:"type"`
	Kind      Kind      `json:"kind"`
	Owner     FactionID `json:"owner"`
	Planet    PlanetID  `json:"planet"`
	Pos       Point     `json:"pos"`
	Strength  int       `json:"strength"` // per stack member
	Stacks    int       `json:"stacks"`
	Cloaked   bool      `json:"cloaked,omitempty"`
	Mobile    bool      `json:"mobile,omitempty"`
	Behavior  Behavior  `json:"behavior,omitempty"`
	LinkTo    PlanetID  `json:"link_to,omitempty"`
	Resource  int       `json:"resource"` // economy.Kind index for extractors, NoResource otherwise
	Level     int       `json:"level,omitempty"`
	Speed     int       `json:"speed,omitempty"`
	Temporary bool      `json:"temporary,omitempty"`
	Order     *Order    `json:"order,omitempty"`
}

// TotalStrength returns strength including stacked members.
func (e *Entity) TotalStrength() int {
	if e.Stacks < 1 {
		return e.Strength
	}
	return e.Strength * e.Stacks
}

// Order is a movement or attack command applied by the host.
type Order struct {
	Path     []PlanetID `json:"path,omitempty"` // remaining planets to enter, in order
	Point    Point      `json:"point"`
	HasPoint bool       `json:"has_point,omitempty"`
	Target   EntityID   `json:"target,omitempty"` // chase this entity instead of following Path
}

// SpawnSpec describes an entity to create.
type SpawnSpec struct {
	Type      string
	Kind      Kind
	Owner     FactionID
	Planet    PlanetID
	Pos       Point
	Strength  int
	Mobile    bool
	Cloaked   bool
	Behavior  Behavior
	LinkTo    PlanetID
	Resource  int
	Level     int
	Speed     int
	Temporary bool
}

// Faction is a participant in the galaxy.
type Faction struct {
	ID   FactionID `json:"id"`
	Name string    `json:"name"`

	// AttackBudget is the strength a faction normally commits to one attack wave.
	AttackBudget int `json:"attack_budget"`

	// Reinforcements queued per planet, spent by guard posts over time.
	Reinforcements map[PlanetID]int `json:"reinforcements,omitempty"`
}

// Relation stores a symmetric stance between two factions.
type Relation struct {
	A      FactionID `json:"a"`
	B      FactionID `json:"b"`
	Stance Stance    `json:"stance"`
}

// AttackWave is a queued hostile attack against a planet.
type AttackWave struct {
	Faction    FactionID `json:"faction"`
	Target     PlanetID  `json:"target"`
	Strength   int       `json:"strength"`
	DueSeconds int       `json:"due_seconds"`
	Alerted    bool      `json:"alerted"`
}
