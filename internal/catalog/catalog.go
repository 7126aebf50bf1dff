// Package catalog resolves capability tags to buildable entity types.
// Tags are slash-separated ("militia/turret/steel"); a missing specific tag
// falls back to the same prefix ending in "generic".
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/civic-industry/internal/economy"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Entry is one buildable type.
type Entry struct {
	Tag      string `yaml:"tag"`
	Type     string `yaml:"type"`
	Strength int    `yaml:"strength"`
	Cost     int    `yaml:"cost"`
	Mobile   bool   `yaml:"mobile"`
	Speed    int    `yaml:"speed"`
	StackCap int    `yaml:"stack_cap"`
}

// Catalog is an immutable tag and type index. Safe for concurrent reads.
type Catalog struct {
	byTag  map[string]Entry
	byType map[string]Entry
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Types []Entry `yaml:"types"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c := &Catalog{
		byTag:  make(map[string]Entry, len(doc.Types)),
		byType: make(map[string]Entry, len(doc.Types)),
	}
	for _, e := range doc.Types {
		if e.Tag == "" || e.Type == "" {
			return nil, fmt.Errorf("catalog entry %q: tag and type are required", e.Tag)
		}
		if _, dup := c.byTag[e.Tag]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate tag", e.Tag)
		}
		c.byTag[e.Tag] = e
		c.byType[e.Type] = e
	}
	return c, nil
}

// Default returns the embedded catalog. Panics if the embedded file is broken.
func Default() *Catalog {
	c, err := Parse(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog: %v", err))
	}
	return c
}

// Resolve finds the entry for a tag, falling back to the generic tag of the
// same family.
func (c *Catalog) Resolve(tag string) (Entry, bool) {
	if e, ok := c.byTag[tag]; ok {
		return e, true
	}
	i := strings.LastIndexByte(tag, '/')
	if i < 0 {
		return Entry{}, false
	}
	e, ok := c.byTag[tag[:i]+"/generic"]
	return e, ok
}

// Type returns the entry for a concrete type name.
func (c *Catalog) Type(name string) (Entry, bool) {
	e, ok := c.byType[name]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.byTag)
}

// Fixed infrastructure tags.
const (
	HomeStation  = "civilian/home_station"
	TradeStation = "civilian/trade_station"
	CargoShip    = "civilian/cargo_ship"
	Leader       = "civilian/leader"
	Outpost      = "militia/outpost"
	PatrolPost   = "militia/patrol_post"
	Shipyard     = "militia/shipyard"
	StrikeGroup  = "raider/strike_group"
	RaidWormhole = "raider/wormhole"
)

// TurretTag is the unit tag for a Defending post spending kind k.
func TurretTag(k economy.Kind) string {
	return "militia/turret/" + k.String()
}

// PatrolTag is the unit tag for a Patrolling post spending kind k. Even
// kinds build mobile hunters, odd kinds build protectors.
func PatrolTag(k economy.Kind) string {
	if k%2 == 0 {
		return "militia/mobile/" + k.String()
	}
	return "militia/protector/" + k.String()
}

// ShipyardTag is the unit tag for an advanced shipyard.
func ShipyardTag(k economy.Kind) string {
	return "militia/shipyard/" + k.String()
}
