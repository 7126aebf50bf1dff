package catalog

import (
	"testing"

	"github.com/talgya/civic-industry/internal/economy"
)

func TestResolveFallsBackToGeneric(t *testing.T) {
	c := Default()
	tests := []struct {
		tag  string
		want string
	}{
		{TurretTag(economy.Steel), "flak_battery"},
		{TurretTag(economy.Food), "picket_platform"},
		{PatrolTag(economy.Steel), "militia_gunboat"},
		{PatrolTag(economy.Goods), "escort_frigate"},
		{PatrolTag(economy.Ore), "militia_cutter"},
		{PatrolTag(economy.Crystal), "militia_corvette"},
		{ShipyardTag(economy.Munitions), "militia_cruiser"},
		{CargoShip, "bulk_hauler"},
	}
	for _, tt := range tests {
		e, ok := c.Resolve(tt.tag)
		if !ok || e.Type != tt.want {
			t.Errorf("Resolve(%q) = %q,%v want %q", tt.tag, e.Type, ok, tt.want)
		}
	}
	if _, ok := c.Resolve("nothing/at/all"); ok {
		t.Error("unknown family must not resolve")
	}
	if _, ok := c.Resolve("flat"); ok {
		t.Error("tag without family must not resolve")
	}
}

func TestParseRejectsBadEntries(t *testing.T) {
	if _, err := Parse([]byte("types:\n  - {tag: a/b}\n")); err == nil {
		t.Error("missing type should fail")
	}
	if _, err := Parse([]byte("types:\n  - {tag: a/b, type: x}\n  - {tag: a/b, type: y}\n")); err == nil {
		t.Error("duplicate tag should fail")
	}
	if _, err := Parse([]byte("types: [")); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestTypeLookup(t *testing.T) {
	c := Default()
	e, ok := c.Type("militia_cruiser")
	if !ok || e.Cost != 250 {
		t.Errorf("militia_cruiser = %+v,%v", e, ok)
	}
	if c.Len() == 0 {
		t.Error("embedded catalog is empty")
	}
}
