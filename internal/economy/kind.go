// Package economy provides resource kinds and the per-entity resource ledger.
// Stations and cargo ships each carry one ledger.
package economy

import "strings"

// Kind enumerates the resources moved between stations. The numeric order is
// part of the persisted format; append new kinds at the end only.
type Kind uint8

const (
	Steel Kind = iota
	Goods
	Ore
	Food
	Water
	Crystal
	Plasma
	Fuel
	Electronics
	Munitions

	// NumKinds is the size of every per-kind array.
	NumKinds = 10
)

// KindAny is the sentinel for a request that accepts any resource kind.
const KindAny Kind = 255

var kindNames = [NumKinds]string{
	"steel",
	"goods",
	"ore",
	"food",
	"water",
	"crystal",
	"plasma",
	"fuel",
	"electronics",
	"munitions",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k == KindAny {
		return "any"
	}
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k indexes a real resource kind.
func (k Kind) Valid() bool {
	return int(k) < NumKinds
}

// KindFromString maps a resource name to its Kind.
func KindFromString(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "any" {
		return KindAny, true
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// AllKinds returns every resource kind in index order.
func AllKinds() []Kind {
	out := make([]Kind, NumKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
