package industry

import (
	"slices"

	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/world"
)

// TradeRequest is an import or export signal. Rebuilt every planning cycle.
type TradeRequest struct {
	Kind          economy.Kind
	Declined      [economy.NumKinds]bool // only meaningful when Kind is KindAny
	Urgency       int
	Station       world.EntityID // station or militia post
	MilitiaPost   bool
	MaxSearchHops int
	Processed     bool
}

// Accepts reports whether kind k satisfies the request.
func (r *TradeRequest) Accepts(k economy.Kind) bool {
	if !k.Valid() {
		return false
	}
	if r.Kind == economy.KindAny {
		return !r.Declined[k]
	}
	return r.Kind == k
}

// SortRequests orders by descending urgency. The sort is stable, so equal
// urgencies keep their insertion order.
func SortRequests(reqs []*TradeRequest) {
	slices.SortStableFunc(reqs, func(a, b *TradeRequest) int {
		return b.Urgency - a.Urgency
	})
}

// DropProcessed removes processed requests in place.
func DropProcessed(reqs []*TradeRequest) []*TradeRequest {
	return slices.DeleteFunc(reqs, func(r *TradeRequest) bool { return r.Processed })
}
