package engine

import (
	"github.com/talgya/civic-industry/internal/economy"
	"github.com/talgya/civic-industry/internal/industry"
	"github.com/talgya/civic-industry/internal/world"
)

// Trade matching constants.
const (
	postImportUrgency   = 20
	postInboundPenalty  = 8
	yardInboundPenalty  = 4
	postMaxHops         = 3
	stationMaxHops      = 5
	exportUrgencyCap    = 20
	exportRateFactor    = 5
	exportPickupPenalty = 2
	exportFloorDivisor  = 10 // produced stock must exceed capacity/10
	balanceUrgency      = 5
	directSendPct       = 75
)

// collectRequests builds import and export lists in the fixed collection
// order: trade stations (kinds in index order), then militia posts.
func (s *Simulation) collectRequests(c *industry.Controller) (imports, exports []*industry.TradeRequest) {
	for _, st := range c.TradeStations {
		pickups := c.InboundPickups(st.ID)
		deliveries := c.InboundDeliveries(st.ID)
		l := &st.Ledger
		for _, k := range economy.AllKinds() {
			capacity := l.Capacity[k]
			if capacity <= 0 {
				continue
			}
			if l.Produces(k) {
				if l.Amount[k] <= capacity/exportFloorDivisor {
					continue
				}
				exports = append(exports, &industry.TradeRequest{
					Kind:          k,
					Urgency:       producedExportUrgency(l.Amount[k], l.PerSecond[k], capacity) - exportPickupPenalty*pickups,
					Station:       st.ID,
					MaxSearchHops: stationMaxHops,
				})
				continue
			}
			if l.Amount[k]*2 > capacity {
				exports = append(exports, &industry.TradeRequest{
					Kind:          k,
					Urgency:       balanceUrgency - deliveries,
					Station:       st.ID,
					MaxSearchHops: stationMaxHops,
				})
			} else {
				imports = append(imports, &industry.TradeRequest{
					Kind:          k,
					Urgency:       balanceUrgency - pickups,
					Station:       st.ID,
					MaxSearchHops: stationMaxHops,
				})
			}
		}
	}

	for _, m := range c.Leaders {
		if !m.Status.Deployed() || m.Stockpile.AllFull() {
			continue
		}
		penalty := postInboundPenalty
		if m.Shipyard {
			penalty = yardInboundPenalty
		}
		req := &industry.TradeRequest{
			Kind:          economy.KindAny,
			Urgency:       postImportUrgency - penalty*c.InboundDeliveries(m.ID),
			Station:       m.ID,
			MilitiaPost:   true,
			MaxSearchHops: postMaxHops,
		}
		for _, k := range economy.AllKinds() {
			req.Declined[k] = m.Stockpile.IsFull(k)
		}
		imports = append(imports, req)
	}

	industry.SortRequests(imports)
	industry.SortRequests(exports)
	return imports, exports
}

// producedExportUrgency is ceil(amount*rate*5/capacity), capped.
func producedExportUrgency(amount, rate, capacity int) int {
	u := ceilDiv(amount*rate*exportRateFactor, capacity)
	return min(exportUrgencyCap, u)
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return a / b
	}
	return (a + b - 1) / b
}

// matchResult is what one run of the matcher decided.
type matchResult struct {
	intents []Intent
	matches int
	failed  int
}

// matchTrades pairs imports with idle transports and exporters. Consumed
// transports are removed from idle and processed requests from both lists,
// so running it again on the same lists matches nothing new.
func (s *Simulation) matchTrades(c *industry.Controller, imports, exports *[]*industry.TradeRequest, idle *[]*industry.CargoShip) matchResult {
	var res matchResult
	h := s.Host

	for i, imp := range *imports {
		if imp.Processed {
			continue
		}
		if len(*idle) == 0 {
			for _, rest := range (*imports)[i:] {
				if !rest.Processed {
					res.failed++
				}
			}
			break
		}
		reqPlanet, ok := s.requestPlanet(c, imp)
		if !ok {
			continue
		}

		pick := -1
		best := world.Unreachable
		for j, ship := range *idle {
			e, ok := h.Entity(ship.ID)
			if !ok {
				continue
			}
			if d := h.Hops(e.Planet, reqPlanet); d < best {
				pick, best = j, d
			}
		}
		if pick < 0 {
			continue
		}
		ship := (*idle)[pick]

		if directSendable(ship, imp) {
			res.intents = append(res.intents, Intent{Kind: IntentAssignCargo, Ship: ship.ID, Destination: imp.Station})
			imp.Processed = true
		} else {
			for _, exp := range *exports {
				if exp.Processed || exp.Station == imp.Station || !imp.Accepts(exp.Kind) {
					continue
				}
				expPlanet, ok := s.requestPlanet(c, exp)
				if !ok || h.Hops(expPlanet, reqPlanet) > min(imp.MaxSearchHops, exp.MaxSearchHops) {
					continue
				}
				res.intents = append(res.intents, Intent{Kind: IntentAssignCargo, Ship: ship.ID, Origin: exp.Station, Destination: imp.Station})
				imp.Processed = true
				exp.Processed = true
				break
			}
		}
		if imp.Processed {
			res.matches++
			*idle = append((*idle)[:pick], (*idle)[pick+1:]...)
		}
	}

	*imports = industry.DropProcessed(*imports)
	*exports = industry.DropProcessed(*exports)
	return res
}

// directSendable reports whether the ship already carries more than 75% of
// its hold in a kind the request accepts.
func directSendable(ship *industry.CargoShip, req *industry.TradeRequest) bool {
	for _, k := range economy.AllKinds() {
		if req.Accepts(k) && ship.Hold.Amount[k]*100 > ship.Hold.Capacity[k]*directSendPct {
			return true
		}
	}
	return false
}

// requestPlanet returns the live planet of a request's station or post.
func (s *Simulation) requestPlanet(c *industry.Controller, r *industry.TradeRequest) (world.PlanetID, bool) {
	d, ok := s.dockOf(c, r.Station)
	if !ok {
		return world.NoPlanet, false
	}
	return d.planet, true
}
