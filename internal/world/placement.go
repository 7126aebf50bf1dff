// Spawn-point placement around a center, in fixed-point so every peer
// computes identical positions.
package world

import "math"

// ringPermille holds twelve unit vectors (30° apart) scaled by 1000.
var ringPermille = [12]Point{
	{1000, 0}, {866, 500}, {500, 866}, {0, 1000},
	{-500, 866}, {-866, 500}, {-1000, 0}, {-866, -500},
	{-500, -866}, {0, -1000}, {500, -866}, {866, -500},
}

// PointsAround returns n points on a ring of the given radius around center,
// evenly spread over the twelve ring directions starting at rotation.
func PointsAround(center Point, radius, n, rotation int) []Point {
	if n <= 0 {
		return nil
	}
	out := make([]Point, 0, n)
	step := len(ringPermille) / n
	if step < 1 {
		step = 1
	}
	for i := 0; i < n; i++ {
		dir := ringPermille[(rotation+i*step)%len(ringPermille)]
		out = append(out, Point{
			X: center.X + dir.X*radius/1000,
			Y: center.Y + dir.Y*radius/1000,
		})
	}
	return out
}

// OffsetToward returns the point at distance radius from center in the
// ring direction closest to the vector from a to b. Used to place wormholes
// on the side of a planet that faces the linked planet.
func OffsetToward(center Point, radius int, a, b Point) Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	best := ringPermille[0]
	bestDot := math.MinInt
	for _, dir := range ringPermille {
		dot := dir.X*dx + dir.Y*dy
		if dot > bestDot {
			bestDot = dot
			best = dir
		}
	}
	return Point{
		X: center.X + best.X*radius/1000,
		Y: center.Y + best.Y*radius/1000,
	}
}

// StationSite returns where a station for the given role is placed relative
// to a planet's command point.
func StationSite(p *Planet, slot int) Point {
	pts := PointsAround(p.CommandPoint, 1500, 12, 0)
	return pts[slot%len(pts)]
}
