// Package geo holds the two phases of the nearby-request search as pure
// functions: a rectangular bounding-box prefilter and an exact haversine
// refinement. Neither touches storage, so both are testable on bare
// coordinate pairs.
package geo

import (
	"math"
	"sort"
	"time"
)

// kmPerDegreeLat is the approximate length of one degree of latitude.
const kmPerDegreeLat = 111.32

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lng float64
}

type Box struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundingBox returns the rectangle of side 2*radiusKm centered on p.
// The box over-selects (its corners lie farther than radiusKm) but never
// under-selects, so it is safe as a cheap SQL prefilter before the exact
// distance check.
func BoundingBox(p Point, radiusKm float64) Box {
	deltaLat := radiusKm / kmPerDegreeLat
	deltaLng := radiusKm / (kmPerDegreeLat * math.Cos(p.Lat*math.Pi/180))
	return Box{
		MinLat: p.Lat - deltaLat,
		MaxLat: p.Lat + deltaLat,
		MinLng: p.Lng - deltaLng,
		MaxLng: p.Lng + deltaLng,
	}
}

// Contains reports whether p falls inside b.
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// HaversineKm returns the great-circle distance between a and b in km.
func HaversineKm(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Candidate is a prefiltered row awaiting exact refinement. Ref carries
// the caller's row id through the sort untouched.
type Candidate struct {
	Point
	Ref       int64
	CreatedAt time.Time
}

type Match struct {
	Candidate
	DistanceKm float64
}

// Refine is the exact phase: it drops candidates farther than radiusKm
// from origin and orders the rest by distance ascending, ties broken by
// CreatedAt ascending so the result is deterministic.
func Refine(origin Point, radiusKm float64, cands []Candidate) []Match {
	matches := make([]Match, 0, len(cands))
	for _, c := range cands {
		d := HaversineKm(origin, c.Point)
		if d > radiusKm {
			continue
		}
		matches = append(matches, Match{Candidate: c, DistanceKm: d})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches
}
