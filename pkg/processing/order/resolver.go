// Package order turns raw per-round distances into a strictly ordered field.
package order

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type Placement struct {
	Driver   string
	Position int     // 1 = largest distance
	Raw      float64 // distance proposed by the points model
	Distance float64 // corrected distance
}

// Resolver enforces a minimum gap between adjacent cars. Cars are only ever
// moved backwards, never advanced.
type Resolver struct {
	minGap float64
}

func NewResolver(minGapKm float64) *Resolver {
	return &Resolver{minGap: minGapKm}
}

// Resolve orders the drivers by raw distance (descending, equal distances by
// driver name) and clamps each follower to at most the corrected distance of
// the car ahead minus the minimum gap.
func (r *Resolver) Resolve(raw map[string]float64) []Placement {
	names := Rank(raw)
	ret := make([]Placement, len(names))
	for i, name := range names {
		p := Placement{Driver: name, Position: i + 1, Raw: raw[name], Distance: raw[name]}
		if i > 0 {
			p.Distance = math.Min(raw[name], ret[i-1].Distance-r.minGap)
		}
		ret[i] = p
	}
	return ret
}

// Rank returns the driver names ordered by distance descending. Equal
// distances are ordered by name.
func Rank(dist map[string]float64) []string {
	names := lo.Keys(dist)
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(dist[b], dist[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return names
}

// Distances converts placements back into a lookup by driver.
func Distances(placements []Placement) map[string]float64 {
	return lo.SliceToMap(placements, func(p Placement) (string, float64) {
		return p.Driver, p.Distance
	})
}
