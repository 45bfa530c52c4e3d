// Package model defines the zone and place records shared by the
// delineation pipeline, the loaders, and the result store.
package model

import (
	"github.com/twpayne/go-geom"
)

// Category is the downtown assignment written to a zone by the pipeline.
// A zone transitions Unassigned→Core or Unassigned→Adjacent exactly once
// per run; Core is never downgraded.
type Category int

const (
	CategoryUnassigned Category = 0
	CategoryCore       Category = 1
	CategoryAdjacent   Category = 2
)

// String returns the category label used in reports and exports.
func (c Category) String() string {
	switch c {
	case CategoryCore:
		return "core"
	case CategoryAdjacent:
		return "adjacent"
	default:
		return "unassigned"
	}
}

// Quadrant classifies a zone's relationship to its neighbors' employment
// values, as reported by the LISA provider.
type Quadrant int

const (
	QuadrantNotSignificant Quadrant = iota
	QuadrantHighHigh
	QuadrantHighLow
	QuadrantLowHigh
	QuadrantLowLow
)

// String returns the conventional two-letter quadrant code.
func (q Quadrant) String() string {
	switch q {
	case QuadrantHighHigh:
		return "HH"
	case QuadrantHighLow:
		return "HL"
	case QuadrantLowHigh:
		return "LH"
	case QuadrantLowLow:
		return "LL"
	default:
		return "NS"
	}
}

// Zone is the smallest geographic unit of analysis (MAZ). Geometry is owned
// by the zone; pipeline phases hold only indices into the zone table and
// never mutate geometry.
type Zone struct {
	ID         string
	PlaceID    string
	Employment float64
	Geometry   *geom.Polygon
	Area       float64

	// Written once by the LISA classifier, read-only afterward.
	Quadrant Quadrant
	PValue   float64
	Moran    float64

	Category Category
}

// Place groups the zones of one municipality. It holds indices into the run's
// zone table, not zone copies; zones outlive the grouping.
type Place struct {
	Name            string
	ZoneIdx         []int
	TotalEmployment float64
}

// BuildPlaces groups zones by PlaceID. Zones with an empty PlaceID do not
// participate in clustering and are left out of every place.
func BuildPlaces(zones []Zone) []Place {
	byName := make(map[string]*Place)
	var order []string
	for i, z := range zones {
		if z.PlaceID == "" {
			continue
		}
		p, ok := byName[z.PlaceID]
		if !ok {
			p = &Place{Name: z.PlaceID}
			byName[z.PlaceID] = p
			order = append(order, z.PlaceID)
		}
		p.ZoneIdx = append(p.ZoneIdx, i)
		p.TotalEmployment += z.Employment
	}

	places := make([]Place, 0, len(order))
	for _, name := range order {
		places = append(places, *byName[name])
	}
	return places
}
