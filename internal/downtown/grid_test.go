package downtown

import (
	"fmt"

	"github.com/twpayne/go-geom"

	"github.com/metroplan/tdm-cli/internal/model"
)

// squareZone builds a unit-square zone with its lower-left corner at (x, y).
func squareZone(id, place string, x, y, employment float64) model.Zone {
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		x, y, x + 1, y, x + 1, y + 1, x, y + 1, x, y,
	}, []int{10})
	return model.Zone{
		ID:         id,
		PlaceID:    place,
		Employment: employment,
		Geometry:   poly,
		Area:       1,
	}
}

// gridZones builds a w×h grid of unit-square zones for one place; zone index
// is y*w + x. Contiguity over the grid is queen-style, since corner-touching
// squares count as neighbors.
func gridZones(place string, w, h int, emp func(x, y int) float64) []model.Zone {
	zones := make([]model.Zone, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := fmt.Sprintf("%s-%d-%d", place, x, y)
			zones = append(zones, squareZone(id, place, float64(x), float64(y), emp(x, y)))
		}
	}
	return zones
}

// indices returns 0..n-1, the member list for a whole zone slice.
func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func flatEmployment(v float64) func(x, y int) float64 {
	return func(int, int) float64 { return v }
}
