// Package zoneio loads the delineation inputs: zone polygons from a
// shapefile and the employment table from CSV or XLSX, joined on zone id.
package zoneio

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/metroplan/tdm-cli/internal/geometry"
	"github.com/metroplan/tdm-cli/internal/model"
)

// ShapefileOptions names the attribute fields to read per zone record.
type ShapefileOptions struct {
	IDField    string // zone identifier, required
	PlaceField string // place assignment; blank values leave the zone unplaced
}

// ReadShapefile reads zone polygons and attributes. Records without geometry
// or without an id are skipped with a debug log; geometry parts become the
// rings of one polygon (exterior first, holes after), matching how zone
// layers are cut.
func ReadShapefile(path string, opts ShapefileOptions) ([]model.Zone, error) {
	if opts.IDField == "" {
		return nil, eris.New("zoneio: id field is required")
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zoneio: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	idIdx, ok := fieldIdx[strings.ToLower(opts.IDField)]
	if !ok {
		return nil, eris.Errorf("zoneio: id field %q not in shapefile", opts.IDField)
	}
	placeIdx := -1
	if opts.PlaceField != "" {
		placeIdx, ok = fieldIdx[strings.ToLower(opts.PlaceField)]
		if !ok {
			return nil, eris.Errorf("zoneio: place field %q not in shapefile", opts.PlaceField)
		}
	}

	var zones []model.Zone
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		id := attribute(reader, idIdx)
		poly, polyOK := shapeToPolygon(shape)
		if id == "" || !polyOK {
			skipped++
			continue
		}

		z := model.Zone{
			ID:       id,
			Geometry: poly,
			Area:     geometry.Area(poly),
		}
		if placeIdx >= 0 {
			z.PlaceID = attribute(reader, placeIdx)
		}
		zones = append(zones, z)
	}

	if skipped > 0 {
		zap.L().Debug("zoneio: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(zones) == 0 {
		return nil, eris.Errorf("zoneio: no usable zone records in %s", path)
	}
	return zones, nil
}

func attribute(reader *shp.Reader, idx int) string {
	val := strings.TrimRight(reader.Attribute(idx), "\x00")
	return strings.TrimSpace(val)
}

// shapeToPolygon converts a shapefile polygon record to a go-geom polygon,
// treating the first part as the exterior ring and later parts as holes.
func shapeToPolygon(shape shp.Shape) (*geom.Polygon, bool) {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil, false
	}

	poly := geom.NewPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("zoneio: skipping malformed polygon ring",
				zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if poly.NumLinearRings() == 0 {
		return nil, false
	}
	return poly, true
}
