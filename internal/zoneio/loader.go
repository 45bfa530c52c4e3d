package zoneio

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metroplan/tdm-cli/internal/model"
)

// LoadOptions configures a combined geometry + employment load.
type LoadOptions struct {
	ShapefilePath  string
	EmploymentPath string // .csv or .xlsx
	Shapefile      ShapefileOptions
	Employment     EmploymentOptions
}

// Load reads the zone shapefile and the employment table concurrently and
// joins them on zone id. A participating zone (one with a place assignment)
// missing from the employment table is a data-validation failure; unplaced
// zones without employment default to zero.
func Load(ctx context.Context, opts LoadOptions) ([]model.Zone, error) {
	var (
		zones      []model.Zone
		employment map[string]float64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		zones, err = ReadShapefile(opts.ShapefilePath, opts.Shapefile)
		return err
	})
	g.Go(func() error {
		var err error
		employment, err = readEmployment(opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var unmatched int
	for i := range zones {
		v, ok := employment[zones[i].ID]
		if !ok {
			if zones[i].PlaceID != "" {
				return nil, eris.Errorf("zoneio: zone %s (place %s) has no employment record", zones[i].ID, zones[i].PlaceID)
			}
			unmatched++
			continue
		}
		zones[i].Employment = v
	}

	zap.L().Info("zones loaded",
		zap.String("component", "zoneio"),
		zap.Int("zones", len(zones)),
		zap.Int("employment_records", len(employment)),
		zap.Int("unmatched", unmatched),
	)
	return zones, nil
}

func readEmployment(opts LoadOptions) (map[string]float64, error) {
	path := opts.EmploymentPath
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".xlsx"):
		return ReadEmploymentXLSX(path, opts.Employment)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "zoneio: open employment table %s", path)
		}
		defer func() { _ = f.Close() }()
		return ReadEmploymentCSV(f, opts.Employment)
	}
}
