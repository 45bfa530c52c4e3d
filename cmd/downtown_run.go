package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/metroplan/tdm-cli/internal/downtown"
	"github.com/metroplan/tdm-cli/internal/lisa"
	"github.com/metroplan/tdm-cli/internal/zoneio"
)

var downtownRunFlags struct {
	zones       string
	employment  string
	idField     string
	placeField  string
	idColumn    string
	empColumn   string
	overrides   string
	geojsonPath string
	name        string
	dryRun      bool
}

var downtownRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run downtown delineation over a zone layer",
	Long:  "Loads zone polygons and the employment table, delineates each place's downtown core, writes the run to the result store, and prints a summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if downtownRunFlags.zones == "" || downtownRunFlags.employment == "" {
			return eris.New("--zones and --employment are required")
		}

		loadOpts := zoneio.LoadOptions{
			ShapefilePath:  downtownRunFlags.zones,
			EmploymentPath: downtownRunFlags.employment,
			Shapefile: zoneio.ShapefileOptions{
				IDField:    firstNonEmpty(downtownRunFlags.idField, cfg.Input.IDField),
				PlaceField: firstNonEmpty(downtownRunFlags.placeField, cfg.Input.PlaceField),
			},
			Employment: zoneio.EmploymentOptions{
				IDColumn:         firstNonEmpty(downtownRunFlags.idColumn, cfg.Input.IDColumn),
				EmploymentColumn: firstNonEmpty(downtownRunFlags.empColumn, cfg.Input.EmploymentColumn),
			},
		}
		zones, err := zoneio.Load(ctx, loadOpts)
		if err != nil {
			return err
		}

		overrides, err := downtown.LoadOverrides(downtownRunFlags.overrides)
		if err != nil {
			return err
		}

		classifier := lisa.New(cfg.LISA.Permutations, cfg.LISA.Seed)
		engine := downtown.NewEngine(cfg.Downtown, classifier, downtown.WithOverrides(overrides))

		result, err := engine.Run(ctx, zones)
		if err != nil {
			return err
		}

		if downtownRunFlags.geojsonPath != "" {
			f, err := os.Create(downtownRunFlags.geojsonPath)
			if err != nil {
				return eris.Wrapf(err, "create %s", downtownRunFlags.geojsonPath)
			}
			if err := zoneio.WriteGeoJSON(f, zones); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return eris.Wrapf(err, "close %s", downtownRunFlags.geojsonPath)
			}
			zap.L().Info("geojson written", zap.String("path", downtownRunFlags.geojsonPath))
		}

		if !downtownRunFlags.dryRun {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}

			name := downtownRunFlags.name
			if name == "" {
				name = downtownRunFlags.zones
			}
			run, err := st.SaveRun(ctx, name, cfg.Downtown, zones, result)
			if err != nil {
				return err
			}
			fmt.Printf("run saved: %s\n", run.ID)
		}

		formatRunSummary(os.Stdout, len(zones), result)
		return nil
	},
}

func init() {
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.zones, "zones", "", "zone shapefile path (required)")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.employment, "employment", "", "employment table path, .csv or .xlsx (required)")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.idField, "id-field", "", "zone id field in the shapefile (default from config)")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.placeField, "place-field", "", "place field in the shapefile (default from config)")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.idColumn, "id-column", "", "zone id column in the employment table (default from config)")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.empColumn, "employment-column", "", "employment column in the employment table (default from config)")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.overrides, "overrides", "", "per-place threshold override YAML file")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.geojsonPath, "geojson", "", "write categorized zones to a GeoJSON file")
	downtownRunCmd.Flags().StringVar(&downtownRunFlags.name, "name", "", "run name (default: zone shapefile path)")
	downtownRunCmd.Flags().BoolVar(&downtownRunFlags.dryRun, "dry-run", false, "delineate without writing to the result store")
	downtownCmd.AddCommand(downtownRunCmd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// formatRunSummary prints the per-place outcomes and compactness reports.
func formatRunSummary(w io.Writer, zoneCount int, result *downtown.Result) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\nzones: %d   core: %d   adjacent: %d\n\n", zoneCount, result.CoreZones, result.AdjacentZones)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLACE\tSTATUS\tEMPLOYMENT\tCANDIDATES\tCORE ZONES")
	for _, po := range result.Places {
		p.Fprintf(tw, "%s\t%s\t%.0f\t%d\t%d\n",
			po.Place, po.Status, po.TotalEmployment, po.Candidates, po.CoreZones)
	}
	tw.Flush()

	if len(result.Reports) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLACE\tCOMPONENTS\tAREA RATIO\tPERIM EFF\tRADIUS GYR\tDISPERSION")
	for _, r := range result.Reports {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.1f\t%.3f\n",
			r.Place, r.Components, r.AreaRatio, r.PerimeterEfficiency, r.RadiusOfGyration, r.NormalizedDispersion)
	}
	tw.Flush()
}
