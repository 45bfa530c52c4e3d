package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/metroplan/tdm-cli/internal/store"
)

var downtownRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect delineation run history",
	Long:  "Commands for listing and viewing saved delineation runs.",
}

// -- runs list --

var downtownRunsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List delineation runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var downtownRunsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		reports, err := st.ListReports(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		out := struct {
			Run     *store.Run        `json:"run"`
			Reports []downtownReports `json:"reports,omitempty"`
		}{Run: run}
		for _, r := range reports {
			out.Reports = append(out.Reports, downtownReports{r.Place, r.ClusterZones, r.Components, r.AreaRatio, r.PerimeterEfficiency})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// downtownReports is the compact JSON shape for runs show output.
type downtownReports struct {
	Place               string  `json:"place"`
	ClusterZones        int     `json:"cluster_zones"`
	Components          int     `json:"components"`
	AreaRatio           float64 `json:"area_ratio"`
	PerimeterEfficiency float64 `json:"perimeter_efficiency"`
}

func init() {
	downtownRunsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	downtownRunsCmd.AddCommand(downtownRunsListCmd)
	downtownRunsCmd.AddCommand(downtownRunsShowCmd)
	downtownCmd.AddCommand(downtownRunsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []store.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tZONES\tCORE\tADJACENT\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t----\t--------\t-------")

	for _, r := range runs {
		name := r.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			truncateID(r.ID),
			name,
			r.Zones,
			r.CoreZones,
			r.AdjacentZones,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
