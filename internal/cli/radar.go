package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/forensia/internal/radar"
)

var (
	radarFlags featureFlags
	radarSVG   float64
)

var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Print the radar projection for feature values",
	Long: `Radar prints the 0-100 projection of each feature as plotted by the
web UI. Values outside the slider ranges are not clamped.

Example:
  forensia radar --pause-entropy 2.5 --prosody-drift 7
  forensia radar --svg 100`,
	Args: cobra.NoArgs,
	RunE: runRadar,
}

func init() {
	rootCmd.AddCommand(radarCmd)
	radarFlags.register(radarCmd.Flags(), false)
	radarCmd.Flags().Float64Var(&radarSVG, "svg", 0, "also print SVG polygon points for this chart radius")
}

func runRadar(cmd *cobra.Command, args []string) error {
	features, _, err := radarFlags.resolve()
	if err != nil {
		return err
	}

	points := radar.Project(features)
	out := cmd.OutOrStdout()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AXIS\tVALUE\tFULL")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.1f\t%.0f\n", p.Label, p.Value, radar.FullMark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if radarSVG > 0 {
		fmt.Fprintf(out, "\npoints=%q\n", radar.SVGPoints(radar.Vertices(points, radarSVG), radarSVG, radarSVG))
	}
	return nil
}
