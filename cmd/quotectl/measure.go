package main

import (
	"fmt"
	"io"
	"os"

	"instaquote/models"
	"instaquote/services/measure"
	"instaquote/utils"

	"github.com/spf13/cobra"
)

func measureCmd() *cobra.Command {
	var mode string
	var engine string

	cmd := &cobra.Command{
		Use:   "measure [file.geojson|-]",
		Short: "Measure the polygons or lines of a GeoJSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := models.MeasureMode(mode)
			if !m.Valid() {
				return fmt.Errorf("invalid --mode %q (area or length)", mode)
			}

			var g measure.Geometry
			switch engine {
			case "orb":
				g = measure.OrbGeometry{}
			case "s2":
				g = measure.S2Geometry{}
			default:
				return fmt.Errorf("invalid --geometry %q (orb or s2)", engine)
			}

			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			shapes, err := measure.ShapesFromGeoJSON(data, m)
			if err != nil {
				return err
			}
			resp := models.MeasureResponse{
				Mode:        m,
				Measurement: measure.Measure(m, shapes, g),
				Unit:        "sqft",
				Shapes:      shapes,
			}
			if m == models.ModeLength {
				resp.Unit = "ft"
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d shape(s): %s %s\n", len(shapes), utils.FormatNumber(resp.Measurement), resp.Unit)
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(models.ModeArea), "Measurement mode (area or length)")
	cmd.Flags().StringVar(&engine, "geometry", "orb", "Geometry engine (orb or s2)")
	return cmd
}
