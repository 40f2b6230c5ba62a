package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/internal/app"
	"github.com/philipparndt/roomgeo/pkg/export"
)

var (
	extractOutput  string
	extractSave    bool
	extractGeoJSON string
)

var extractCmd = &cobra.Command{
	Use:   "extract [manifest]",
	Short: "Extract all rooms of a building",
	Long: `Load a building manifest, extract every room and write the room documents
as JSON. Rooms whose geometry is incomplete are still written, with zeroed or
approximated fields listed under "diagnostics".`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "-", "JSON output file (- for stdout)")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "replace the rooms in the room database")
	extractCmd.Flags().StringVar(&extractGeoJSON, "geojson", "", "also write floor outlines as GeoJSON to this file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	a := newApp()
	x, err := a.Extract(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return emit(a, x, extractOutput, extractGeoJSON, extractSave)
}

// emit writes the outputs of one extraction
func emit(a *app.App, x *app.Extraction, output, geoJSON string, save bool) error {
	if output != "" {
		if err := writeOutput(output, func(w io.Writer) error {
			return export.WriteJSON(w, x.Rooms)
		}); err != nil {
			return fmt.Errorf("writing rooms: %w", err)
		}
	}

	if geoJSON != "" {
		if err := writeOutput(geoJSON, func(w io.Writer) error {
			return writeGeoJSON(w, export.Outlines(x.Result.Records, a.Config.Precision()))
		}); err != nil {
			return fmt.Errorf("writing outlines: %w", err)
		}
	}

	if save {
		if err := a.Save(x); err != nil {
			return err
		}
	}

	s := x.Result.Summary
	fmt.Fprintf(os.Stderr, "Extracted %d rooms (%d approximated), total area %.2f, total volume %.2f\n",
		s.Rooms, s.Approximated, s.TotalArea, s.TotalVolume)
	return nil
}
