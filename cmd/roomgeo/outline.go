package main

import (
	"io"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/pkg/export"
)

var outlineOutput string

var outlineCmd = &cobra.Command{
	Use:   "outline [manifest]",
	Short: "Write room floor outlines as GeoJSON",
	Long:  "Extract the building and write one polygon feature per room with name, storey, area and volume properties.",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)

	outlineCmd.Flags().StringVarP(&outlineOutput, "output", "o", "-", "GeoJSON output file (- for stdout)")
}

func runOutline(cmd *cobra.Command, args []string) error {
	a := newApp()
	x, err := a.Extract(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fc := export.Outlines(x.Result.Records, a.Config.Precision())
	return writeOutput(outlineOutput, func(w io.Writer) error {
		return writeGeoJSON(w, fc)
	})
}

func writeGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
