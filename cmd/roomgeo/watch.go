package main

import (
	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/internal/app"
)

var (
	watchOutput  string
	watchGeoJSON string
	watchNoSave  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [manifest]",
	Short: "Re-extract whenever the manifest or its meshes change",
	Long: `Extract the building, store the rooms, and repeat whenever the manifest or
any mesh file it references changes. Stops on interrupt.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "also write the rooms as JSON to this file on every run")
	watchCmd.Flags().StringVar(&watchGeoJSON, "geojson", "", "also write floor outlines as GeoJSON to this file on every run")
	watchCmd.Flags().BoolVar(&watchNoSave, "no-save", false, "do not write runs to the room database")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := newApp()
	return a.Watch(cmd.Context(), args[0], func(x *app.Extraction) error {
		return emit(a, x, watchOutput, watchGeoJSON, !watchNoSave)
	})
}
