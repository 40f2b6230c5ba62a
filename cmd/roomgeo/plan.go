package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/pkg/viewer"
)

var (
	planStorey int
	planOutput string
	planWidth  int
	planHeight int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Render the stored floor outlines of one storey as a PNG",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().IntVarP(&planStorey, "storey", "s", 0, "storey number")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "plan.png", "PNG output file (- for stdout)")
	planCmd.Flags().IntVar(&planWidth, "width", 1024, "image width in pixels")
	planCmd.Flags().IntVar(&planHeight, "height", 768, "image height in pixels")
}

func runPlan(cmd *cobra.Command, args []string) error {
	s, err := newApp().OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rooms, err := s.RoomsByStorey(planStorey)
	if err != nil {
		return err
	}

	opts := viewer.DefaultPlanOptions()
	opts.Width, opts.Height = planWidth, planHeight
	img, err := viewer.RenderPlan(rooms, opts)
	if err != nil {
		return err
	}
	return writeOutput(planOutput, func(w io.Writer) error {
		return viewer.WritePNG(w, img)
	})
}
