package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/pkg/analysis"
	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/extract"
	"github.com/philipparndt/roomgeo/pkg/mesh"
	"github.com/philipparndt/roomgeo/pkg/openscad"
	"github.com/philipparndt/roomgeo/pkg/stl"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Measure a single room mesh file",
	Long: `Treat one STL or OpenSCAD file as a room and show its dimensions, floor
outline, volume and mesh validity, including which fallbacks were used.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func loadMeshFile(ctx context.Context, filename string) (*stl.Model, error) {
	if strings.EqualFold(filepath.Ext(filename), ".scad") {
		r := openscad.NewRenderer(filepath.Dir(filename), newApp().Log)
		data, err := r.Render(ctx, filename)
		if err != nil {
			return nil, err
		}
		return stl.ParseBytes(data)
	}
	return stl.Parse(filename)
}

func runInspect(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := loadMeshFile(cmd.Context(), filename)
	if err != nil {
		return fmt.Errorf("reading mesh: %w", err)
	}

	room := &building.Entity{
		ID:       filepath.Base(filename),
		Category: building.CategorySpace,
		Name:     building.ResolveName("", model.Name, filepath.Base(filename)),
		Mesh:     model.ToBuffer(),
	}
	opts := extract.Options{
		FloorTolerance: cfg.Extraction.FloorTolerance,
		WeldTolerance:  cfg.Extraction.WeldTolerance,
	}
	rec := extract.NewBuilder(nil, opts, newApp().Log).Build(nil, room)
	report := analysis.CheckManifold(mesh.Weld(rec.Mesh, cfg.Extraction.WeldTolerance))

	fmt.Println("Room Mesh Information")
	fmt.Println("=====================")
	fmt.Printf("Name: %s\n", rec.Name)
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Mesh:")
	fmt.Printf("  Vertices: %d\n", room.Mesh.VertexCount())
	fmt.Printf("  Triangles: %d\n", rec.Mesh.TriangleCount())
	fmt.Printf("  Skipped faces: %d\n", rec.FaceWarnings)
	fmt.Printf("  Watertight: %t (%d open, %d overused edges)\n", report.Watertight(), report.OpenEdges, report.OverusedEdges)
	fmt.Printf("  Consistent winding: %t (%d flipped edges)\n\n", report.WindingConsistent(), report.FlippedEdges)

	d := rec.Dimensions
	fmt.Println("Dimensions:")
	fmt.Printf("  Length (X): %s\n", analysis.FormatMeasurement(d.Length, "units"))
	fmt.Printf("  Width (Y): %s\n", analysis.FormatMeasurement(d.Width, "units"))
	fmt.Printf("  Height (Z): %s\n", analysis.FormatMeasurement(d.Height, "units"))
	fmt.Printf("  Floor area: %s\n", analysis.FormatEstimate(analysis.Estimate{Value: d.Area, Quality: rec.AreaQuality}, "square units"))
	fmt.Printf("  Volume: %s\n\n", analysis.FormatEstimate(analysis.Estimate{Value: d.Volume, Quality: rec.VolumeQuality}, "cubic units"))

	fmt.Printf("Floor outline (%d points):\n", len(rec.Outline))
	for _, p := range rec.Outline {
		fmt.Printf("  (%.3f, %.3f)\n", p.X, p.Y)
	}

	if len(rec.Diagnostics) > 0 {
		fmt.Println("\nDiagnostics:")
		for _, diag := range rec.Diagnostics {
			fmt.Printf("  %s\n", diag)
		}
	}
	return nil
}
