// Package viewer renders stored room outlines as a top-down floor plan.
// It only reads the exported outline2D values and never re-derives geometry.
package viewer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/philipparndt/roomgeo/pkg/export"
)

// ErrNoOutlines is returned when none of the rooms has a floor outline
var ErrNoOutlines = errors.New("no room has a floor outline")

// PlanOptions control the rendered image
type PlanOptions struct {
	Width, Height int
	Margin        int
	Background    color.RGBA
	Edge          color.RGBA
	// Palette is cycled through, one colour per room
	Palette []color.RGBA
}

// DefaultPlanOptions returns a 1024x768 plan on white
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		Width:      1024,
		Height:     768,
		Margin:     24,
		Background: color.RGBA{255, 255, 255, 255},
		Edge:       color.RGBA{40, 40, 40, 255},
		Palette: []color.RGBA{
			{166, 206, 227, 255},
			{178, 223, 138, 255},
			{251, 154, 153, 255},
			{253, 191, 111, 255},
			{202, 178, 214, 255},
			{255, 255, 153, 255},
		},
	}
}

// RenderPlan draws every room outline, scaled to fit and with +Y up
func RenderPlan(rooms []export.Room, opts PlanOptions) (*image.RGBA, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rooms {
		for _, p := range r.Outline2D {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	if math.IsInf(minX, 1) {
		return nil, ErrNoOutlines
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)

	innerW := float64(opts.Width - 2*opts.Margin)
	innerH := float64(opts.Height - 2*opts.Margin)
	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)
	scale := math.Min(innerW/spanX, innerH/spanY)
	offX := float64(opts.Margin) + (innerW-spanX*scale)/2
	offY := float64(opts.Margin) + (innerH-spanY*scale)/2

	project := func(p [2]float64) (float64, float64) {
		return offX + (p[0]-minX)*scale, offY + (maxY-p[1])*scale
	}

	for i, r := range rooms {
		if len(r.Outline2D) < 3 {
			continue
		}
		fill := opts.Edge
		if len(opts.Palette) > 0 {
			fill = opts.Palette[i%len(opts.Palette)]
		}

		pts := make([][2]float64, len(r.Outline2D))
		for j, p := range r.Outline2D {
			pts[j][0], pts[j][1] = project(p)
		}
		fillPolygon(img, pts, fill)
	}

	for _, r := range rooms {
		n := len(r.Outline2D)
		if n < 3 {
			continue
		}
		for j := 0; j < n; j++ {
			ax, ay := project(r.Outline2D[j])
			bx, by := project(r.Outline2D[(j+1)%n])
			drawLine(img, int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)), opts.Edge)
		}
	}
	return img, nil
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
