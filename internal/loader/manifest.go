// Package loader reads building manifests: storeys with their rooms, and
// the elements (doors, walls, ...) attributed to rooms by containment.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk description of a building. JSON manifests are
// read by the same decoder.
type Manifest struct {
	Name      string       `yaml:"name"`
	UnitScale float64      `yaml:"unit_scale"`
	Storeys   []StoreySpec `yaml:"storeys"`
	Elements  []EntitySpec `yaml:"elements"`
}

// StoreySpec is one storey and its rooms, in display order
type StoreySpec struct {
	Name  string       `yaml:"name"`
	Rooms []EntitySpec `yaml:"rooms"`
}

// EntitySpec describes a room or an element
type EntitySpec struct {
	ID         string             `yaml:"id"`
	Category   string             `yaml:"category"`
	Name       string             `yaml:"name"`
	LongName   string             `yaml:"long_name"`
	Quantities map[string]float64 `yaml:"quantities"`
	Mesh       *MeshSpec          `yaml:"mesh"`
}

// MeshSpec is exactly one of: inline vertices with a flat face stream or
// nested polygons, an axis-aligned box, or a mesh file (.stl or .scad)
// relative to the manifest.
type MeshSpec struct {
	Vertices [][]float64 `yaml:"vertices"`
	Faces    []int       `yaml:"faces"`
	Polygons [][]int     `yaml:"polygons"`
	Box      *BoxSpec    `yaml:"box"`
	File     string      `yaml:"file"`
}

// BoxSpec is an axis-aligned box between two corners
type BoxSpec struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

// Parse decodes a YAML or JSON manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty manifest")
		}
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// Scale returns the unit scale, 1 when unset
func (m *Manifest) Scale() float64 {
	if m.UnitScale == 0 {
		return 1
	}
	return m.UnitScale
}

// Validate reports every structural problem of the manifest at once
func (m *Manifest) Validate() error {
	var err error
	if m.UnitScale < 0 {
		err = multierr.Append(err, fmt.Errorf("unit_scale must be positive, got %v", m.UnitScale))
	}

	seen := make(map[string]string)
	check := func(where string, e EntitySpec, needCategory bool) {
		if e.ID == "" {
			err = multierr.Append(err, fmt.Errorf("%s: missing id", where))
		} else if prev, dup := seen[e.ID]; dup {
			err = multierr.Append(err, fmt.Errorf("%s: duplicate id %q (first used by %s)", where, e.ID, prev))
		} else {
			seen[e.ID] = where
		}
		if needCategory && e.Category == "" {
			err = multierr.Append(err, fmt.Errorf("%s: missing category", where))
		}
		if e.Mesh == nil {
			err = multierr.Append(err, fmt.Errorf("%s: missing mesh", where))
			return
		}
		err = multierr.Append(err, e.Mesh.validate(where))
	}

	for si, s := range m.Storeys {
		for ri, r := range s.Rooms {
			check(fmt.Sprintf("storeys[%d].rooms[%d]", si, ri), r, false)
		}
	}
	for ei, e := range m.Elements {
		check(fmt.Sprintf("elements[%d]", ei), e, true)
	}
	return err
}

func (s *MeshSpec) validate(where string) error {
	var err error
	sources := 0
	if s.Vertices != nil {
		sources++
	}
	if s.Box != nil {
		sources++
	}
	if s.File != "" {
		sources++
	}
	switch sources {
	case 0:
		return fmt.Errorf("%s: mesh has neither inline data nor a file", where)
	case 1:
	default:
		return fmt.Errorf("%s: mesh must use only one of vertices, box or file", where)
	}

	if s.Vertices != nil {
		for i, v := range s.Vertices {
			if len(v) != 3 {
				err = multierr.Append(err, fmt.Errorf("%s: vertex %d has %d coordinates", where, i, len(v)))
			}
		}
		if s.Faces != nil && s.Polygons != nil {
			err = multierr.Append(err, fmt.Errorf("%s: mesh must use faces or polygons, not both", where))
		}
	} else if s.Faces != nil || s.Polygons != nil {
		err = multierr.Append(err, fmt.Errorf("%s: faces given without vertices", where))
	}

	if s.Box != nil && (len(s.Box.Min) != 3 || len(s.Box.Max) != 3) {
		err = multierr.Append(err, fmt.Errorf("%s: box corners need 3 coordinates", where))
	}

	if s.File != "" {
		switch strings.ToLower(filepath.Ext(s.File)) {
		case ".stl", ".scad":
		default:
			err = multierr.Append(err, fmt.Errorf("%s: unsupported mesh file %s", where, s.File))
		}
	}
	return err
}
