package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/geometry"
	"github.com/philipparndt/roomgeo/pkg/mesh"
	"github.com/philipparndt/roomgeo/pkg/openscad"
	"github.com/philipparndt/roomgeo/pkg/stl"
)

// Loader turns manifests into building snapshots
type Loader struct {
	// OpenSCAD is the openscad binary used for .scad meshes; "openscad" when empty
	OpenSCAD string
	Log      *zap.Logger
}

// Model is a loaded building together with every file it was read from
type Model struct {
	Building *building.Building
	// Sources are absolute paths: the manifest, mesh files and their
	// .scad dependencies
	Sources []string
}

// Load reads, validates and resolves the manifest at path
func (l *Loader) Load(ctx context.Context, path string) (*Model, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid manifest: %w", path, err)
	}

	model, err := l.Build(ctx, m, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	model.Sources = append([]string{abs}, model.Sources...)
	return model, nil
}

// Build resolves a validated manifest. Mesh files are read relative to baseDir.
func (l *Loader) Build(ctx context.Context, m *Manifest, baseDir string) (*Model, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	r := &resolver{
		ctx:     ctx,
		baseDir: baseDir,
		scale:   m.Scale(),
		scad:    openscad.NewRenderer(baseDir, log),
		cache:   make(map[string]*mesh.Buffer),
		log:     log,
	}
	if l.OpenSCAD != "" {
		r.scad.Binary = l.OpenSCAD
	}

	b := &building.Building{Name: m.Name}
	for si, s := range m.Storeys {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Storey %d", si)
		}
		storey := &building.Storey{Name: name, Number: si}
		for _, spec := range s.Rooms {
			storey.Rooms = append(storey.Rooms, r.entity(spec, building.CategorySpace))
		}
		b.Storeys = append(b.Storeys, storey)
	}
	for _, spec := range m.Elements {
		b.Elements = append(b.Elements, r.entity(spec, building.ParseCategory(spec.Category)))
	}

	if r.err != nil {
		return nil, r.err
	}
	log.Info("manifest loaded",
		zap.String("building", b.Name),
		zap.Int("storeys", len(b.Storeys)),
		zap.Int("rooms", b.RoomCount()),
		zap.Int("elements", len(b.Elements)),
		zap.Float64("unit_scale", r.scale))
	return &Model{Building: b, Sources: r.sources}, nil
}

type resolver struct {
	ctx     context.Context
	baseDir string
	scale   float64
	scad    *openscad.Renderer
	cache   map[string]*mesh.Buffer
	sources []string
	log     *zap.Logger
	err     error
}

func (r *resolver) entity(spec EntitySpec, cat building.Category) *building.Entity {
	buf, err := r.mesh(spec.Mesh)
	if err != nil {
		r.err = multierr.Append(r.err, fmt.Errorf("%s: %w", spec.ID, err))
	}
	if buf != nil && r.scale != 1 {
		buf = buf.Scaled(r.scale)
	}
	return &building.Entity{
		ID:         spec.ID,
		Category:   cat,
		Name:       building.ResolveName(spec.LongName, spec.Name, spec.ID),
		Mesh:       buf,
		Quantities: r.quantities(spec.Quantities),
	}
}

// quantities scales area and volume quantities along with the geometry
func (r *resolver) quantities(q map[string]float64) map[string]float64 {
	if q == nil || r.scale == 1 {
		return q
	}
	out := make(map[string]float64, len(q))
	for k, v := range q {
		switch {
		case strings.HasSuffix(k, "Area"):
			v *= r.scale * r.scale
		case strings.HasSuffix(k, "Volume"):
			v *= r.scale * r.scale * r.scale
		}
		out[k] = v
	}
	return out
}

func (r *resolver) mesh(spec *MeshSpec) (*mesh.Buffer, error) {
	switch {
	case spec == nil:
		return nil, nil
	case spec.Box != nil:
		return mesh.Box(vector(spec.Box.Min), vector(spec.Box.Max)), nil
	case spec.File != "":
		return r.file(spec.File)
	}

	vertices := make([]geometry.Vector3, len(spec.Vertices))
	for i, v := range spec.Vertices {
		vertices[i] = vector(v)
	}
	if spec.Polygons != nil {
		return mesh.NewBufferFromPolygons(vertices, spec.Polygons), nil
	}
	return mesh.NewBuffer(vertices, spec.Faces), nil
}

func (r *resolver) file(name string) (*mesh.Buffer, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	path = filepath.Clean(path)
	if buf, ok := r.cache[path]; ok {
		return buf, nil
	}

	var (
		model *stl.Model
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".scad":
		var deps []string
		if deps, err = r.scad.ResolveDependencies(path); err != nil {
			return nil, err
		}
		r.sources = append(r.sources, deps...)

		var data []byte
		if data, err = r.scad.Render(r.ctx, path); err != nil {
			return nil, err
		}
		model, err = stl.ParseBytes(data)
	default:
		r.sources = append(r.sources, path)
		model, err = stl.Parse(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading mesh %s: %w", name, err)
	}

	buf := model.ToBuffer()
	r.log.Debug("mesh file loaded",
		zap.String("file", name),
		zap.Int("triangles", model.TriangleCount()),
		zap.Int("vertices", buf.VertexCount()))
	r.cache[path] = buf
	return buf, nil
}

func vector(c []float64) geometry.Vector3 {
	var v geometry.Vector3
	if len(c) == 3 {
		v = geometry.NewVector3(c[0], c[1], c[2])
	}
	return v
}
