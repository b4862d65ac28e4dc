// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/mapgen/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution used when a caller
// passes zero cells.
const DefaultMeshCells = 64

// ErrForeignSolid is returned for a solid built by another kernel.
var ErrForeignSolid = errors.New("solid was not built by the sdfx kernel")

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// fieldSDF presents a scalar field as an SDF3. Points where the field is
// at or above iso are inside (non-positive). The value is not a true
// distance, which marching cubes does not need.
type fieldSDF struct {
	f   kernel.Field
	iso float64
	bb  sdf.Box3
}

func (s *fieldSDF) Evaluate(p v3.Vec) float64 {
	return s.iso - s.f.Evaluate(p.X, p.Y, p.Z)
}

func (s *fieldSDF) BoundingBox() sdf.Box3 { return s.bb }

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) (sdf.SDF3, error) {
	w, ok := s.(*sdfxSolid)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignSolid, s)
	}
	return w.s, nil
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func toVec(a [3]float64) v3.Vec { return v3.Vec{X: a[0], Y: a[1], Z: a[2]} }

// box returns a solid box filling b. sdf.Box3D centers the box at the
// origin, so it is moved to the center of b.
func box(b kernel.Bounds) (sdf.SDF3, error) {
	s, err := sdf.Box3D(toVec(b.Size()), 0)
	if err != nil {
		return nil, err
	}
	return sdf.Transform3D(s, sdf.Translate3d(toVec(b.Center()))), nil
}

// Isosurface intersects the field region with a box over b, so the
// result is closed where the region meets the bounds.
func (k *SdfxKernel) Isosurface(f kernel.Field, b kernel.Bounds, iso float64) (kernel.Solid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	walls, err := box(b)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	region := &fieldSDF{
		f:   f,
		iso: iso,
		bb:  sdf.Box3{Min: toVec(b.Min), Max: toVec(b.Max)},
	}
	return k.Intersection(wrap(region), wrap(walls)), nil
}

// Intersection returns the intersection of two solids. Solids from another
// kernel yield nil.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, err := unwrap(a)
	if err != nil {
		return nil
	}
	sb, err := unwrap(b)
	if err != nil {
		return nil
	}
	return wrap(sdf.Intersect3D(sa, sb))
}

// renderer unwraps s and builds the marching cubes renderer for it.
func renderer(s kernel.Solid, cells int) (sdf.SDF3, render.Render3, error) {
	sdf3, err := unwrap(s)
	if err != nil {
		return nil, nil, err
	}
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return sdf3, render.NewMarchingCubesUniform(cells), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	sdf3, r, err := renderer(s, cells)
	if err != nil {
		return nil, err
	}
	triangles := render.ToTriangles(sdf3, r)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Flat shading: every corner carries the face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// WriteSTL renders s and writes it to path as binary STL.
func (k *SdfxKernel) WriteSTL(s kernel.Solid, cells int, path string) error {
	sdf3, r, err := renderer(s, cells)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, render.ToTriangles(sdf3, r)); err != nil {
		return fmt.Errorf("write stl %s: %w", path, err)
	}
	return nil
}
