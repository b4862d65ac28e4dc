// Package kernel defines the abstract geometry kernel interface used to
// turn scalar noise fields into solids and triangle meshes. The sdfx
// subpackage provides the implementation.
package kernel

import "fmt"

// Field is a scalar field over 3D space. graph.Node satisfies it.
type Field interface {
	Evaluate(x, y, z float64) float64
}

// FieldFunc adapts a plain function to Field.
type FieldFunc func(x, y, z float64) float64

func (f FieldFunc) Evaluate(x, y, z float64) float64 { return f(x, y, z) }

// Bounds is an axis-aligned box.
type Bounds struct {
	Min [3]float64
	Max [3]float64
}

// Validate requires Min < Max on every axis.
func (b Bounds) Validate() error {
	for i := range 3 {
		if !(b.Min[i] < b.Max[i]) {
			return fmt.Errorf("bounds: axis %d min %g not below max %g", i, b.Min[i], b.Max[i])
		}
	}
	return nil
}

// Size returns the box extent per axis.
func (b Bounds) Size() [3]float64 {
	return [3]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the box midpoint.
func (b Bounds) Center() [3]float64 {
	return [3]float64{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Isosurface returns the closed solid covering every point of b where
	// f is at or above iso.
	Isosurface(f Field, b Bounds, iso float64) (Solid, error)

	// Intersection returns the region common to a and b.
	Intersection(a, b Solid) Solid

	// Mesh output. cells is the resolution along the longest axis.
	ToMesh(s Solid, cells int) (*Mesh, error)
	WriteSTL(s Solid, cells int, path string) error
}
