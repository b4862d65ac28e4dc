// Package tessellate samples a noise field into heightmaps and meshes it
// through a geometry kernel. It only reads the field; graph state is never
// touched.
package tessellate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/chazu/mapgen/pkg/kernel"
)

// MaxGridSize bounds each grid dimension.
const MaxGridSize = 4096

// ErrBadGrid is returned for an unusable sampling grid.
var ErrBadGrid = errors.New("invalid sampling grid")

// Grid is a Width x Height raster over the rectangle [MinX, MaxX) x
// [MinY, MaxY) at height Z. Cell (col, row) is sampled at its lower
// corner, as libnoise's planar map builder does.
type Grid struct {
	Width, Height int
	MinX, MinY    float64
	MaxX, MaxY    float64
	Z             float64
}

// Validate checks the dimensions and the rectangle.
func (g Grid) Validate() error {
	if g.Width < 1 || g.Width > MaxGridSize || g.Height < 1 || g.Height > MaxGridSize {
		return fmt.Errorf("%w: size %dx%d outside 1..%d", ErrBadGrid, g.Width, g.Height, MaxGridSize)
	}
	if !(g.MinX < g.MaxX) || !(g.MinY < g.MaxY) {
		return fmt.Errorf("%w: empty rectangle [%g,%g]x[%g,%g]", ErrBadGrid, g.MinX, g.MaxX, g.MinY, g.MaxY)
	}
	return nil
}

// Point returns the sample coordinates of cell (col, row).
func (g Grid) Point(col, row int) (x, y float64) {
	x = g.MinX + float64(col)*(g.MaxX-g.MinX)/float64(g.Width)
	y = g.MinY + float64(row)*(g.MaxY-g.MinY)/float64(g.Height)
	return x, y
}

// Samples is a sampled heightmap in row-major order.
type Samples struct {
	Width, Height int
	Values        []float64
	// Min and Max ignore NaN samples. Both are NaN if every sample is.
	Min, Max float64
}

// At returns the sample at (col, row).
func (s *Samples) At(col, row int) float64 {
	return s.Values[row*s.Width+col]
}

// Normalized maps the samples linearly onto [0, 1]. A flat map becomes all
// zeros.
func (s *Samples) Normalized() []float64 {
	out := make([]float64, len(s.Values))
	span := s.Max - s.Min
	if !(span > 0) {
		return out
	}
	for i, v := range s.Values {
		out[i] = (v - s.Min) / span
	}
	return out
}

// WriteCSV writes one line per row.
func (s *Samples) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	record := make([]string, s.Width)
	for row := range s.Height {
		for col := range s.Width {
			record[col] = strconv.FormatFloat(s.At(col, row), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("tessellate: write row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Heightmap samples f over g.
func Heightmap(f kernel.Field, g Grid) (*Samples, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	s := &Samples{
		Width:  g.Width,
		Height: g.Height,
		Values: make([]float64, g.Width*g.Height),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}
	for row := range g.Height {
		for col := range g.Width {
			x, y := g.Point(col, row)
			v := f.Evaluate(x, y, g.Z)
			s.Values[row*g.Width+col] = v
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(s.Min) || v < s.Min {
				s.Min = v
			}
			if math.IsNaN(s.Max) || v > s.Max {
				s.Max = v
			}
		}
	}
	return s, nil
}

// Isosurface builds the solid where f >= iso inside b.
func Isosurface(f kernel.Field, k kernel.Kernel, b kernel.Bounds, iso float64) (kernel.Solid, error) {
	s, err := k.Isosurface(f, b, iso)
	if err != nil {
		return nil, fmt.Errorf("tessellate: isosurface: %w", err)
	}
	return s, nil
}

// Terrain builds the solid lying under the surface z = amplitude * f(x, y)
// across g's rectangle. The slab spans twice the amplitude either side of
// zero so that peaks and troughs stay inside it.
func Terrain(f kernel.Field, k kernel.Kernel, g Grid, amplitude float64) (kernel.Solid, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if !(amplitude > 0) {
		return nil, fmt.Errorf("tessellate: terrain amplitude %g must be positive", amplitude)
	}
	height := kernel.FieldFunc(func(x, y, z float64) float64 {
		return amplitude*f.Evaluate(x, y, g.Z) - z
	})
	b := kernel.Bounds{
		Min: [3]float64{g.MinX, g.MinY, -2 * amplitude},
		Max: [3]float64{g.MaxX, g.MaxY, 2 * amplitude},
	}
	return Isosurface(height, k, b, 0)
}

// Mesh converts s into a triangle mesh labelled name.
func Mesh(k kernel.Kernel, s kernel.Solid, cells int, name string) (*kernel.Mesh, error) {
	m, err := k.ToMesh(s, cells)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", name, err)
	}
	m.Name = name
	return m, nil
}
