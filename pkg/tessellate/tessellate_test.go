package tessellate_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"testing"

	"github.com/chazu/mapgen/pkg/graph"
	"github.com/chazu/mapgen/pkg/kernel"
	"github.com/chazu/mapgen/pkg/kernel/sdfx"
	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
	"github.com/chazu/mapgen/pkg/tessellate"
)

// newKernel returns a fresh sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New()
}

// makeConst creates an updated const node holding v.
func makeConst(t *testing.T, r *graph.Registry, name string, v float32) *graph.Node {
	t.Helper()
	n, err := r.Create(name, noise.Const)
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	if err := n.SetParam("value", param.Float(v)); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if !n.Update() {
		t.Fatalf("%s did not update", name)
	}
	return n
}

func unitGrid(w, h int) tessellate.Grid {
	return tessellate.Grid{Width: w, Height: h, MaxX: 1, MaxY: 1}
}

func TestHeightmapConst(t *testing.T) {
	n := makeConst(t, graph.NewRegistry(), "flat", 0.25)

	s, err := tessellate.Heightmap(n, unitGrid(8, 4))
	if err != nil {
		t.Fatalf("Heightmap: %v", err)
	}
	if s.Width != 8 || s.Height != 4 || len(s.Values) != 32 {
		t.Fatalf("got %dx%d with %d values", s.Width, s.Height, len(s.Values))
	}
	for i, v := range s.Values {
		if v != 0.25 {
			t.Fatalf("value %d = %v, want 0.25", i, v)
		}
	}
	if s.Min != 0.25 || s.Max != 0.25 {
		t.Errorf("min/max = %v/%v, want 0.25/0.25", s.Min, s.Max)
	}
	for i, v := range s.Normalized() {
		if v != 0 {
			t.Fatalf("flat map normalized[%d] = %v, want 0", i, v)
		}
	}
}

func TestHeightmapRowMajor(t *testing.T) {
	// Value encodes the sample position so the layout can be checked.
	f := kernel.FieldFunc(func(x, y, _ float64) float64 { return 10*y + x })
	g := tessellate.Grid{Width: 4, Height: 3, MaxX: 4, MaxY: 3}

	s, err := tessellate.Heightmap(f, g)
	if err != nil {
		t.Fatal(err)
	}
	for row := range 3 {
		for col := range 4 {
			want := float64(10*row + col)
			if got := s.At(col, row); got != want {
				t.Errorf("At(%d, %d) = %v, want %v", col, row, got, want)
			}
		}
	}
	if s.Min != 0 || s.Max != 23 {
		t.Errorf("min/max = %v/%v, want 0/23", s.Min, s.Max)
	}
	norm := s.Normalized()
	if norm[0] != 0 || norm[len(norm)-1] != 1 {
		t.Errorf("normalized ends = %v, %v", norm[0], norm[len(norm)-1])
	}
}

func TestHeightmapPerlinDeterministic(t *testing.T) {
	r := graph.NewRegistry()
	n, err := r.Create("p", noise.Perlin)
	if err != nil {
		t.Fatal(err)
	}
	n.Update()

	g := tessellate.Grid{Width: 16, Height: 16, MaxX: 4, MaxY: 4, Z: 0.5}
	a, err := tessellate.Heightmap(n, g)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tessellate.Heightmap(n, g)
	if err != nil {
		t.Fatal(err)
	}
	if !(a.Min < a.Max) {
		t.Errorf("perlin map is flat: min %v max %v", a.Min, a.Max)
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("sample %d differs between runs: %v vs %v", i, a.Values[i], b.Values[i])
		}
	}
}

func TestHeightmapIgnoresNaN(t *testing.T) {
	f := kernel.FieldFunc(func(x, _, _ float64) float64 {
		if x == 0 {
			return math.NaN()
		}
		return x
	})
	s, err := tessellate.Heightmap(f, tessellate.Grid{Width: 4, Height: 1, MaxX: 4, MaxY: 1})
	if err != nil {
		t.Fatal(err)
	}
	if s.Min != 1 || s.Max != 3 {
		t.Errorf("min/max = %v/%v, want 1/3", s.Min, s.Max)
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name string
		grid tessellate.Grid
	}{
		{"zero width", tessellate.Grid{Width: 0, Height: 4, MaxX: 1, MaxY: 1}},
		{"too tall", tessellate.Grid{Width: 4, Height: tessellate.MaxGridSize + 1, MaxX: 1, MaxY: 1}},
		{"empty x", tessellate.Grid{Width: 4, Height: 4, MinX: 1, MaxX: 1, MaxY: 1}},
		{"inverted y", tessellate.Grid{Width: 4, Height: 4, MaxX: 1, MinY: 2, MaxY: 1}},
		{"nan bounds", tessellate.Grid{Width: 4, Height: 4, MaxX: math.NaN(), MaxY: 1}},
	}
	f := kernel.FieldFunc(func(_, _, _ float64) float64 { return 0 })
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tessellate.Heightmap(f, tt.grid); !errors.Is(err, tessellate.ErrBadGrid) {
				t.Errorf("expected ErrBadGrid, got %v", err)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	f := kernel.FieldFunc(func(x, y, _ float64) float64 { return x + y })
	s, err := tessellate.Heightmap(f, tessellate.Grid{Width: 3, Height: 2, MaxX: 3, MaxY: 2})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	want := [][]string{{"0", "1", "2"}, {"1", "2", "3"}}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("cell (%d, %d) = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}

func TestIsosurfaceMeshNamed(t *testing.T) {
	k := newKernel()
	ball := kernel.FieldFunc(func(x, y, z float64) float64 {
		return 1 - math.Sqrt(x*x+y*y+z*z)
	})
	b := kernel.Bounds{Min: [3]float64{-2, -2, -2}, Max: [3]float64{2, 2, 2}}

	s, err := tessellate.Isosurface(ball, k, b, 0)
	if err != nil {
		t.Fatalf("Isosurface: %v", err)
	}
	m, err := tessellate.Mesh(k, s, 24, "ball")
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.Name != "ball" {
		t.Errorf("mesh name = %q, want ball", m.Name)
	}
}

func TestIsosurfaceBadBounds(t *testing.T) {
	n := makeConst(t, graph.NewRegistry(), "c", 1)
	_, err := tessellate.Isosurface(n, newKernel(), kernel.Bounds{}, 0)
	if err == nil {
		t.Fatal("expected an error for empty bounds")
	}
}

func TestTerrainFlatTop(t *testing.T) {
	k := newKernel()
	n := makeConst(t, graph.NewRegistry(), "plateau", 0.5)
	g := tessellate.Grid{Width: 2, Height: 2, MaxX: 2, MaxY: 2}

	s, err := tessellate.Terrain(n, k, g, 1)
	if err != nil {
		t.Fatalf("Terrain: %v", err)
	}
	m, err := tessellate.Mesh(k, s, 32, n.Name())
	if err != nil {
		t.Fatal(err)
	}
	if m.IsEmpty() {
		t.Fatal("terrain mesh is empty")
	}
	min, max := m.Extent()
	if math.Abs(float64(max[2])-0.5) > 0.2 {
		t.Errorf("top at z=%.3f, want about 0.5", max[2])
	}
	if math.Abs(float64(min[2])+2) > 0.2 {
		t.Errorf("base at z=%.3f, want about -2", min[2])
	}
	if m.Name != "plateau" {
		t.Errorf("mesh name = %q", m.Name)
	}
}

func TestTerrainRejectsAmplitude(t *testing.T) {
	n := makeConst(t, graph.NewRegistry(), "c", 0)
	for _, amp := range []float64{0, -1, math.NaN()} {
		if _, err := tessellate.Terrain(n, newKernel(), unitGrid(2, 2), amp); err == nil {
			t.Errorf("amplitude %v should be rejected", amp)
		}
	}
}
