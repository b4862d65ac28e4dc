package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/mapgen/pkg/kernel"
)

// ball is 1 inside the unit sphere and falls off linearly outside it.
var ball = kernel.FieldFunc(func(x, y, z float64) float64 {
	return 1 - math.Sqrt(x*x+y*y+z*z)
})

var cube = kernel.Bounds{Min: [3]float64{-2, -2, -2}, Max: [3]float64{2, 2, 2}}

func TestIsosurfaceSphere(t *testing.T) {
	k := New()
	s, err := k.Isosurface(ball, cube, 0)
	if err != nil {
		t.Fatalf("Isosurface: %v", err)
	}
	mesh, err := k.ToMesh(s, 32)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3", len(mesh.Indices))
	}

	// Every vertex sits near the unit sphere.
	for i := 0; i < len(mesh.Vertices); i += 3 {
		x, y, z := float64(mesh.Vertices[i]), float64(mesh.Vertices[i+1]), float64(mesh.Vertices[i+2])
		r := math.Sqrt(x*x + y*y + z*z)
		if math.Abs(r-1) > 0.2 {
			t.Fatalf("vertex %d at radius %.3f, want about 1", i/3, r)
		}
	}
	t.Logf("sphere triangle count: %d", mesh.TriangleCount())
}

func TestIsosurfaceClosedAtBounds(t *testing.T) {
	k := New()
	full := kernel.FieldFunc(func(_, _, _ float64) float64 { return 1 })
	b := kernel.Bounds{Min: [3]float64{0, 0, 0}, Max: [3]float64{4, 2, 1}}

	s, err := k.Isosurface(full, b, 0)
	if err != nil {
		t.Fatal(err)
	}
	min, max := s.BoundingBox()
	if min != b.Min || max != b.Max {
		t.Errorf("bounding box = %v..%v, want %v..%v", min, max, b.Min, b.Max)
	}

	mesh, err := k.ToMesh(s, 16)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.IsEmpty() {
		t.Fatal("a field above iso everywhere should mesh as the bounds box")
	}
	lo, hi := mesh.Extent()
	for a := range 3 {
		if math.Abs(float64(lo[a])-b.Min[a]) > 0.3 || math.Abs(float64(hi[a])-b.Max[a]) > 0.3 {
			t.Errorf("axis %d extent %v..%v, want about %v..%v", a, lo[a], hi[a], b.Min[a], b.Max[a])
		}
	}
}

func TestIsosurfaceEmptyBelowIso(t *testing.T) {
	k := New()
	none := kernel.FieldFunc(func(_, _, _ float64) float64 { return -1 })
	s, err := k.Isosurface(none, cube, 0)
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := k.ToMesh(s, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !mesh.IsEmpty() {
		t.Errorf("expected empty mesh, got %d triangles", mesh.TriangleCount())
	}
}

func TestIsosurfaceRejectsBadBounds(t *testing.T) {
	k := New()
	_, err := k.Isosurface(ball, kernel.Bounds{Min: [3]float64{1, 1, 1}, Max: [3]float64{1, 2, 2}}, 0)
	if err == nil {
		t.Fatal("expected error for degenerate bounds")
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	sphere, _ := k.Isosurface(ball, cube, 0)
	// Keep the upper half only.
	upper := kernel.FieldFunc(func(_, _, z float64) float64 { return z })
	half, _ := k.Isosurface(upper, cube, 0)

	dome := k.Intersection(sphere, half)
	if dome == nil {
		t.Fatal("Intersection returned nil")
	}
	mesh, err := k.ToMesh(dome, 32)
	if err != nil {
		t.Fatal(err)
	}
	if mesh.IsEmpty() {
		t.Fatal("dome mesh is empty")
	}
	lo, _ := mesh.Extent()
	if lo[2] < -0.2 {
		t.Errorf("dome reaches z=%v, want >= about 0", lo[2])
	}
}

type otherSolid struct{}

func (otherSolid) BoundingBox() (min, max [3]float64) { return }

func TestForeignSolid(t *testing.T) {
	k := New()
	if _, err := k.ToMesh(otherSolid{}, 8); err == nil {
		t.Error("ToMesh should reject a foreign solid")
	}
	if k.Intersection(otherSolid{}, otherSolid{}) != nil {
		t.Error("Intersection should reject a foreign solid")
	}
}

func TestWriteSTL(t *testing.T) {
	k := New()
	s, err := k.Isosurface(ball, cube, 0)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "ball.stl")
	if err := k.WriteSTL(s, 16, path); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// Binary STL: 80 byte header, triangle count, 50 bytes per triangle.
	if info.Size() <= 84 || (info.Size()-84)%50 != 0 {
		t.Errorf("unexpected STL size %d", info.Size())
	}
}
