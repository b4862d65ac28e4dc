package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
)

func mustCreate(t *testing.T, r *Registry, name string, typ noise.NodeType) *Node {
	t.Helper()
	n, err := r.Create(name, typ)
	require.NoError(t, err)
	return n
}

func TestFreshNodeValidityFollowsSourceCount(t *testing.T) {
	r := NewRegistry()
	for _, nt := range noise.NodeTypes() {
		if !noise.Supported(nt) {
			continue
		}
		n := mustCreate(t, r, nt.String(), nt)
		assert.False(t, n.IsValid(), "%s starts invalid", nt)
		want := n.SourceModuleCount() == 0
		assert.Equal(t, want, n.Validate(), nt.String())
	}
}

func TestCreateUnsupportedType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("out", noise.Output)
	require.ErrorIs(t, err, noise.ErrUnsupportedType)
	assert.Equal(t, 0, r.Size())
	assert.False(t, r.Has("out"))
}

func TestSelectWiringScenario(t *testing.T) {
	r := NewRegistry()

	a := mustCreate(t, r, "A", noise.Perlin)
	assert.True(t, a.Update())
	assert.True(t, a.IsValid())

	b := mustCreate(t, r, "B", noise.Select)
	assert.False(t, b.Update())
	assert.False(t, b.IsValid())

	for i := range 3 {
		require.NoError(t, b.SetSourceModule(i, a))
	}
	assert.False(t, b.IsValid(), "wiring does not revalidate")
	assert.True(t, b.Update())
	assert.True(t, b.IsValid())

	assert.True(t, r.Remove("A"))
	assert.False(t, b.IsValid())

	ref, err := b.SourceModule(0)
	require.NoError(t, err)
	assert.True(t, ref.Expired())
	assert.False(t, ref.IsZero())

	// Expired slots read as the dummy source.
	assert.Equal(t, 0.0, b.Evaluate(0.3, 1.7, -2.2))
}

func TestSetSourceModuleIndexOutOfRange(t *testing.T) {
	r := NewRegistry()
	a := mustCreate(t, r, "a", noise.Perlin)
	b := mustCreate(t, r, "b", noise.Add)

	for _, i := range []int{-1, 2} {
		require.ErrorIs(t, b.SetSourceModule(i, a), ErrIndexOutOfRange)
		_, err := b.SourceModule(i)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	require.ErrorIs(t, a.SetSourceModule(0, b), ErrIndexOutOfRange)
}

func TestSetSourceModuleBindsEvaluator(t *testing.T) {
	r := NewRegistry()
	c := mustCreate(t, r, "c", noise.Const)
	require.NoError(t, c.SetParam("value", param.Float(0.25)))
	require.True(t, c.Update())

	abs := mustCreate(t, r, "abs", noise.Abs)
	assert.Equal(t, 0.0, abs.Evaluate(1, 2, 3))

	require.NoError(t, abs.SetSourceModule(0, c))
	assert.InDelta(t, 0.25, abs.Evaluate(1, 2, 3), 1e-9)

	// Upstream parameter changes show through once applied.
	require.NoError(t, c.SetParam("value", param.Float(-0.5)))
	assert.InDelta(t, 0.25, abs.Evaluate(1, 2, 3), 1e-9)
	require.True(t, c.Update())
	assert.InDelta(t, 0.5, abs.Evaluate(1, 2, 3), 1e-9)

	// Clearing rebinds the dummy source.
	require.NoError(t, abs.SetSourceModule(0, nil))
	ref, err := abs.SourceModule(0)
	require.NoError(t, err)
	assert.True(t, ref.IsZero())
	assert.Equal(t, 0.0, abs.Evaluate(1, 2, 3))
	assert.False(t, abs.Validate())
}

func TestSetSourceModuleRejectsCycles(t *testing.T) {
	r := NewRegistry()
	a := mustCreate(t, r, "a", noise.Abs)
	b := mustCreate(t, r, "b", noise.Invert)
	c := mustCreate(t, r, "c", noise.Add)

	require.ErrorIs(t, a.SetSourceModule(0, a), ErrCycle)

	require.NoError(t, b.SetSourceModule(0, a))
	require.NoError(t, c.SetSourceModule(0, b))
	require.ErrorIs(t, a.SetSourceModule(0, c), ErrCycle)

	// Diamonds are fine.
	require.NoError(t, c.SetSourceModule(1, a))

	ref, err := a.SourceModule(0)
	require.NoError(t, err)
	assert.True(t, ref.IsZero(), "rejected link leaves the slot untouched")
}

func TestSetSourceModuleForeignNode(t *testing.T) {
	a := mustCreate(t, NewRegistry(), "a", noise.Perlin)
	b := mustCreate(t, NewRegistry(), "b", noise.Abs)
	require.ErrorIs(t, b.SetSourceModule(0, a), ErrForeignNode)
}

func TestSetParamRoundTripAndViolation(t *testing.T) {
	r := NewRegistry()
	n := mustCreate(t, r, "p", noise.Perlin)

	require.NoError(t, n.SetParam("octaves", param.RangedInt{Val: 8}))
	got, err := n.Params().Get("octaves")
	require.NoError(t, err)
	assert.Equal(t, param.NewRangedInt(1, 25, 8), got)

	err = n.SetParam("octaves", param.RangedInt{Val: 30})
	require.ErrorIs(t, err, param.ErrConstraintViolation)
	got, _ = n.Params().Get("octaves")
	assert.Equal(t, param.NewRangedInt(1, 25, 8), got)

	require.ErrorIs(t, n.SetParam("octaves", param.Float(3)), param.ErrTypeMismatch)
	require.ErrorIs(t, n.SetParam("missing", param.Int(1)), param.ErrNotFound)
}

func TestUpdateAppliesParamsOnlyWhenValid(t *testing.T) {
	r := NewRegistry()
	sel := mustCreate(t, r, "sel", noise.Select)
	lo := mustCreate(t, r, "lo", noise.Const)
	hi := mustCreate(t, r, "hi", noise.Const)
	ctl := mustCreate(t, r, "ctl", noise.Const)
	require.NoError(t, lo.SetParam("value", param.Float(-1)))
	require.NoError(t, hi.SetParam("value", param.Float(1)))
	require.NoError(t, ctl.SetParam("value", param.Float(0.5)))
	for _, n := range []*Node{lo, hi, ctl} {
		require.True(t, n.Update())
	}
	require.NoError(t, sel.SetSourceModule(0, lo))
	require.NoError(t, sel.SetSourceModule(1, hi))
	require.NoError(t, sel.SetSourceModule(2, ctl))
	require.True(t, sel.Update())

	// Control 0.5 is inside the default [-1, 1] window.
	assert.InDelta(t, 1.0, sel.Evaluate(0, 0, 0), 1e-9)

	// An inverted window is invalid and must not reach the evaluator.
	require.NoError(t, sel.SetParam("lower_bound", param.Float(2)))
	assert.False(t, sel.Update())
	assert.InDelta(t, 1.0, sel.Evaluate(0, 0, 0), 1e-9)

	require.NoError(t, sel.SetParam("lower_bound", param.Float(0.75)))
	require.True(t, sel.Update())
	assert.InDelta(t, -1.0, sel.Evaluate(0, 0, 0), 1e-9)
}

func TestSetNameOnlyRelabels(t *testing.T) {
	r := NewRegistry()
	n := mustCreate(t, r, "a", noise.Perlin)
	n.SetName("b")

	assert.Equal(t, "b", n.Name())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("b"))
	assert.Equal(t, []string{"a"}, r.Names())
}
