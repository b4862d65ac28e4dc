package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
)

func findings(errs []ValidationError, node string) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e.Node == node {
			out = append(out, e)
		}
	}
	return out
}

func TestValidateCleanGraph(t *testing.T) {
	r := NewRegistry()
	a := mustCreate(t, r, "a", noise.Perlin)
	b := mustCreate(t, r, "b", noise.Abs)
	require.NoError(t, b.SetSourceModule(0, a))

	errs := r.Validate()
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
	assert.False(t, a.IsValid(), "Validate report leaves cached state alone")
}

func TestValidateReportsSlots(t *testing.T) {
	r := NewRegistry()
	a := mustCreate(t, r, "a", noise.Perlin)
	blend := mustCreate(t, r, "blend", noise.Blend)
	require.NoError(t, blend.SetSourceModule(0, a))
	require.NoError(t, blend.SetSourceModule(1, a))
	r.Remove("a")

	errs := findings(r.Validate(), "blend")
	require.Len(t, errs, 3)
	assert.Equal(t, 0, errs[0].Slot)
	assert.Contains(t, errs[0].Message, "removed")
	assert.Equal(t, 2, errs[2].Slot)
	assert.Equal(t, "source not connected", errs[2].Message)
	assert.True(t, HasErrors(errs))
	assert.Equal(t, `[error] node "blend" slot 2: source not connected`, errs[2].Error())
}

func TestValidateReportsParams(t *testing.T) {
	r := NewRegistry()
	c := mustCreate(t, r, "clamp", noise.Clamp)
	src := mustCreate(t, r, "src", noise.Const)
	require.NoError(t, c.SetSourceModule(0, src))
	require.NoError(t, c.SetParam("lower_bound", param.Float(5)))

	errs := findings(r.Validate(), "clamp")
	require.Len(t, errs, 1)
	assert.Equal(t, -1, errs[0].Slot)
	assert.True(t, strings.HasPrefix(errs[0].Error(), `[error] node "clamp":`))
	assert.Contains(t, errs[0].Message, "clamp evaluator")
}

func TestValidateWarnsOnLabelDrift(t *testing.T) {
	r := NewRegistry()
	n := mustCreate(t, r, "a", noise.Perlin)
	n.SetName("other")

	errs := r.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, SeverityWarning, errs[0].Severity)
	assert.Equal(t, "a", errs[0].Node)
	assert.False(t, HasErrors(errs))
}

func TestValidateDetectsCycle(t *testing.T) {
	r := NewRegistry()
	a := mustCreate(t, r, "a", noise.Abs)
	b := mustCreate(t, r, "b", noise.Abs)
	require.NoError(t, b.SetSourceModule(0, a))
	// Bypass the link check to build the cycle directly.
	a.slots[0] = b.Ref()

	var cyc int
	for _, e := range r.Validate() {
		if e.Message == "node is part of a cycle" {
			cyc++
		}
	}
	assert.Equal(t, 1, cyc)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "ValidationSeverity(7)", ValidationSeverity(7).String())
	assert.Equal(t, "[warning] graph empty", ValidationError{Severity: SeverityWarning, Message: "graph empty"}.Error())
}
