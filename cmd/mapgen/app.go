package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/chazu/mapgen/internal/config"
	"github.com/chazu/mapgen/pkg/engine"
	"github.com/chazu/mapgen/pkg/graph"
	"github.com/chazu/mapgen/pkg/kernel"
	"github.com/chazu/mapgen/pkg/kernel/sdfx"
	"github.com/chazu/mapgen/pkg/metrics"
	"github.com/chazu/mapgen/pkg/noise"
	"github.com/chazu/mapgen/pkg/param"
	"github.com/chazu/mapgen/pkg/tessellate"
)

// App ties the script engine, the geometry kernel and the metrics registry
// together for the CLI commands.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *engine.Engine
	kernel  kernel.Kernel
	metrics *prometheus.Registry
}

// ScriptError carries the eval errors of a failed script run.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return "script failed: " + strings.Join(msgs, "; ")
}

// NodeReport describes one node after a script run.
type NodeReport struct {
	Name    string
	Type    string
	Valid   bool
	Sources []string
	Params  string
}

// TypeInfo describes a node type for the types command.
type TypeInfo struct {
	Name     string
	Sources  int
	Defaults string
}

// MetricSample is one gathered metric value.
type MetricSample struct {
	Name  string
	Value float64
}

// NewApp creates an App configured by cfg, with the sdfx kernel and a
// private Prometheus registry.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheus(reg)
	return &App{
		cfg:    cfg,
		logger: logger,
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Script.Timeout),
			engine.WithLogger(logger),
			engine.WithRecorder(rec),
		),
		kernel:  sdfx.New(),
		metrics: reg,
	}
}

// Evaluate runs source and returns the resulting graph. Script errors come
// back as a *ScriptError.
func (a *App) Evaluate(source string) (*engine.Result, error) {
	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.logger.Error("evaluate fatal error", "error", err)
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Errors: evalErrs}
	}
	a.logger.Debug("script evaluated", "nodes", res.Registry.Size(), "output", res.Output)
	return res, nil
}

// EvaluateFile reads and runs the script at path.
func (a *App) EvaluateFile(path string) (*engine.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return a.Evaluate(string(src))
}

// Report lists every node in creation order.
func (a *App) Report(res *engine.Result) []NodeReport {
	out := make([]NodeReport, 0, res.Registry.Size())
	for name, n := range res.Registry.All() {
		r := NodeReport{
			Name:  name,
			Type:  n.Type().String(),
			Valid: n.IsValid(),
		}
		for i := range n.SourceModuleCount() {
			ref, _ := n.SourceModule(i)
			r.Sources = append(r.Sources, describeRef(ref))
		}
		r.Params = formatParams(n.Params())
		out = append(out, r)
	}
	return out
}

func describeRef(ref graph.Ref) string {
	if ref.IsZero() {
		return "-"
	}
	target, ok := ref.Get()
	if !ok {
		return "(removed " + ref.ID().String() + ")"
	}
	return target.Name()
}

// formatParams renders m as space-separated name=value pairs. Ranged
// values carry their bounds without spaces, as in octaves=6[1..25].
func formatParams(m *param.Map) string {
	var parts []string
	m.ForEach(func(name string, v param.Value) {
		text := v.String()
		if lo, hi, ok := param.Range(v); ok {
			text = fmt.Sprintf("%g[%g..%g]", param.Number(v), lo, hi)
		}
		parts = append(parts, name+"="+text)
	})
	return strings.Join(parts, " ")
}

// Grid returns the configured sampling grid.
func (a *App) Grid() tessellate.Grid {
	s := a.cfg.Sample
	return tessellate.Grid{
		Width:  s.Width,
		Height: s.Height,
		MinX:   s.Bounds.MinX,
		MinY:   s.Bounds.MinY,
		MaxX:   s.Bounds.MaxX,
		MaxY:   s.Bounds.MaxY,
		Z:      s.Z,
	}
}

// Sample samples the script's output node over the configured grid.
func (a *App) Sample(res *engine.Result) (*tessellate.Samples, error) {
	out, err := res.OutputNode()
	if err != nil {
		return nil, err
	}
	if !out.IsValid() {
		a.logger.Warn("sampling invalid node", "name", res.Output)
	}
	return tessellate.Heightmap(out, a.Grid())
}

// Solid builds the output node's solid. A positive terrain amplitude gives
// a heightfield slab over the sampling rectangle; otherwise the isosurface
// over the configured mesh bounds is used.
func (a *App) Solid(res *engine.Result, terrain float64) (kernel.Solid, error) {
	out, err := res.OutputNode()
	if err != nil {
		return nil, err
	}
	if terrain > 0 {
		return tessellate.Terrain(out, a.kernel, a.Grid(), terrain)
	}
	b := kernel.Bounds{Min: a.cfg.Mesh.Bounds.Min, Max: a.cfg.Mesh.Bounds.Max}
	return tessellate.Isosurface(out, a.kernel, b, a.cfg.Mesh.Iso)
}

// Mesh renders the output node's solid into a triangle mesh.
func (a *App) Mesh(res *engine.Result, terrain float64) (*kernel.Mesh, error) {
	s, err := a.Solid(res, terrain)
	if err != nil {
		return nil, err
	}
	return tessellate.Mesh(a.kernel, s, a.cfg.Mesh.Cells, res.Output)
}

// WriteSTL renders the output node's solid to path.
func (a *App) WriteSTL(res *engine.Result, terrain float64, path string) error {
	s, err := a.Solid(res, terrain)
	if err != nil {
		return err
	}
	if err := a.kernel.WriteSTL(s, a.cfg.Mesh.Cells, path); err != nil {
		a.logger.Error("stl export failed", "path", path, "error", err)
		return err
	}
	a.logger.Info("stl written", "path", path, "node", res.Output)
	return nil
}

// Metrics gathers the counters and gauges recorded so far, sorted by name.
func (a *App) Metrics() ([]MetricSample, error) {
	families, err := a.metrics.Gather()
	if err != nil {
		return nil, err
	}
	var out []MetricSample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				pairs := make([]string, len(labels))
				for i, l := range labels {
					pairs[i] = l.GetName() + "=" + l.GetValue()
				}
				name += "{" + strings.Join(pairs, ",") + "}"
			}
			var v float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				v = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			out = append(out, MetricSample{Name: name, Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Types describes every node type that has an evaluator.
func Types() []TypeInfo {
	var out []TypeInfo
	for _, t := range noise.NodeTypes() {
		if !noise.Supported(t) {
			continue
		}
		count, _ := noise.SourceCount(t)
		defaults, _ := noise.DefaultParameters(t)
		out = append(out, TypeInfo{
			Name:     t.String(),
			Sources:  count,
			Defaults: formatParams(defaults),
		})
	}
	return out
}
