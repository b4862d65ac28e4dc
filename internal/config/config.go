// Package config loads the mapgen YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string       `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Sample   SampleConfig `yaml:"sample"`
	Mesh     MeshConfig   `yaml:"mesh"`
	Script   ScriptConfig `yaml:"script"`
}

// Rect is an axis-aligned rectangle in the XY sampling plane.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x" validate:"gtfield=MinX"`
	MaxY float64 `yaml:"max_y" validate:"gtfield=MinY"`
}

// SampleConfig controls heightmap sampling.
type SampleConfig struct {
	Width  int     `yaml:"width" validate:"min=1,max=4096"`
	Height int     `yaml:"height" validate:"min=1,max=4096"`
	Bounds Rect    `yaml:"bounds"`
	Z      float64 `yaml:"z"`
}

// Box is an axis-aligned box in field space.
type Box struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// MeshConfig controls isosurface extraction.
type MeshConfig struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells  int     `yaml:"cells" validate:"min=8,max=1024"`
	Bounds Box     `yaml:"bounds"`
	Iso    float64 `yaml:"iso"`
}

// ScriptConfig controls the script engine.
type ScriptConfig struct {
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Sample: SampleConfig{
			Width:  256,
			Height: 256,
			Bounds: Rect{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4},
		},
		Mesh: MeshConfig{
			Cells:  64,
			Bounds: Box{Min: [3]float64{-2, -2, -2}, Max: [3]float64{2, 2, 2}},
		},
		Script: ScriptConfig{Timeout: 5 * time.Second},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateBox, Box{})
}

// validateBox requires Min < Max on every axis.
func validateBox(sl validator.StructLevel) {
	b := sl.Current().Interface().(Box)
	for i := range 3 {
		if b.Min[i] >= b.Max[i] {
			sl.ReportError(b.Max, "Max", "max", "gtmin", fmt.Sprintf("%d", i))
		}
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads path. An empty path yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}
