package scene

import (
	"fmt"

	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/material"
)

// Scene contains all the elements needed for rendering. Shapes are an
// ordered sequence; order only breaks ties between exactly equidistant
// hits. The scene is read-only for the duration of a render pass.
type Scene struct {
	Camera             *geometry.Camera
	Shapes             []core.Shape // Objects in the scene
	LightCount         int          // Number of emissive objects
	GlobalIllumination core.Vec3    // Ambient radiance returned on miss
	SamplingConfig     SamplingConfig
	CameraConfig       geometry.CameraConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel    int     // Number of rays per pixel
	MaxDepth           int     // Maximum ray bounce depth
	AdaptiveMinSamples float64 // Minimum samples as fraction of max (0.0-1.0)
	AdaptiveThreshold  float64 // Relative error threshold for adaptive convergence (0.01 = 1%)
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat core.Material) {
	s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, mat))
	if emitter, ok := mat.(core.Emitter); ok {
		// Count lights so the flattened kernel records agree with the host
		if lam, isLam := emitter.(*material.Lambertian); !isLam || lam.Emission > 0 {
			s.LightCount++
		}
	}
}

// AddSphereLight adds an emissive sphere to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission float64, emissionColor core.Vec3) {
	mat := material.NewEmissiveLambertian(core.Vec3{}, emission, emissionColor)
	s.AddSphere(center, radius, mat)
}

// GetShapes returns the scene's ordered shape list
func (s *Scene) GetShapes() []core.Shape {
	return s.Shapes
}

// GetGlobalIllumination returns the ambient radiance used on ray miss
func (s *Scene) GetGlobalIllumination() core.Vec3 {
	return s.GlobalIllumination
}

// Validate checks the scene against the host-boundary contract before any
// kernel work is dispatched. Violations here are caller errors, not
// render-time faults.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("scene has no camera")
	}
	if s.SamplingConfig.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", s.SamplingConfig.SamplesPerPixel)
	}
	if s.SamplingConfig.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", s.SamplingConfig.MaxDepth)
	}
	for i, shape := range s.Shapes {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			continue
		}
		if sphere.Radius <= 0 {
			return fmt.Errorf("sphere %d has degenerate radius %g", i, sphere.Radius)
		}
		if sphere.Material == nil {
			return fmt.Errorf("sphere %d has no material", i)
		}
	}
	return nil
}
