package scene

import (
	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres of each material
// kind on a large ground sphere, lit by an emissive sphere plus ambient sky
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2),
		LookAt:        core.NewVec3(0, 0.5, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		DefocusAngle:  0.6, // Mild depth of field blur
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:             geometry.NewCamera(cameraConfig),
		CameraConfig:       cameraConfig,
		GlobalIllumination: core.NewVec3(0.5, 0.7, 1.0), // Blue sky ambient
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:    200,
			MaxDepth:           50,
			AdaptiveMinSamples: 0.15,
			AdaptiveThreshold:  0.01,
		},
	}

	// Materials
	ground := material.NewLambertian(core.NewVec3(0.48, 0.48, 0.0))
	matteRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	silver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)

	// Huge ground sphere stands in for an infinite plane
	s.AddSphere(core.NewVec3(0, -1000, -1), 1000, ground)

	s.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, matteRed)
	s.AddSphere(core.NewVec3(-1, 0.5, -1), 0.5, silver)
	s.AddSphere(core.NewVec3(1, 0.5, -1), 0.5, gold)
	s.AddSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass)

	// Sun-like emissive sphere
	s.AddSphereLight(core.NewVec3(30, 30.5, 15), 10, 1.0, core.NewVec3(15.0, 14.0, 13.0))

	return s
}
