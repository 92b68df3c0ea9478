package scene

import (
	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/material"
)

// NewGlassScene creates a dielectric showcase: nested glass spheres with a
// diffuse core, rendered under a dim ambient with a single strong light
func NewGlassScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.5, 1.5),
		LookAt:        core.NewVec3(0, 0.4, -0.5),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   1.0,
		VFov:          45.0,
		DefocusAngle:  0.0, // Pinhole keeps refraction sharp
		FocusDistance: 0.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:             geometry.NewCamera(cameraConfig),
		CameraConfig:       cameraConfig,
		GlobalIllumination: core.NewVec3(0.1, 0.1, 0.12),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:    400, // Glass needs more samples to converge
			MaxDepth:           50,
			AdaptiveMinSamples: 0.25,
			AdaptiveThreshold:  0.01,
		},
	}

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	glass := material.NewDielectric(1.5)
	innerGlass := material.NewDielectric(1.0 / 1.5) // Air pocket inside the shell
	blueCore := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))

	s.AddSphere(core.NewVec3(0, -1000, -0.5), 1000, ground)

	// Nested spheres: glass shell, air gap, diffuse core
	s.AddSphere(core.NewVec3(0, 0.4, -0.5), 0.4, glass)
	s.AddSphere(core.NewVec3(0, 0.4, -0.5), 0.35, innerGlass)
	s.AddSphere(core.NewVec3(0, 0.4, -0.5), 0.2, blueCore)

	s.AddSphereLight(core.NewVec3(3, 4, 2), 1.0, 1.0, core.NewVec3(20, 19, 18))

	return s
}
