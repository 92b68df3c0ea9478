package scene

import (
	"testing"

	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/material"
)

func testCamera() *geometry.Camera {
	return geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       100,
		AspectRatio: 1.0,
		VFov:        45,
	})
}

func validScene() *Scene {
	s := &Scene{
		Camera:         testCamera(),
		SamplingConfig: SamplingConfig{SamplesPerPixel: 10, MaxDepth: 5},
	}
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return s
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Scene)
		wantErr bool
	}{
		{"valid", func(s *Scene) {}, false},
		{"no camera", func(s *Scene) { s.Camera = nil }, true},
		{"zero samples", func(s *Scene) { s.SamplingConfig.SamplesPerPixel = 0 }, true},
		{"negative depth", func(s *Scene) { s.SamplingConfig.MaxDepth = -1 }, true},
		{"zero depth is allowed", func(s *Scene) { s.SamplingConfig.MaxDepth = 0 }, false},
		{
			"degenerate radius",
			func(s *Scene) {
				s.AddSphere(core.NewVec3(2, 0, -1), 0, material.NewLambertian(core.NewVec3(1, 1, 1)))
			},
			true,
		},
		{
			"negative radius",
			func(s *Scene) {
				s.AddSphere(core.NewVec3(2, 0, -1), -1, material.NewLambertian(core.NewVec3(1, 1, 1)))
			},
			true,
		},
		{
			"nil material",
			func(s *Scene) { s.AddSphere(core.NewVec3(2, 0, -1), 0.5, nil) },
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			tt.modify(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScene_LightCount(t *testing.T) {
	s := &Scene{}

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	if s.LightCount != 0 {
		t.Errorf("Plain lambertian should not count as a light, got %d", s.LightCount)
	}

	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, 10, core.NewVec3(1, 1, 1))
	if s.LightCount != 1 {
		t.Errorf("Expected 1 light after AddSphereLight, got %d", s.LightCount)
	}

	s.AddSphere(core.NewVec3(1, 5, 0), 1, material.NewEmissiveLambertian(core.NewVec3(0.5, 0.5, 0.5), 2, core.NewVec3(1, 1, 1)))
	if s.LightCount != 2 {
		t.Errorf("Emissive lambertian should count as a light, got %d", s.LightCount)
	}
}

func TestScene_GetShapesOrder(t *testing.T) {
	s := &Scene{}
	first := material.NewLambertian(core.NewVec3(1, 0, 0))
	second := material.NewMetal(core.NewVec3(0, 1, 0), 0)

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, first)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, second)

	shapes := s.GetShapes()
	if len(shapes) != 2 {
		t.Fatalf("Expected 2 shapes, got %d", len(shapes))
	}

	// Insertion order is preserved; it breaks intersection ties
	sphere, ok := shapes[0].(*geometry.Sphere)
	if !ok || sphere.Material != first {
		t.Error("First shape should be the first sphere added")
	}
}

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()

	if err := s.Validate(); err != nil {
		t.Fatalf("Default scene should validate, got %v", err)
	}
	if s.Camera.Width != 400 {
		t.Errorf("Expected width 400, got %d", s.Camera.Width)
	}
	if s.LightCount != 1 {
		t.Errorf("Default scene has one sun light, got %d", s.LightCount)
	}
	if s.GetGlobalIllumination() == (core.Vec3{}) {
		t.Error("Default scene should have sky ambient")
	}

	// All three material kinds are present
	var hasMetal, hasDielectric bool
	for _, shape := range s.GetShapes() {
		sphere := shape.(*geometry.Sphere)
		switch sphere.Material.(type) {
		case *material.Metal:
			hasMetal = true
		case *material.Dielectric:
			hasDielectric = true
		}
	}
	if !hasMetal || !hasDielectric {
		t.Error("Default scene should include metal and dielectric spheres")
	}
}

func TestNewDefaultScene_CameraOverride(t *testing.T) {
	s := NewDefaultScene(geometry.CameraConfig{Width: 64})

	if s.Camera.Width != 64 {
		t.Errorf("Override width 64 not applied, got %d", s.Camera.Width)
	}
	// Untouched fields keep their defaults
	if s.CameraConfig.VFov != 40.0 {
		t.Errorf("VFov should keep its default 40, got %g", s.CameraConfig.VFov)
	}
}

func TestNewGlassScene(t *testing.T) {
	s := NewGlassScene()

	if err := s.Validate(); err != nil {
		t.Fatalf("Glass scene should validate, got %v", err)
	}

	dielectrics := 0
	for _, shape := range s.GetShapes() {
		if _, ok := shape.(*geometry.Sphere).Material.(*material.Dielectric); ok {
			dielectrics++
		}
	}
	if dielectrics < 2 {
		t.Errorf("Glass scene should nest dielectric spheres, got %d", dielectrics)
	}
}
