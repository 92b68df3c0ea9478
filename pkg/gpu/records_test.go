package gpu

import (
	"strings"
	"testing"

	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/material"
	"github.com/mvde/go-sphere-tracer/pkg/scene"
)

func TestFlattenScene_MaterialTags(t *testing.T) {
	s := &scene.Scene{}
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.3))
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5))
	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, 15, core.NewVec3(1, 0.9, 0.8))

	records, err := FlattenScene(s)
	if err != nil {
		t.Fatalf("FlattenScene failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(records))
	}

	lambertian := records[0]
	if lambertian.Kind != MaterialLambertian {
		t.Errorf("Record 0 kind = %v, want lambertian", lambertian.Kind)
	}
	if lambertian.Albedo != ([4]float32{0.7, 0.3, 0.3, 1}) {
		t.Errorf("Record 0 albedo = %v", lambertian.Albedo)
	}
	if lambertian.Emission != 0 {
		t.Errorf("Plain lambertian should have zero emission, got %g", lambertian.Emission)
	}

	metal := records[1]
	if metal.Kind != MaterialMetal {
		t.Errorf("Record 1 kind = %v, want metal", metal.Kind)
	}
	if metal.Param != 0.3 {
		t.Errorf("Metal fuzz should land in Param, got %g", metal.Param)
	}

	dielectric := records[2]
	if dielectric.Kind != MaterialDielectric {
		t.Errorf("Record 2 kind = %v, want dielectric", dielectric.Kind)
	}
	if dielectric.Param != 1.5 {
		t.Errorf("Refraction index should land in Param, got %g", dielectric.Param)
	}
	if dielectric.Albedo != ([4]float32{1, 1, 1, 1}) {
		t.Errorf("Dielectric albedo should be white, got %v", dielectric.Albedo)
	}

	light := records[3]
	if light.Emission != 15 {
		t.Errorf("Light emission = %g, want 15", light.Emission)
	}
	if light.EmissionColor != ([4]float32{1, 0.9, 0.8, 1}) {
		t.Errorf("Light emission color = %v", light.EmissionColor)
	}
}

func TestFlattenScene_GeometryFields(t *testing.T) {
	s := &scene.Scene{}
	s.AddSphere(core.NewVec3(1, 2, 3), 0.25, material.NewLambertian(core.NewVec3(1, 1, 1)))

	records, err := FlattenScene(s)
	if err != nil {
		t.Fatalf("FlattenScene failed: %v", err)
	}

	if records[0].Center != ([3]float32{1, 2, 3}) {
		t.Errorf("Center = %v", records[0].Center)
	}
	if records[0].Radius != 0.25 {
		t.Errorf("Radius = %g", records[0].Radius)
	}
}

// unsupportedMaterial is outside the closed kernel material set
type unsupportedMaterial struct{}

func (m *unsupportedMaterial) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func TestFlattenScene_UnsupportedMaterial(t *testing.T) {
	s := &scene.Scene{}
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, &unsupportedMaterial{})

	_, err := FlattenScene(s)
	if err == nil {
		t.Fatal("Expected an error for an unsupported material")
	}
	if !strings.Contains(err.Error(), "unsupported material") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestObjectRecord_Marshal(t *testing.T) {
	rec := ObjectRecord{
		Center:        [3]float32{1, 2, 3},
		Radius:        0.5,
		Kind:          MaterialMetal,
		Param:         0.25,
		Albedo:        [4]float32{0.8, 0.8, 0.9, 1},
		EmissionColor: [4]float32{0, 0, 0, 1},
	}

	buf := rec.Marshal()
	if len(buf) != ObjectRecordSize {
		t.Fatalf("Marshal produced %d bytes, want %d", len(buf), ObjectRecordSize)
	}

	// Radius fills the fourth float slot of the center's simd pad
	if got := readFloat(t, buf, 12); got != 0.5 {
		t.Errorf("Radius at offset 12 = %g, want 0.5", got)
	}
	if got := readUint32(buf, 16); got != uint32(MaterialMetal) {
		t.Errorf("Kind at offset 16 = %d, want %d", got, MaterialMetal)
	}
	if got := readFloat(t, buf, 20); got != 0.25 {
		t.Errorf("Param at offset 20 = %g, want 0.25", got)
	}
	if got := readFloat(t, buf, 32); got != 0.8 {
		t.Errorf("Albedo.r at offset 32 = %g, want 0.8", got)
	}
	if got := readFloat(t, buf, 60); got != 1 {
		t.Errorf("EmissionColor.a at offset 60 = %g, want 1", got)
	}
}

func TestMarshalRecords_Contiguous(t *testing.T) {
	records := []ObjectRecord{
		{Center: [3]float32{1, 0, 0}, Radius: 1, Kind: MaterialLambertian},
		{Center: [3]float32{2, 0, 0}, Radius: 2, Kind: MaterialDielectric},
	}

	buf := MarshalRecords(records)
	if len(buf) != 2*ObjectRecordSize {
		t.Fatalf("Expected %d bytes, got %d", 2*ObjectRecordSize, len(buf))
	}

	// Second record starts at the record stride
	if got := readFloat(t, buf, ObjectRecordSize); got != 2 {
		t.Errorf("Second record Center.x = %g, want 2", got)
	}
	if got := readUint32(buf, ObjectRecordSize+16); got != uint32(MaterialDielectric) {
		t.Errorf("Second record kind = %d, want %d", got, MaterialDielectric)
	}
}

func TestMaterialKind_String(t *testing.T) {
	tests := []struct {
		kind     MaterialKind
		expected string
	}{
		{MaterialLambertian, "lambertian"},
		{MaterialMetal, "metal"},
		{MaterialDielectric, "dielectric"},
		{MaterialKind(99), "unknown(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}
