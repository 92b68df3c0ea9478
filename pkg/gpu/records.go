package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/material"
	"github.com/mvde/go-sphere-tracer/pkg/scene"
)

// MaterialKind is the integer discriminant of a flattened material record.
// The kernel side cannot dispatch through interfaces, so all per-material
// branching happens on this tag.
type MaterialKind uint32

const (
	MaterialLambertian MaterialKind = iota
	MaterialMetal
	MaterialDielectric
)

// String implements Stringer for diagnostics
func (k MaterialKind) String() string {
	switch k {
	case MaterialLambertian:
		return "lambertian"
	case MaterialMetal:
		return "metal"
	case MaterialDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(k))
	}
}

// ObjectRecordSize is the marshaled size of one ObjectRecord in bytes
const ObjectRecordSize = 64

// ObjectRecord is a sphere bound to one material, flattened into a
// fixed-size record. Offsets are into the marshaled buffer:
//
//	offset  0: Center (12 bytes) + Radius (4 bytes, fills the simd pad)
//	offset 16: material Kind (4) + Param (4) + Emission (4) + pad (4)
//	offset 32: Albedo (16 bytes)
//	offset 48: EmissionColor (16 bytes)
type ObjectRecord struct {
	Center [3]float32
	Radius float32

	Kind     MaterialKind
	Param    float32 // Fuzz for metal, refraction index for dielectric
	Emission float32 // Emission strength, lambertian only

	Albedo        [4]float32
	EmissionColor [4]float32
}

// Marshal serializes the record into a little-endian byte buffer
func (rec *ObjectRecord) Marshal() []byte {
	buf := make([]byte, ObjectRecordSize)
	putVec3(buf, 0, rec.Center)
	putFloat(buf, 12, rec.Radius)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(rec.Kind))
	putFloat(buf, 20, rec.Param)
	putFloat(buf, 24, rec.Emission)
	putVec4(buf, 32, rec.Albedo)
	putVec4(buf, 48, rec.EmissionColor)
	return buf
}

// FlattenScene converts the scene's shapes into fixed-size tagged records.
// Returns an error for shapes or materials outside the closed kernel set;
// that is a host programming error, caught before dispatch.
func FlattenScene(s *scene.Scene) ([]ObjectRecord, error) {
	records := make([]ObjectRecord, 0, len(s.Shapes))

	for i, shape := range s.Shapes {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			return nil, fmt.Errorf("shape %d: kernel supports spheres only, got %T", i, shape)
		}

		rec := ObjectRecord{
			Center: vec3ToFloat32(sphere.Center),
			Radius: float32(sphere.Radius),
		}

		switch mat := sphere.Material.(type) {
		case *material.Lambertian:
			rec.Kind = MaterialLambertian
			rec.Albedo = rgba(vec3ToFloat32(mat.Albedo))
			rec.Emission = float32(mat.Emission)
			rec.EmissionColor = rgba(vec3ToFloat32(mat.EmissionColor))
		case *material.Metal:
			rec.Kind = MaterialMetal
			rec.Albedo = rgba(vec3ToFloat32(mat.Albedo))
			rec.Param = float32(mat.Fuzz)
		case *material.Dielectric:
			rec.Kind = MaterialDielectric
			rec.Albedo = [4]float32{1, 1, 1, 1}
			rec.Param = float32(mat.RefractiveIndex)
		default:
			return nil, fmt.Errorf("shape %d: unsupported material %T", i, sphere.Material)
		}

		records = append(records, rec)
	}

	return records, nil
}

// MarshalRecords serializes a record list into one contiguous buffer
func MarshalRecords(records []ObjectRecord) []byte {
	buf := make([]byte, 0, len(records)*ObjectRecordSize)
	for i := range records {
		buf = append(buf, records[i].Marshal()...)
	}
	return buf
}

func rgba(v [3]float32) [4]float32 {
	return [4]float32{v[0], v[1], v[2], 1}
}
