package material

import (
	"github.com/mvde/go-sphere-tracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material. An optional
// emission term turns the surface into a light; emission adds to the
// outgoing radiance while scattering proceeds independently.
type Lambertian struct {
	Albedo        core.Vec3 // Base color/reflectance
	Emission      float64   // Emission strength (0 = non-emissive)
	EmissionColor core.Vec3 // Emitted light color
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// NewEmissiveLambertian creates a lambertian material that also emits light
func NewEmissiveLambertian(albedo core.Vec3, emission float64, emissionColor core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo, Emission: emission, EmissionColor: emissionColor}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	// Cosine-weighted diffuse approximation: normal plus a random unit vector
	scatterDirection := hit.Normal.Add(core.SampleUnitVector(sampler.Get2D()))

	// Catch the degenerate case where the random vector nearly cancels the normal
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}

// Emit implements the Emitter interface
func (l *Lambertian) Emit(rayIn core.Ray, hit core.HitRecord) core.Vec3 {
	if l.Emission <= 0 {
		return core.Vec3{}
	}
	return l.EmissionColor.Multiply(l.Emission)
}
