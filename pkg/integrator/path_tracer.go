package integrator

import (
	"github.com/mvde/go-sphere-tracer/pkg/core"
)

// Epsilon for the intersection interval lower bound; suppresses
// self-intersection (shadow acne) on scattered rays.
const tMin = 0.001

// Scene interface to avoid circular imports
type Scene interface {
	GetShapes() []core.Shape
	GetGlobalIllumination() core.Vec3
}

// PathTracer computes radiance along camera rays with a bounded-depth
// bounce loop. The loop carries explicit throughput and accumulated
// radiance instead of a call stack so pixels can run as flat parallel
// work items.
type PathTracer struct {
	MaxDepth int // Maximum number of scatter bounces after the primary hit
}

// NewPathTracer creates a path tracer with the given bounce budget
func NewPathTracer(maxDepth int) *PathTracer {
	return &PathTracer{MaxDepth: maxDepth}
}

// Intersect finds the nearest hit of a ray against an ordered shape list
// within (tMin, tMax). Linear scan over all shapes: O(objects) per ray,
// acceptable for the small scenes this renderer targets. The strict-<
// comparison keeps ties resolved by scene order.
func Intersect(shapes []core.Shape, ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// RayColor computes the color for a single ray.
//
// Each iteration intersects first and then spends one unit of the bounce
// budget on scattering. A miss adds the global illumination term weighted
// by the path throughput and terminates. A hit always contributes its
// emission; the material then decides whether the path continues.
// Exhausting the budget terminates without adding further light, a
// deliberate bias at the depth cutoff rather than an error.
func (pt *PathTracer) RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	accumulated := core.Vec3{}
	shapes := scene.GetShapes()

	for bounce := 0; ; bounce++ {
		hit, isHit := Intersect(shapes, ray, tMin, 1e9)
		if !isHit {
			accumulated = accumulated.Add(throughput.MultiplyVec(scene.GetGlobalIllumination()))
			break
		}

		if emitter, isEmissive := hit.Material.(core.Emitter); isEmissive {
			emitted := emitter.Emit(ray, *hit)
			accumulated = accumulated.Add(throughput.MultiplyVec(emitted))
		}

		if bounce >= pt.MaxDepth {
			break
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			break
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	return accumulated
}
