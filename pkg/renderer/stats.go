package renderer

import "github.com/mvde/go-sphere-tracer/pkg/core"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples allowed per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
}

// PixelStats is the accumulation cell for a single pixel. It persists
// across passes and is only ever touched by the worker that currently
// owns the pixel, so no locking is needed.
type PixelStats struct {
	Mean             core.Vec3 // Running average color
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample merges a new color sample into the running average:
// newAvg = oldAvg + (sample - oldAvg) / n. Equivalent to the arithmetic
// mean of all samples regardless of the order they arrive in.
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.SampleCount++
	delta := color.Subtract(ps.Mean)
	ps.Mean = ps.Mean.Add(delta.Multiply(1.0 / float64(ps.SampleCount)))

	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	return ps.Mean
}

// Reset clears all accumulated state, e.g. after a camera move
func (ps *PixelStats) Reset() {
	*ps = PixelStats{}
}
