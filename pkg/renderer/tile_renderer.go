package renderer

import (
	"image"
	"math"

	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/integrator"
	"github.com/mvde/go-sphere-tracer/pkg/scene"
)

// TileRenderer renders the pixels of individual tiles using the path
// tracer. One instance per worker; instances share only the scene (read
// only) and the pixel stats array (partitioned by tile ownership).
type TileRenderer struct {
	scene  *scene.Scene
	tracer *integrator.PathTracer
	width  int // Image width, for pixel index computation
}

// NewTileRenderer creates a new tile renderer for the given scene
func NewTileRenderer(s *scene.Scene, width int) *TileRenderer {
	return &TileRenderer{
		scene:  s,
		tracer: integrator.NewPathTracer(s.SamplingConfig.MaxDepth),
		width:  width,
	}
}

// RenderTileBounds renders pixels within the specified bounds up to
// targetSamples total samples per pixel, accumulating into pixelStats
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	camera := tr.scene.Camera
	samplingConfig := tr.scene.SamplingConfig

	stats := initRenderStatsForBounds(bounds, targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			samplesUsed := tr.samplePixel(camera, i, j, &pixelStats[j][i], targetSamples, samplingConfig)
			updateStats(&stats, samplesUsed)
		}
	}

	finalizeStats(&stats)
	return stats
}

// samplePixel takes samples for one pixel until the pass target or
// adaptive convergence is reached. The sampler is reseeded per sample
// from the pixel and sample indices, so results do not depend on tile
// partitioning or worker scheduling.
func (tr *TileRenderer) samplePixel(camera *geometry.Camera, i, j int, ps *PixelStats, maxSamples int, samplingConfig scene.SamplingConfig) int {
	initialSampleCount := ps.SampleCount
	pixelIndex := j*tr.width + i

	for ps.SampleCount < maxSamples && !shouldStopSampling(ps, maxSamples, samplingConfig) {
		sampler := core.NewPixelSampler(pixelIndex, ps.SampleCount)
		ray := camera.GetRay(i, j, sampler.Get2D(), sampler.Get2D())
		color := tr.tracer.RayColor(ray, tr.scene, sampler)
		ps.AddSample(color)
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on
// perceptual relative error
func shouldStopSampling(ps *PixelStats, maxSamples int, samplingConfig scene.SamplingConfig) bool {
	// Minimum samples as a fraction of the target, at least 1
	minSamples := max(1, int(float64(maxSamples)*samplingConfig.AdaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}
	if samplingConfig.AdaptiveThreshold <= 0 {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Avoid division by zero for black pixels
	if mean <= 1e-8 {
		return variance < 1e-6
	}

	relativeError := math.Sqrt(variance) / mean
	return relativeError < samplingConfig.AdaptiveThreshold
}

func initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	pixelCount := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

func updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

func finalizeStats(stats *RenderStats) {
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
}
