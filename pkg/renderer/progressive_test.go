package renderer

import (
	"bytes"
	"context"
	"testing"

	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/geometry"
	"github.com/mvde/go-sphere-tracer/pkg/material"
	"github.com/mvde/go-sphere-tracer/pkg/scene"
)

// nopLogger keeps test output quiet
type nopLogger struct{}

func (nopLogger) Printf(format string, args ...interface{}) {}

// testRenderScene builds a small deterministic scene for renderer tests
func testRenderScene(width int) *scene.Scene {
	s := &scene.Scene{
		Camera: geometry.NewCamera(geometry.CameraConfig{
			Center:      core.NewVec3(0, 0, 1),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			Width:       width,
			AspectRatio: 1.0,
			VFov:        60,
		}),
		GlobalIllumination: core.NewVec3(0.5, 0.7, 1.0),
		SamplingConfig: scene.SamplingConfig{
			SamplesPerPixel: 4,
			MaxDepth:        5,
		},
	}
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	return s
}

func renderOnePass(t *testing.T, numWorkers, tileSize int) []byte {
	t.Helper()

	config := ProgressiveConfig{
		TileSize:           tileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: 4,
		MaxPasses:          1,
		NumWorkers:         numWorkers,
	}
	renderer := NewProgressiveRenderer(testRenderScene(24), config, nopLogger{})
	defer renderer.stopWorkers()

	img, _, err := renderer.RenderPass(1, nil)
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}
	return img.Pix
}

func TestRenderPass_WorkerCountInvariant(t *testing.T) {
	// Sampling is seeded per pixel and sample index, so the image must
	// be byte-identical no matter how the work is scheduled
	serial := renderOnePass(t, 1, 8)
	parallel := renderOnePass(t, 4, 8)

	if !bytes.Equal(serial, parallel) {
		t.Error("Image differs between 1 and 4 workers")
	}
}

func TestRenderPass_TilePartitionInvariant(t *testing.T) {
	coarse := renderOnePass(t, 2, 16)
	fine := renderOnePass(t, 2, 5)

	if !bytes.Equal(coarse, fine) {
		t.Error("Image differs between tile sizes 16 and 5")
	}
}

func TestGetSamplesForPass_Schedule(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		NumWorkers:         1,
	}
	renderer := NewProgressiveRenderer(testRenderScene(8), config, nopLogger{})
	defer renderer.stopWorkers()

	tests := []struct {
		pass     int
		expected int
	}{
		{1, 1},  // Quick preview
		{2, 9},  // 1 + (50-1)/6 = 9 cumulative
		{3, 17},
		{6, 41},
		{7, 50}, // Final pass takes whatever remains
	}

	for _, tt := range tests {
		if got := renderer.getSamplesForPass(tt.pass); got != tt.expected {
			t.Errorf("Pass %d: expected %d cumulative samples, got %d", tt.pass, tt.expected, got)
		}
	}
}

func TestGetSamplesForPass_SinglePass(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 32,
		MaxPasses:          1,
		NumWorkers:         1,
	}
	renderer := NewProgressiveRenderer(testRenderScene(8), config, nopLogger{})
	defer renderer.stopWorkers()

	if got := renderer.getSamplesForPass(1); got != 32 {
		t.Errorf("Single pass should take all samples, got %d", got)
	}
}

func TestProgressiveRenderer_PassesAccumulate(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     1,
		MaxSamplesPerPixel: 4,
		MaxPasses:          2,
		NumWorkers:         2,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})
	defer renderer.stopWorkers()

	_, stats1, err := renderer.RenderPass(1, nil)
	if err != nil {
		t.Fatalf("Pass 1 failed: %v", err)
	}
	if stats1.MaxSamplesUsed != 1 {
		t.Errorf("Preview pass should leave 1 sample per pixel, got %d", stats1.MaxSamplesUsed)
	}

	_, stats2, err := renderer.RenderPass(2, nil)
	if err != nil {
		t.Fatalf("Pass 2 failed: %v", err)
	}
	if stats2.MaxSamplesUsed != 4 {
		t.Errorf("Final pass should reach 4 samples per pixel, got %d", stats2.MaxSamplesUsed)
	}
}

func TestProgressiveRenderer_ResetIsDeterministic(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     1,
		MaxSamplesPerPixel: 2,
		MaxPasses:          1,
		NumWorkers:         2,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})
	defer renderer.stopWorkers()

	first, _, err := renderer.RenderPass(1, nil)
	if err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	firstPix := append([]byte(nil), first.Pix...)

	renderer.Reset()

	second, _, err := renderer.RenderPass(1, nil)
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}

	if !bytes.Equal(firstPix, second.Pix) {
		t.Error("Rendering after Reset should reproduce the same image")
	}
}

func TestRenderProgressive_Channels(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     1,
		MaxSamplesPerPixel: 4,
		MaxPasses:          3,
		NumWorkers:         2,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})

	passChan, _, errChan := renderer.RenderProgressive(context.Background(), RenderOptions{})

	var passes []PassResult
	for result := range passChan {
		passes = append(passes, result)
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected render error: %v", err)
	}

	if len(passes) != 3 {
		t.Fatalf("Expected 3 pass results, got %d", len(passes))
	}
	for i, p := range passes {
		if p.PassNumber != i+1 {
			t.Errorf("Pass %d numbered %d", i+1, p.PassNumber)
		}
		if p.Image == nil {
			t.Errorf("Pass %d has no image", i+1)
		}
	}
	if !passes[len(passes)-1].IsLast {
		t.Error("Final pass should be marked IsLast")
	}
}

func TestRenderProgressive_TileUpdates(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     2,
		MaxSamplesPerPixel: 2,
		MaxPasses:          1,
		NumWorkers:         2,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})

	passChan, tileChan, errChan := renderer.RenderProgressive(context.Background(), RenderOptions{TileUpdates: true})

	tileCount := 0
	for tileChan != nil || passChan != nil {
		select {
		case _, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			tileCount++
		case _, ok := <-passChan:
			if !ok {
				passChan = nil
			}
		}
	}
	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected render error: %v", err)
	}

	// 16x16 image with 8x8 tiles gives 4 tiles. The sender drops updates
	// when the channel backs up, so only bound the count
	if tileCount < 1 || tileCount > 4 {
		t.Errorf("Expected between 1 and 4 tile updates, got %d", tileCount)
	}
}

func TestProgressiveRenderer_ReusableAfterProgressiveRun(t *testing.T) {
	// A completed RenderProgressive run shuts its worker pool down; the
	// renderer must still serve further passes after a Reset
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     1,
		MaxSamplesPerPixel: 2,
		MaxPasses:          2,
		NumWorkers:         2,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})
	defer renderer.stopWorkers()

	passChan, _, errChan := renderer.RenderProgressive(context.Background(), RenderOptions{})
	for range passChan {
	}
	if err := <-errChan; err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	renderer.Reset()

	img, stats, err := renderer.RenderPass(1, nil)
	if err != nil {
		t.Fatalf("RenderPass after a completed run failed: %v", err)
	}
	if img == nil {
		t.Fatal("Expected an image from the post-reset pass")
	}
	if stats.MaxSamplesUsed != 1 {
		t.Errorf("Post-reset preview pass should leave 1 sample per pixel, got %d", stats.MaxSamplesUsed)
	}
}

func TestRenderProgressive_BackToBackRuns(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     2,
		MaxSamplesPerPixel: 2,
		MaxPasses:          1,
		NumWorkers:         2,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})

	var images [][]byte
	for run := 0; run < 2; run++ {
		renderer.Reset()
		passChan, _, errChan := renderer.RenderProgressive(context.Background(), RenderOptions{})
		var last PassResult
		for result := range passChan {
			last = result
		}
		if err := <-errChan; err != nil {
			t.Fatalf("Run %d failed: %v", run+1, err)
		}
		images = append(images, append([]byte(nil), last.Image.Pix...))
	}

	if !bytes.Equal(images[0], images[1]) {
		t.Error("Identical runs after Reset should produce identical images")
	}
}

func TestRenderProgressive_Cancellation(t *testing.T) {
	config := ProgressiveConfig{
		TileSize:           8,
		InitialSamples:     1,
		MaxSamplesPerPixel: 4,
		MaxPasses:          4,
		NumWorkers:         1,
	}
	renderer := NewProgressiveRenderer(testRenderScene(16), config, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancelled before the first pass

	passChan, _, errChan := renderer.RenderProgressive(ctx, RenderOptions{})

	for range passChan {
	}
	if err := <-errChan; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
