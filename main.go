package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/mvde/go-sphere-tracer/pkg/renderer"
	"github.com/mvde/go-sphere-tracer/pkg/scene"
)

// createScene builds a scene by name
func createScene(sceneType string) (*scene.Scene, error) {
	switch sceneType {
	case "default":
		return scene.NewDefaultScene(), nil
	case "glass":
		return scene.NewGlassScene(), nil
	default:
		return nil, fmt.Errorf("unknown scene type: %s", sceneType)
	}
}

func main() {
	sceneType := flag.String("scene", "default", "Scene type: 'default' or 'glass'")
	maxSamples := flag.Int("samples", 50, "Maximum samples per pixel")
	maxPasses := flag.Int("passes", 7, "Number of progressive passes")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Progressive Sphere Tracer")
		fmt.Println("Usage: spheretracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default - Mixed materials on a ground sphere with a sun light")
		fmt.Println("  glass   - Nested dielectric spheres under a single strong light")
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene_type>/render_<timestamp>.png")
		return
	}

	fmt.Println("Starting Progressive Sphere Tracer...")

	selectedScene, err := createScene(*sceneType)
	if err != nil {
		fmt.Printf("%v. Using default scene.\n", err)
		selectedScene, _ = createScene("default")
		*sceneType = "default"
	}

	if err := selectedScene.Validate(); err != nil {
		fmt.Printf("Invalid scene: %v\n", err)
		os.Exit(1)
	}

	outputDir := filepath.Join("output", *sceneType)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = *maxSamples
	config.MaxPasses = *maxPasses
	config.NumWorkers = *workers

	pr := renderer.NewProgressiveRenderer(selectedScene, config, renderer.NewDefaultLogger())

	startTime := time.Now()
	passChan, _, errChan := pr.RenderProgressive(context.Background(), renderer.RenderOptions{})

	var final renderer.PassResult
	for result := range passChan {
		final = result
	}
	if err := <-errChan; err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	renderTime := time.Since(startTime)
	fmt.Printf("Render completed in %v\n", renderTime)
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		final.Stats.AverageSamples, final.Stats.MinSamples, final.Stats.MaxSamplesUsed)

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		return
	}
	defer file.Close()

	if err := png.Encode(file, final.Image); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		return
	}

	fmt.Printf("Render saved as %s\n", filename)
}
