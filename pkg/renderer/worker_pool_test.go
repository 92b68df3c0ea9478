package renderer

import (
	"testing"
)

func TestWorkerPool_BuffersFullGridOfSmallTiles(t *testing.T) {
	// The pass driver submits every tile before draining any result, so
	// the pool's channel buffers must hold the whole grid even when the
	// tile size is small. 24x24 at tile size 5 is 25 tiles.
	width, height, tileSize := 24, 24, 5
	s := testRenderScene(width)

	pool := NewWorkerPool(s, width, height, tileSize, 2)
	pool.Start()
	defer pool.Stop()

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, tileSize)
	if len(tiles) != 25 {
		t.Fatalf("Expected 25 tiles, got %d", len(tiles))
	}

	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    1,
			TargetSamples: 1,
			TaskID:        taskID,
			PixelStats:    pixelStats,
		})
	}

	seen := make(map[int]bool)
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed before all tiles completed")
		}
		if result.Error != nil {
			t.Fatalf("Tile %d failed: %v", result.TaskID, result.Error)
		}
		if seen[result.TaskID] {
			t.Fatalf("Tile %d reported twice", result.TaskID)
		}
		seen[result.TaskID] = true
	}

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d distinct results, got %d", len(tiles), len(seen))
	}
}
