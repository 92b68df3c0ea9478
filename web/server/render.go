package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mvde/go-sphere-tracer/pkg/renderer"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
}

// handleRender handles progressive rendering requests with SSE streaming
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj := s.createScene(req.Scene, req.Width)
	if sceneObj == nil {
		s.sendSSEError(w, "Unknown scene: "+req.Scene)
		return
	}
	if err := sceneObj.Validate(); err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid scene: %v", err))
		return
	}

	config := renderer.ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}

	pr := renderer.NewProgressiveRenderer(sceneObj, config, renderer.NewDefaultLogger())

	// Request context detects client disconnection; rendering stops
	// between passes, in-flight tiles always complete
	ctx := r.Context()
	startTime := time.Now()

	passChan, tileChan, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})

	for passChan != nil || tileChan != nil {
		select {
		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			if err := s.sendTileUpdate(w, tile, req.MaxPasses); err != nil {
				return
			}
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := s.sendPassUpdate(w, pass, req.MaxPasses, startTime); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}

	if err := <-errChan; err != nil {
		s.sendSSEError(w, fmt.Sprintf("Render error: %v", err))
		return
	}

	s.sendSSEEvent(w, "complete", "Rendering completed")
}

// sendPassUpdate encodes a completed pass as an SSE progress event
func (s *Server) sendPassUpdate(w http.ResponseWriter, pass renderer.PassResult, totalPasses int, startTime time.Time) error {
	imageData, err := s.imageToBase64PNG(pass.Image)
	if err != nil {
		return fmt.Errorf("failed to encode image: %v", err)
	}

	update := ProgressUpdate{
		PassNumber:  pass.PassNumber,
		TotalPasses: totalPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:    pass.Stats.TotalPixels,
			TotalSamples:   int64(pass.Stats.TotalSamples),
			AverageSamples: pass.Stats.AverageSamples,
			MaxSamples:     pass.Stats.MaxSamples,
			MinSamples:     pass.Stats.MinSamples,
			MaxSamplesUsed: pass.Stats.MaxSamplesUsed,
		},
		IsComplete: pass.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}

	return s.sendSSEJSON(w, "progress", update)
}

// sendTileUpdate encodes a completed tile as an SSE tile event
func (s *Server) sendTileUpdate(w http.ResponseWriter, tile renderer.TileCompletionResult, totalPasses int) error {
	imageData, err := s.imageToBase64PNG(tile.TileImage)
	if err != nil {
		return fmt.Errorf("failed to encode tile image: %v", err)
	}

	update := TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		ImageData:   imageData,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: totalPasses,
	}

	return s.sendSSEJSON(w, "tile", update)
}

// sendSSEJSON writes a JSON payload as a named SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEEvent writes a raw SSE event and flushes
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// sendSSEError writes an error event
func (s *Server) sendSSEError(w http.ResponseWriter, message string) {
	s.sendSSEEvent(w, "error", message)
}
