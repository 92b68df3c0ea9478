// Package gpu defines the byte-exact host/kernel boundary: the per-frame
// uniforms snapshot and the flattened scene records a GPU-style parallel
// kernel consumes. Vector-of-3 fields occupy 16-byte slots, matching
// hardware simd_float3 alignment; consumers must not assume tight packing.
package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mvde/go-sphere-tracer/pkg/core"
	"github.com/mvde/go-sphere-tracer/pkg/scene"
)

// UniformsSize is the marshaled size of the Uniforms block in bytes
const UniformsSize = 208

// Uniforms is the read-only per-dispatch render parameter snapshot.
// Field order and alignment are load-bearing: they must match the kernel
// side exactly. Offsets below are into the marshaled little-endian buffer.
type Uniforms struct {
	Color [4]float32 // offset 0: debug/clear color (16 bytes)
	Time  float32    // offset 16: seconds since render start

	PixelDeltaX [3]float32 // offset 32: world-space step per pixel in x
	PixelDeltaY [3]float32 // offset 48: world-space step per pixel in y
	PixelOrigin [3]float32 // offset 64: world position of pixel (0,0) corner

	CameraCenter [3]float32 // offset 80: camera position
	ViewportSize [2]float32 // offset 96: output width/height in pixels

	DefocusAngle float32    // offset 104: aperture cone angle in degrees
	DefocusDiskU [3]float32 // offset 112: lens disk basis u
	DefocusDiskV [3]float32 // offset 128: lens disk basis v

	SampleCount   uint32 // offset 144: samples this dispatch
	CurrentSample uint32 // offset 148: 1-indexed sample number
	TotalSamples  uint32 // offset 152: total samples planned
	MaxRayDepth   uint32 // offset 156: bounce budget

	TileX      uint32 // offset 160: tile origin in pixels
	TileY      uint32 // offset 164
	TileWidth  uint32 // offset 168
	TileHeight uint32 // offset 172

	ObjectCount uint32 // offset 176
	LightCount  uint32 // offset 180

	GlobalIllumination [3]float32 // offset 192: ambient radiance on miss
}

// Size returns the marshaled size of the Uniforms block in bytes
func (u *Uniforms) Size() int {
	return UniformsSize
}

// Marshal serializes the uniforms into a little-endian byte buffer
// suitable for upload. Padding bytes are zero.
func (u *Uniforms) Marshal() []byte {
	buf := make([]byte, UniformsSize)
	putVec4(buf, 0, u.Color)
	putFloat(buf, 16, u.Time)
	putVec3(buf, 32, u.PixelDeltaX)
	putVec3(buf, 48, u.PixelDeltaY)
	putVec3(buf, 64, u.PixelOrigin)
	putVec3(buf, 80, u.CameraCenter)
	putFloat(buf, 96, u.ViewportSize[0])
	putFloat(buf, 100, u.ViewportSize[1])
	putFloat(buf, 104, u.DefocusAngle)
	putVec3(buf, 112, u.DefocusDiskU)
	putVec3(buf, 128, u.DefocusDiskV)
	binary.LittleEndian.PutUint32(buf[144:148], u.SampleCount)
	binary.LittleEndian.PutUint32(buf[148:152], u.CurrentSample)
	binary.LittleEndian.PutUint32(buf[152:156], u.TotalSamples)
	binary.LittleEndian.PutUint32(buf[156:160], u.MaxRayDepth)
	binary.LittleEndian.PutUint32(buf[160:164], u.TileX)
	binary.LittleEndian.PutUint32(buf[164:168], u.TileY)
	binary.LittleEndian.PutUint32(buf[168:172], u.TileWidth)
	binary.LittleEndian.PutUint32(buf[172:176], u.TileHeight)
	binary.LittleEndian.PutUint32(buf[176:180], u.ObjectCount)
	binary.LittleEndian.PutUint32(buf[180:184], u.LightCount)
	putVec3(buf, 192, u.GlobalIllumination)
	return buf
}

// Validate rejects caller contract violations before kernel dispatch.
// The per-pixel hot path never has to re-check these.
func (u *Uniforms) Validate() error {
	if u.ViewportSize[0] <= 0 || u.ViewportSize[1] <= 0 {
		return fmt.Errorf("viewport size must be positive, got %gx%g", u.ViewportSize[0], u.ViewportSize[1])
	}
	if u.CurrentSample > u.TotalSamples {
		return fmt.Errorf("current sample %d exceeds total samples %d", u.CurrentSample, u.TotalSamples)
	}
	if u.TileWidth == 0 || u.TileHeight == 0 {
		return fmt.Errorf("tile dimensions must be positive, got %dx%d", u.TileWidth, u.TileHeight)
	}
	width := uint32(u.ViewportSize[0])
	height := uint32(u.ViewportSize[1])
	if u.TileX+u.TileWidth > width || u.TileY+u.TileHeight > height {
		return fmt.Errorf("tile (%d,%d %dx%d) exceeds viewport %dx%d",
			u.TileX, u.TileY, u.TileWidth, u.TileHeight, width, height)
	}
	if u.DefocusAngle < 0 {
		return fmt.Errorf("defocus angle must be non-negative, got %g", u.DefocusAngle)
	}
	return nil
}

// BuildUniforms fills a Uniforms snapshot from a scene and sampling state.
// The scene must already be validated.
func BuildUniforms(s *scene.Scene, currentSample, totalSamples, sampleCount int, elapsed float64) Uniforms {
	camera := s.Camera
	pixelOrigin, pixelDeltaX, pixelDeltaY := camera.PixelGeometry()
	diskU, diskV, defocusAngle := camera.DefocusDisk()

	return Uniforms{
		Color:              [4]float32{0, 0, 0, 1},
		Time:               float32(elapsed),
		PixelDeltaX:        vec3ToFloat32(pixelDeltaX),
		PixelDeltaY:        vec3ToFloat32(pixelDeltaY),
		PixelOrigin:        vec3ToFloat32(pixelOrigin),
		CameraCenter:       vec3ToFloat32(camera.Center()),
		ViewportSize:       [2]float32{float32(camera.Width), float32(camera.Height)},
		DefocusAngle:       float32(defocusAngle),
		DefocusDiskU:       vec3ToFloat32(diskU),
		DefocusDiskV:       vec3ToFloat32(diskV),
		SampleCount:        uint32(sampleCount),
		CurrentSample:      uint32(currentSample),
		TotalSamples:       uint32(totalSamples),
		MaxRayDepth:        uint32(s.SamplingConfig.MaxDepth),
		TileX:              0,
		TileY:              0,
		TileWidth:          uint32(camera.Width),
		TileHeight:         uint32(camera.Height),
		ObjectCount:        uint32(len(s.Shapes)),
		LightCount:         uint32(s.LightCount),
		GlobalIllumination: vec3ToFloat32(s.GlobalIllumination),
	}
}

// WithTile returns a copy of the uniforms scoped to one tile
func (u Uniforms) WithTile(x, y, width, height int) Uniforms {
	u.TileX = uint32(x)
	u.TileY = uint32(y)
	u.TileWidth = uint32(width)
	u.TileHeight = uint32(height)
	return u
}

func vec3ToFloat32(v core.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func putFloat(buf []byte, offset int, f float32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(f))
}

func putVec3(buf []byte, offset int, v [3]float32) {
	putFloat(buf, offset, v[0])
	putFloat(buf, offset+4, v[1])
	putFloat(buf, offset+8, v[2])
}

func putVec4(buf []byte, offset int, v [4]float32) {
	putFloat(buf, offset, v[0])
	putFloat(buf, offset+4, v[1])
	putFloat(buf, offset+8, v[2])
	putFloat(buf, offset+12, v[3])
}
