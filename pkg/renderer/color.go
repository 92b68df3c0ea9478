package renderer

import (
	"image/color"

	"github.com/mvde/go-sphere-tracer/pkg/core"
)

// Vec3ToRGBA converts a linear color to 8-bit RGBA with gamma correction
// and clamping. Accumulation always happens in linear space; this runs
// only at output time.
func Vec3ToRGBA(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
