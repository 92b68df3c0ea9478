package geometry

import (
	"math"

	"github.com/mvde/go-sphere-tracer/pkg/core"
)

// CameraConfig contains camera configuration
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	Up            core.Vec3 // Up direction
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	DefocusAngle  float64   // Aperture cone angle in degrees (0 = pinhole)
	FocusDistance float64   // Distance to the focus plane (0 = distance to LookAt)
}

// MergeCameraConfig merges override values into a base config.
// Zero-valued override fields keep the base value.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (core.Vec3{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		merged.Up = override.Up
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.DefocusAngle != 0 {
		merged.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

// Camera converts pixel coordinates plus jitter and lens samples into
// world-space rays. All derived fields are computed once at construction;
// GetRay is a pure function of its inputs.
type Camera struct {
	Width  int
	Height int

	center       core.Vec3
	pixelOrigin  core.Vec3 // World position of the viewport's upper-left corner
	pixelDeltaX  core.Vec3 // World-space step per pixel in x
	pixelDeltaY  core.Vec3 // World-space step per pixel in y
	defocusDiskU core.Vec3 // Lens disk basis vectors, zero when pinhole
	defocusDiskV core.Vec3
	defocusAngle float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	height := int(float64(config.Width) / config.AspectRatio)
	if height < 1 {
		height = 1
	}

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}

	// Viewport dimensions from the vertical field of view
	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * focusDistance
	viewportWidth := viewportHeight * float64(config.Width) / float64(height)

	// Orthonormal camera basis
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Viewport edge vectors; y runs down the image
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaX := viewportU.Multiply(1.0 / float64(config.Width))
	pixelDeltaY := viewportV.Multiply(1.0 / float64(height))

	pixelOrigin := config.Center.
		Subtract(w.Multiply(focusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	camera := &Camera{
		Width:        config.Width,
		Height:       height,
		center:       config.Center,
		pixelOrigin:  pixelOrigin,
		pixelDeltaX:  pixelDeltaX,
		pixelDeltaY:  pixelDeltaY,
		defocusAngle: config.DefocusAngle,
	}

	if config.DefocusAngle > 0 {
		defocusRadius := focusDistance * math.Tan(config.DefocusAngle*math.Pi/360.0)
		camera.defocusDiskU = u.Multiply(defocusRadius)
		camera.defocusDiskV = v.Multiply(defocusRadius)
	}

	return camera
}

// GetRay generates a ray through pixel (i, j) for the given sub-pixel
// jitter and lens sample, both in [0,1)². The ray direction is not
// normalized; intersection math handles arbitrary-length directions.
func (c *Camera) GetRay(i, j int, pixelSample, lensSample core.Vec2) core.Ray {
	samplePos := c.pixelOrigin.
		Add(c.pixelDeltaX.Multiply(float64(i) + pixelSample.X)).
		Add(c.pixelDeltaY.Multiply(float64(j) + pixelSample.Y))

	origin := c.center
	if c.defocusAngle > 0 {
		disk := core.SamplePointInUnitDisk(lensSample)
		origin = origin.
			Add(c.defocusDiskU.Multiply(disk.X)).
			Add(c.defocusDiskV.Multiply(disk.Y))
	}

	return core.NewRay(origin, samplePos.Subtract(origin))
}

// PixelGeometry returns the world-space pixel origin and deltas, used by
// the host boundary to fill the kernel uniforms.
func (c *Camera) PixelGeometry() (origin, deltaX, deltaY core.Vec3) {
	return c.pixelOrigin, c.pixelDeltaX, c.pixelDeltaY
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 {
	return c.center
}

// DefocusDisk returns the lens disk basis vectors and the defocus angle
func (c *Camera) DefocusDisk() (diskU, diskV core.Vec3, angle float64) {
	return c.defocusDiskU, c.defocusDiskV, c.defocusAngle
}
