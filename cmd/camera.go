package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	orbitSpeed  = 0.01 // radians per dragged pixel
	zoomFactor  = 0.9  // distance scale per scroll step
	minDistance = 4
	maxDistance = 60
	maxPitch    = math.Pi/2 - 0.05
)

// camera orbits the origin.
type camera struct {
	yaw, pitch, distance float32
}

func (c *camera) reset() {
	c.yaw = math.Pi / 4
	c.pitch = 0.35
	c.distance = 18
}

// orbit turns the camera by a mouse drag in pixels.
func (c *camera) orbit(dx, dy float32) {
	c.yaw -= dx * orbitSpeed
	c.pitch = mgl32.Clamp(c.pitch-dy*orbitSpeed, -maxPitch, maxPitch)
}

// zoom moves the camera along its view direction, one step per scroll unit.
func (c *camera) zoom(steps float32) {
	if steps == 0 {
		return
	}
	d := c.distance * float32(math.Pow(zoomFactor, float64(steps)))
	c.distance = mgl32.Clamp(d, minDistance, maxDistance)
}

// eye returns the camera position. The world is y-up, so the z-up result of
// SphericalToCartesian is swizzled.
func (c *camera) eye() mgl32.Vec3 {
	v := mgl32.SphericalToCartesian(c.distance, math.Pi/2-c.pitch, c.yaw)
	return mgl32.Vec3{v[0], v[2], v[1]}
}
