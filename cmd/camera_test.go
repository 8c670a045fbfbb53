package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCameraEyeDistance(t *testing.T) {
	var c camera
	c.reset()
	assert.InDelta(t, 18, c.eye().Len(), 1e-4)
	assert.Greater(t, c.eye().Y(), float32(0))
}

func TestCameraOrbitClampsPitch(t *testing.T) {
	var c camera
	c.reset()
	yaw := c.yaw

	c.orbit(100, 0)
	assert.InDelta(t, yaw-1, c.yaw, 1e-5)

	c.orbit(0, -1e6)
	assert.InDelta(t, maxPitch, c.pitch, 1e-5)
	c.orbit(0, 1e6)
	assert.InDelta(t, -maxPitch, c.pitch, 1e-5)
	assert.InDelta(t, 18, c.eye().Len(), 1e-3)
}

func TestCameraZoom(t *testing.T) {
	var c camera
	c.reset()

	c.zoom(0)
	assert.Equal(t, float32(18), c.distance)
	c.zoom(1)
	assert.InDelta(t, 16.2, c.distance, 1e-4)
	c.zoom(100)
	assert.Equal(t, float32(minDistance), c.distance)
	c.zoom(-100)
	assert.Equal(t, float32(maxDistance), c.distance)
}
