package compiler

import (
	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"

	"cogentcore.org/core/math32"
)

// ============================================================
// Camera Autoframe
// ============================================================

const (
	DefaultFov = 60

	cameraNear    = 0.1
	cameraFarMin  = 1000
	cameraFarMult = 10
)

// FrameDistance: расстояние, на котором конус обзора fovDeg охватывает maxDim,
// деленное на zoom. Zoom зажимается в допустимый диапазон.
func FrameDistance(maxDim, fovDeg float32, zoom float64) float32 {
	if maxDim <= 0 {
		maxDim = 1
	}
	if fovDeg <= 0 || fovDeg >= 180 {
		fovDeg = DefaultFov
	}
	z := float32(max(models.MinZoom, min(models.MaxZoom, zoom)))
	return maxDim / math32.Sin(math32.DegToRad(fovDeg)/2) / z
}

// Autoframe ставит камеру на изометрическую диагональ от центра bounds
// и нацеливает на центр камеру и орбитальные контролы.
func Autoframe(bounds math32.Box3, zoom float64, fovDeg, aspect float32) (scene.Camera, scene.Controls) {
	if fovDeg <= 0 || fovDeg >= 180 {
		fovDeg = DefaultFov
	}
	center := bounds.Center()
	size := bounds.Size()
	maxDim := math32.Max(size.X, math32.Max(size.Y, size.Z))

	dist := FrameDistance(maxDim, fovDeg, zoom)
	offset := math32.Vec3(1, 1, 1).Normal().MulScalar(dist)

	cam := scene.Camera{
		Fov:      fovDeg,
		Aspect:   aspect,
		Near:     cameraNear,
		Far:      math32.Max(cameraFarMin, cameraFarMult*dist),
		Position: center.Add(offset),
		Target:   center,
		Distance: dist,
	}
	return cam, scene.Controls{Target: center, Damping: true}
}
