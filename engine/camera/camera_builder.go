package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithEye sets the initial eye position.
//
// Parameters:
//   - eye: world-space eye position
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithEye(eye mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
	}
}

// WithAt sets the initial look-at point.
//
// Parameters:
//   - at: world-space look-at point
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAt(at mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.at = at
	}
}

// WithUp sets the initial up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}
