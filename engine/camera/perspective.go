package camera

import "github.com/go-gl/mathgl/mgl32"

// Perspective holds the projection settings of a renderer. The field of view is in degrees.
type Perspective struct {
	FovDegrees float32
	Near       float32
	Far        float32
}

// DefaultPerspective returns a 60 degree perspective with a 0.1..100 depth range.
func DefaultPerspective() Perspective {
	return Perspective{FovDegrees: 60, Near: 0.1, Far: 100}
}

// Matrix returns the OpenGL-convention projection matrix (clip z in [-1, 1]).
// A non-positive aspect ratio is treated as 1.
//
// Parameters:
//   - aspect: surface width divided by height
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func (p Perspective) Matrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(p.FovDegrees), aspect, p.Near, p.Far)
}
