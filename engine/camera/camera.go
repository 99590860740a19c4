package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// State is an immutable snapshot of a camera's vectors.
type State struct {
	Eye mgl32.Vec3
	At  mgl32.Vec3
	Up  mgl32.Vec3
}

type cameraImpl struct {
	mu *sync.RWMutex

	eye mgl32.Vec3
	at  mgl32.Vec3
	up  mgl32.Vec3
}

// Camera is the view of a scene: an eye position, a look-at point and an up vector.
// The renderer resolves the current chunk from the look-at point, not the eye.
type Camera interface {
	// State returns a consistent snapshot of eye, at and up.
	//
	// Returns:
	//   - State: the camera vectors
	State() State

	// Eye returns the world-space eye position.
	Eye() mgl32.Vec3

	// At returns the world-space look-at point.
	At() mgl32.Vec3

	// Up returns the up vector.
	Up() mgl32.Vec3

	// SetEye sets the eye position.
	SetEye(eye mgl32.Vec3)

	// SetAt sets the look-at point.
	SetAt(at mgl32.Vec3)

	// SetUp sets the up vector.
	SetUp(up mgl32.Vec3)

	// Set replaces all three vectors at once.
	//
	// Parameters:
	//   - eye: the eye position
	//   - at: the look-at point
	//   - up: the up vector
	Set(eye, at, up mgl32.Vec3)

	// Translate adds delta to the look-at point.
	//
	// Parameters:
	//   - delta: the offset to apply
	Translate(delta mgl32.Vec3)

	// Normal returns the unit direction from eye to at, or the zero vector when they coincide.
	//
	// Returns:
	//   - mgl32.Vec3: the viewing direction
	Normal() mgl32.Vec3

	// MoveEye moves the eye along the viewing direction. The look-at point stays put.
	//
	// Parameters:
	//   - distance: how far to move
	MoveEye(distance float32)

	// MoveEyeBack moves the eye against the viewing direction.
	//
	// Parameters:
	//   - distance: how far to move
	MoveEyeBack(distance float32)

	// ViewMatrix returns the right-handed look-at matrix, or identity for a
	// degenerate camera (eye equal to at, or a zero up vector).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera. Without options every vector is zero.
//
// Parameters:
//   - options: functional options setting the initial vectors
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.RWMutex{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cameraImpl) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{Eye: c.eye, At: c.at, Up: c.up}
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.eye
}

func (c *cameraImpl) At() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.at
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.up
}

func (c *cameraImpl) SetEye(eye mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = eye
}

func (c *cameraImpl) SetAt(at mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = at
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

func (c *cameraImpl) Set(eye, at, up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye, c.at, c.up = eye, at, up
}

func (c *cameraImpl) Translate(delta mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(delta)
}

func (c *cameraImpl) Normal() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return normal(c.eye, c.at)
}

func (c *cameraImpl) MoveEye(distance float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = c.eye.Add(normal(c.eye, c.at).Mul(distance))
}

func (c *cameraImpl) MoveEyeBack(distance float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = c.eye.Sub(normal(c.eye, c.at).Mul(distance))
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.State().ViewMatrix()
}

// ViewMatrix returns the look-at matrix for the snapshot, or identity when degenerate.
func (s State) ViewMatrix() mgl32.Mat4 {
	if s.Eye.ApproxEqual(s.At) || s.Up.Len() == 0 {
		return mgl32.Ident4()
	}
	return mgl32.LookAtV(s.Eye, s.At, s.Up)
}

func normal(eye, at mgl32.Vec3) mgl32.Vec3 {
	d := at.Sub(eye)
	if d.Len() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}
