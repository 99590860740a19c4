package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/event"
)

// CameraController moves a camera in response to InteractEvents: mouse movement shifts
// the look-at point against the cursor delta, the forward and back keys move the eye.
type CameraController interface {
	// Subscribe registers the controller for InteractEvents on the engine topic.
	//
	// Parameters:
	//   - bus: the engine event bus
	Subscribe(bus *event.Bus)

	// Handle applies one input sample to the target camera.
	//
	// Parameters:
	//   - ev: the input event
	Handle(ev *event.InteractEvent)
}

type cameraControllerImpl struct {
	target func() Camera

	step       float32
	forwardKey common.Key
	backKey    common.Key
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller driving the camera returned by target.
// target is evaluated per event so the controller follows scene switches.
//
// Parameters:
//   - target: returns the camera to move, or nil to ignore input
//   - options: functional options for step size and key bindings
//
// Returns:
//   - CameraController: the controller
func NewCameraController(target func() Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		target:     target,
		step:       0.1,
		forwardKey: common.KeyW,
		backKey:    common.KeyS,
	}
	for _, opt := range options {
		opt(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, event.TopicEngine, cc.Handle)
}

func (cc *cameraControllerImpl) Handle(ev *event.InteractEvent) {
	cam := cc.target()
	if cam == nil {
		return
	}

	switch ev.Kind {
	case event.InteractMouse:
		var delta mgl32.Vec3
		delta[0] = -sign(ev.Mouse.Delta.X()) * cc.step
		delta[1] = -sign(ev.Mouse.Delta.Y()) * cc.step
		cam.Translate(delta)
	case event.InteractKeyboard:
		switch ev.Key {
		case cc.forwardKey:
			cam.MoveEye(cc.step)
		case cc.backKey:
			cam.MoveEyeBack(cc.step)
		}
	}
}

func sign(v float32) float32 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
