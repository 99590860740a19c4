package camera

import "github.com/xGl0ck/XGEngine/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithStep sets the distance applied per input sample.
//
// Parameters:
//   - step: world units per sample (default 0.1)
//
// Returns:
//   - CameraControllerOption: functional option to set the step
func WithStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.step = step
	}
}

// WithForwardKey sets the key that moves the eye toward the look-at point.
//
// Parameters:
//   - key: the key code (default W)
//
// Returns:
//   - CameraControllerOption: functional option to set the key
func WithForwardKey(key common.Key) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.forwardKey = key
	}
}

// WithBackKey sets the key that moves the eye away from the look-at point.
//
// Parameters:
//   - key: the key code (default S)
//
// Returns:
//   - CameraControllerOption: functional option to set the key
func WithBackKey(key common.Key) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.backKey = key
	}
}
