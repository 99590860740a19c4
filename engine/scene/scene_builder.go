package scene

import "github.com/xGl0ck/XGEngine/engine/camera"

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(*sceneImpl)

// WithCamera sets the scene camera. Without it the scene gets a zeroed camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(c camera.Camera) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.camera = c
	}
}

// WithBackground sets the background color.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c Color) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.background = c
		s.hasBackground = true
	}
}
