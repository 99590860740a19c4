package renderer

import (
	"github.com/xGl0ck/XGEngine/engine/camera"
	"github.com/xGl0ck/XGEngine/engine/scene"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithResolution sets the initial surface size. The backend is reset to it on the first render cycle.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the resolution option to a renderer
func WithResolution(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.pending = Resolution{Width: width, Height: height}
	}
}

// WithPerspective sets the projection parameters.
//
// Parameters:
//   - p: the perspective
//
// Returns:
//   - RendererBuilderOption: a function that applies the perspective option to a renderer
func WithPerspective(p camera.Perspective) RendererBuilderOption {
	return func(r *renderer) {
		r.perspective = p
	}
}

// WithDebug enables the debug overlay from the first frame.
//
// Parameters:
//   - enabled: true to draw debug lines
//
// Returns:
//   - RendererBuilderOption: a function that applies the debug option to a renderer
func WithDebug(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.debug = enabled
	}
}

// WithWorkers sets the number of worker goroutines used to encode new meshes.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - RendererBuilderOption: a function that applies the workers option to a renderer
func WithWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.workers = max(n, 1)
	}
}

// WithClearColor sets the color frames are cleared to while no scene is bound.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color scene.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}
