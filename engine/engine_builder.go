package engine

import (
	"os"

	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/config"
	"github.com/xGl0ck/XGEngine/engine/event"
	"github.com/xGl0ck/XGEngine/engine/renderer"
	"github.com/xGl0ck/XGEngine/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics in the debug overlay.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer rather than building one from the configuration during Init.
// The renderer must still be uninitialized.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithBackend sets the backend the renderer created during Init draws with, in place of the
// one named by the configuration. Ignored when WithRenderer supplies the renderer.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(b renderer.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.backend = b
	}
}

// WithBus replaces the event bus created by NewEngine.
//
// Parameters:
//   - b: the bus
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBus(b *event.Bus) EngineBuilderOption {
	return func(e *engine) {
		if b != nil {
			e.bus = b
		}
	}
}

// WithConfig applies a loaded configuration: the frame limit, the profiler switch and a
// text logger on stderr at the configured level. The window and renderer created during
// Init follow the rest of it.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
		e.renderFrameLimit = frameDuration(float64(cfg.Render.FrameLimit))
		e.profilingEnabled = cfg.Render.Debug
		if cfg.LogLevel != "" {
			common.SetLogger(common.NewTextLogger(os.Stderr, cfg.LogLevel))
		}
	}
}

// WithInitializer appends a function run during Init.
// Initializers run in registration order; the first error aborts Init.
//
// Parameters:
//   - fn: the initializer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithInitializer(fn Initializer) EngineBuilderOption {
	return func(e *engine) {
		e.initializers = append(e.initializers, fn)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the host loop.
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
