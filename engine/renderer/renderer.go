package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/camera"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"github.com/xGl0ck/XGEngine/engine/window"
)

var (
	// ErrInvalidState is returned when an operation is called in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid renderer state")

	// ErrUnsupportedPlatform is returned by Init for window handles no backend can drive.
	ErrUnsupportedPlatform = errors.New("unsupported window platform")
)

// State is the renderer lifecycle state.
type State int

const (
	// StateUninitialized is the state after NewRenderer and before Init.
	StateUninitialized State = iota

	// StateReady accepts render cycles.
	StateReady

	// StateStopped is terminal; the backend has been shut down.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resolution is a surface size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// Aspect returns width / height, or 0 for an empty resolution.
func (r Resolution) Aspect() float32 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return float32(r.Width) / float32(r.Height)
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend Backend
	shaders shader.Manager
	meshes  *meshCache

	state       State
	scene       scene.Scene
	perspective camera.Perspective
	clearColor  scene.Color

	// pending is what callers asked for; applied is what the backend was last reset to.
	pending Resolution
	applied Resolution

	debug     bool
	debugData DebugData

	workers int
}

// Renderer drives a Backend through the frame of the bound scene: resize, camera,
// the objects of the chunk under the camera, the debug overlay, present.
//
// Every method is safe to call from any goroutine, but Init, RenderCycle and Shutdown
// must run on the goroutine that owns the window.
type Renderer interface {
	// Init initializes the backend against a native window and moves the renderer to StateReady.
	//
	// Parameters:
	//   - handle: the native window handle
	//
	// Returns:
	//   - error: ErrInvalidState if not uninitialized, ErrUnsupportedPlatform for an UnknownHandle,
	//     or the backend error
	Init(handle window.Handle) error

	// RenderCycle renders and presents one frame of the bound scene.
	// A missing scene or chunk is not an error: the frame is cleared to the background and presented.
	//
	// Returns:
	//   - error: ErrInvalidState if not ready, a shader compile error, or a backend error
	RenderCycle() error

	// Shutdown releases cached meshes and loaded shader programs, stops the mesh workers
	// and shuts the backend down.
	//
	// Returns:
	//   - error: ErrInvalidState if not ready
	Shutdown() error

	// State returns the lifecycle state.
	State() State

	// SetScene binds the scene drawn by the next render cycle. nil unbinds.
	//
	// Parameters:
	//   - s: the scene
	SetScene(s scene.Scene)

	// Scene returns the bound scene, or nil.
	Scene() scene.Scene

	// DoDebug toggles the debug overlay.
	//
	// Parameters:
	//   - enabled: true to draw debug lines
	DoDebug(enabled bool)

	// Debug reports whether the debug overlay is enabled.
	Debug() bool

	// SetDebugData replaces the debug lines.
	//
	// Parameters:
	//   - data: the lines in draw order
	SetDebugData(data DebugData)

	// PutDebugLine sets one debug line, appending it if the key is new.
	//
	// Parameters:
	//   - key: the line name
	//   - value: the line value
	PutDebugLine(key, value string)

	// DebugData returns a copy of the debug lines.
	DebugData() DebugData

	// UpdateSurfaceResolution records a new surface size; the backend is reset on the next render cycle.
	//
	// Parameters:
	//   - width: the width in pixels
	//   - height: the height in pixels
	UpdateSurfaceResolution(width, height int)

	// Resolution returns the most recently requested surface size.
	Resolution() Resolution

	// UpdatePerspective replaces the projection parameters.
	//
	// Parameters:
	//   - p: the perspective
	UpdatePerspective(p camera.Perspective)

	// Perspective returns the projection parameters.
	Perspective() camera.Perspective
}

var _ Renderer = &renderer{}

// NewRenderer creates an uninitialized Renderer.
//
// Parameters:
//   - backend: the GPU backend, not yet initialized
//   - shaders: the registry scene objects reference shaders in
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer in StateUninitialized
func NewRenderer(backend Backend, shaders shader.Manager, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backend:     backend,
		shaders:     shaders,
		state:       StateUninitialized,
		perspective: camera.DefaultPerspective(),
		clearColor:  scene.DefaultClearColor,
		workers:     4,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Init(handle window.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateUninitialized {
		return fmt.Errorf("init in state %s: %w", r.state, ErrInvalidState)
	}

	switch h := handle.(type) {
	case window.Win32Handle, window.AppKitHandle, window.XlibHandle, window.WaylandHandle:
	case nil:
		return fmt.Errorf("nil window handle: %w", ErrUnsupportedPlatform)
	default:
		return fmt.Errorf("%s: %w", h.Platform(), ErrUnsupportedPlatform)
	}

	if err := r.backend.Init(handle); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	r.backend.SetDebug(r.debug)
	r.meshes = newMeshCache(r.workers)
	r.state = StateReady

	common.Logger().Info("renderer initialized", "platform", handle.Platform())
	return nil
}

func (r *renderer) RenderCycle() error {
	r.mu.Lock()
	if r.state != StateReady {
		state := r.state
		r.mu.Unlock()
		return fmt.Errorf("render cycle in state %s: %w", state, ErrInvalidState)
	}
	s := r.scene
	pending := r.pending
	resize := pending != r.applied
	if resize {
		r.applied = pending
	}
	perspective := r.perspective
	debug := r.debug
	var lines []DebugLine
	if debug {
		lines = r.debugData.Lines()
	}
	clearColor := r.clearColor
	r.mu.Unlock()

	log := common.Logger()

	if resize {
		r.backend.Reset(pending.Width, pending.Height)
		log.Debug("surface reset", "width", pending.Width, "height", pending.Height)
	}

	if s != nil {
		if bg, ok := s.Background(); ok {
			clearColor = bg
		}
	}
	if err := r.backend.BeginFrame(clearColor); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}

	if s == nil {
		log.Warn("no scene bound, presenting background")
	} else if err := r.drawScene(s, perspective, pending); err != nil {
		return err
	}

	for row, l := range lines {
		r.backend.DebugText(row, l.String())
	}

	if err := r.backend.Frame(); err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	return nil
}

// drawScene submits every object of the chunk under the camera.
func (r *renderer) drawScene(s scene.Scene, perspective camera.Perspective, res Resolution) error {
	log := common.Logger()

	view := s.Camera().State().ViewMatrix()
	r.backend.SetViewTransform(view, perspective.Matrix(res.Aspect()))

	chunk, err := s.GetCurrentChunk()
	if err != nil {
		log.Warn("no chunk under camera, presenting background", "scene", s.Name(), "err", err)
		return nil
	}

	objects := chunk.Objects()
	if err := r.meshes.prepare(r.backend, objects); err != nil {
		return err
	}

	for i, o := range objects {
		if _, ok := o.Geometry().(*scene.ColoredMesh); !ok {
			log.Debug("skipping textured object", "chunk", chunk.Coordinate(), "index", i)
			continue
		}

		mesh, ok := r.meshes.get(o)
		if !ok {
			log.Debug("skipping empty object", "chunk", chunk.Coordinate(), "index", i)
			continue
		}

		container, ok := r.shaders.Get(o.Shader())
		if !ok {
			log.Error("object references unknown shader", "shader", o.Shader(), "chunk", chunk.Coordinate(), "index", i)
			continue
		}
		if !container.Loaded() {
			if err := container.Load(r.backend); err != nil && !errors.Is(err, shader.ErrAlreadyLoaded) {
				return fmt.Errorf("failed to load shader %q: %w", container.Label(), err)
			}
		}

		if err := r.backend.Submit(mesh, container.Program(), o.ModelMatrix()); err != nil {
			return fmt.Errorf("failed to submit object %d: %w", i, err)
		}
	}
	return nil
}

func (r *renderer) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateReady {
		return fmt.Errorf("shutdown in state %s: %w", r.state, ErrInvalidState)
	}
	r.releasePrograms()
	r.meshes.release()
	r.meshes.close()
	r.backend.Shutdown()
	r.state = StateStopped

	common.Logger().Info("renderer stopped")
	return nil
}

// releasePrograms frees every program loaded against the backend so containers can be
// loaded again by another renderer.
func (r *renderer) releasePrograms() {
	for id := range shader.ID(r.shaders.Len()) {
		if c, ok := r.shaders.Get(id); ok {
			c.Release()
		}
	}
}

func (r *renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) SetScene(s scene.Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scene = s
}

func (r *renderer) Scene() scene.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

func (r *renderer) DoDebug(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = enabled
	if r.state == StateReady {
		r.backend.SetDebug(enabled)
	}
}

func (r *renderer) Debug() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debug
}

func (r *renderer) SetDebugData(data DebugData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debugData = data.clone()
}

func (r *renderer) PutDebugLine(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debugData.Put(key, value)
}

func (r *renderer) DebugData() DebugData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debugData.clone()
}

func (r *renderer) UpdateSurfaceResolution(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = Resolution{Width: width, Height: height}
}

func (r *renderer) Resolution() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *renderer) UpdatePerspective(p camera.Perspective) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perspective = p
}

func (r *renderer) Perspective() camera.Perspective {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.perspective
}
