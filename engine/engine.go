package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xGl0ck/XGEngine/common"
	"github.com/xGl0ck/XGEngine/engine/config"
	"github.com/xGl0ck/XGEngine/engine/event"
	"github.com/xGl0ck/XGEngine/engine/profiler"
	"github.com/xGl0ck/XGEngine/engine/renderer"
	"github.com/xGl0ck/XGEngine/engine/renderer/shader"
	"github.com/xGl0ck/XGEngine/engine/scene"
	"github.com/xGl0ck/XGEngine/engine/window"
)

var (
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("engine already initialized")

	// ErrNotInitialized is returned by Run before Init succeeded.
	ErrNotInitialized = errors.New("engine not initialized")
)

// Initializer runs once during Init, before the renderer is initialized and before the engine
// subscribes its own handlers.
// Initializers register shaders, build scenes and subscribe to events.
type Initializer func(e Engine) error

// engine implements the Engine interface.
// Owns the bus, the shaders, the scenes, the renderer and the window, and runs the host loop.
type engine struct {
	mu *sync.Mutex

	bus         *event.Bus
	shaders     shader.Manager
	environment Environment
	renderer    renderer.Renderer
	backend     renderer.Backend
	window      window.Window
	newWindow   func(config.Config) window.Window
	cfg         config.Config

	initializers []Initializer
	initialized  bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
}

// Engine is the main entry point for the engine.
// It wires the scenes to the renderer through the event bus and drives the host loop.
type Engine interface {
	// Bus returns the event bus every engine component publishes on.
	Bus() *event.Bus

	// Shaders returns the shader manager.
	Shaders() shader.Manager

	// Environment returns the scene environment.
	Environment() Environment

	// Renderer returns the renderer, or nil before Init when none was supplied.
	Renderer() renderer.Renderer

	// Window returns the underlying window, or nil before Init when none was supplied.
	Window() window.Window

	// Config returns the configuration the engine was built with.
	Config() config.Config

	// AddShader registers a shader container.
	//
	// Parameters:
	//   - c: the container
	//
	// Returns:
	//   - shader.ID: the id scene objects reference the container by
	AddShader(c shader.Container) shader.ID

	// GetShader returns the container registered under id.
	//
	// Parameters:
	//   - id: the shader id
	//
	// Returns:
	//   - shader.Container: the shared container
	//   - bool: false if id was never returned by AddShader
	GetShader(id shader.ID) (shader.Container, bool)

	// Init creates the window and renderer when none were supplied, runs the initializers
	// in registration order, initializes the renderer against the window, renders the default
	// scene, subscribes the scene and action handlers and dispatches an InitEvent.
	// On failure nothing stays subscribed, a window or renderer created by Init is discarded
	// and Init may be called again.
	//
	// Returns:
	//   - error: the first initializer error, a renderer error, or ErrAlreadyInitialized
	Init() error

	// Run polls the window and renders frames until the window closes or Quit is called.
	// On exit it dispatches a ShutdownEvent, shuts the renderer down and closes the window.
	//
	// Returns:
	//   - error: the render error or recovered panic that ended the loop, or nil
	Run() error

	// Quit stops the host loop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// EnableProfiler enables frame statistics in the debug overlay.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the host loop.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// Options are applied in order to the engine struct; the environment is created afterwards
// on the final bus.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		bus:         event.NewBus(),
		shaders:     shader.NewManager(),
		cfg:         config.Default(),
		newWindow:   newConfiguredWindow,
		profiler:    profiler.NewProfiler(),
		quitChannel: make(chan struct{}),
	}
	e.renderFrameLimit = frameDuration(float64(e.cfg.Render.FrameLimit))

	for _, opt := range options {
		opt(e)
	}

	e.environment = NewEnvironment(e.bus)
	return e
}

func (e *engine) Bus() *event.Bus {
	return e.bus
}

func (e *engine) Shaders() shader.Manager {
	return e.shaders
}

func (e *engine) Environment() Environment {
	return e.environment
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) AddShader(c shader.Container) shader.ID {
	return e.shaders.Add(c)
}

func (e *engine) GetShader(id shader.ID) (shader.Container, bool) {
	return e.shaders.Get(id)
}

func (e *engine) Init() (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return ErrAlreadyInitialized
	}

	var createdWindow, createdRenderer, rendererReady bool
	defer func() {
		if err == nil {
			return
		}
		if rendererReady {
			if shutdownErr := e.renderer.Shutdown(); shutdownErr != nil {
				common.Logger().Warn("renderer shutdown failed", "error", shutdownErr)
			}
		}
		if createdRenderer {
			e.renderer = nil
		}
		if createdWindow {
			if closeErr := e.window.Close(); closeErr != nil {
				common.Logger().Warn("window close failed", "error", closeErr)
			}
			e.window = nil
		}
	}()

	if e.window == nil {
		e.window = e.newWindow(e.cfg)
		createdWindow = true
	}
	if e.renderer == nil {
		r, err := newConfiguredRenderer(e.cfg, e.backend, e.shaders, e.window)
		if err != nil {
			return err
		}
		e.renderer = r
		createdRenderer = true
	}

	for i, initializer := range e.initializers {
		if err := initializer(e); err != nil {
			return fmt.Errorf("initializer %d: %w", i, err)
		}
	}

	if err := e.renderer.Init(e.window.Handle()); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	rendererReady = true

	// The default scene is switched to before the engine handlers exist so a failure leaves
	// nothing subscribed; initializer handlers can still veto it.
	if _, err := e.environment.RenderScene(scene.DefaultSceneName); err != nil {
		return fmt.Errorf("failed to render default scene: %w", err)
	}
	if s := e.environment.CurrentScene(); s != nil {
		e.renderer.SetScene(s)
	}

	event.Subscribe(e.bus, event.TopicEngine, func(ev *scene.ChangeSceneEvent) {
		e.renderer.SetScene(ev.Scene)
	})
	event.Subscribe(e.bus, event.TopicEngine, e.handleAction)
	e.bindWindow()

	e.initialized = true
	common.Logger().Info("engine initialized", "scenes", e.environment.SceneNames(), "shaders", e.shaders.Len())
	event.Dispatch(e.bus, event.TopicEngine, &event.InitEvent{})
	return nil
}

// bindWindow forwards window input to the bus.
func (e *engine) bindWindow() {
	e.window.SetKeyDownCallback(func(key common.Key) {
		event.Dispatch(e.bus, event.TopicEngine, event.NewKeyboardEvent(key))
	})
	e.window.SetMouseMoveCallback(func(cursor, delta mgl32.Vec2) {
		event.Dispatch(e.bus, event.TopicEngine, event.NewMouseEvent(event.MouseData{
			Cursor: cursor,
			Delta:  delta,
		}))
	})
	e.window.SetResizeCallback(func(width, height int) {
		event.Dispatch(e.bus, event.TopicEngine, event.NewActionEvent(event.UpdateResolution{
			Width:  width,
			Height: height,
		}))
	})
}

// handleAction applies an ActionEvent. A scene change that fails or is vetoed cancels the
// action so the dispatcher sees the reason.
func (e *engine) handleAction(ev *event.ActionEvent) {
	switch a := ev.Action.(type) {
	case event.ChangeScene:
		res, err := e.environment.RenderScene(a.Name)
		if err != nil {
			common.Logger().Warn("scene change failed", "scene", a.Name, "error", err)
			ev.Cancel(err.Error())
			return
		}
		if !res.Passed() {
			ev.Cancel(res.Reason)
		}
	case event.UpdateResolution:
		e.renderer.UpdateSurfaceResolution(a.Width, a.Height)
	case event.ViewportUpdate:
		if s := e.environment.CurrentScene(); s != nil {
			s.Camera().Set(a.Eye, a.At, a.Up)
		}
	case event.ToggleDebug:
		e.renderer.DoDebug(a.Enabled)
	}
}

func (e *engine) Run() error {
	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()
	if !initialized {
		return ErrNotInitialized
	}

	err := e.loop()
	e.shutdown()
	return err
}

// loop runs frames on the calling goroutine, which must own the window.
// Recovers from panics to avoid crashing the process and ends the loop on recovery.
func (e *engine) loop() (err error) {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("host loop recovered from panic", "panic", r)
			err = fmt.Errorf("host loop panic: %v", r)
		}
	}()

	for e.window.IsRunning() {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}

		frameStart := time.Now()
		e.window.PollEvents()

		if err := e.renderer.RenderCycle(); err != nil {
			common.Logger().Error("render cycle failed", "error", err)
			return err
		}

		if e.profilingEnabled {
			if stats, ok := e.profiler.Tick(); ok {
				stats.Put(e.renderer.PutDebugLine)
			}
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	return nil
}

func (e *engine) shutdown() {
	event.Dispatch(e.bus, event.TopicEngine, &event.ShutdownEvent{})
	if err := e.renderer.Shutdown(); err != nil && !errors.Is(err, renderer.ErrInvalidState) {
		common.Logger().Error("renderer shutdown failed", "error", err)
	}
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("window close failed", "error", err)
	}
	common.Logger().Info("engine stopped")
}

// Quit signals the host loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// newConfiguredWindow opens a window matching the configured backend.
// Panics if the platform window cannot be created.
func newConfiguredWindow(cfg config.Config) window.Window {
	api := window.ClientAPINone
	if cfg.Render.Backend == renderer.BackendTypeOpenGL.String() {
		api = window.ClientAPIOpenGL
	}
	return window.NewWindow(
		window.WithTitle(common.Coalesce(cfg.Window.Title, "XGEngine")),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithClientAPI(api),
	)
}

// newConfiguredRenderer builds a renderer sized to w on backend, or on the configured
// backend when backend is nil.
func newConfiguredRenderer(cfg config.Config, backend renderer.Backend, shaders shader.Manager, w window.Window) (renderer.Renderer, error) {
	bt, err := renderer.ParseBackendType(cfg.Render.Backend)
	if err != nil {
		return nil, err
	}
	clearColor, err := cfg.ClearColor()
	if err != nil {
		return nil, err
	}

	if backend == nil {
		backendOptions := []renderer.BackendOption{renderer.WithVSync(cfg.Render.VSync)}
		if bt == renderer.BackendTypeOpenGL {
			backendOptions = append(backendOptions, renderer.WithSwapFunc(w.SwapBuffers))
		}
		backend = renderer.NewBackend(bt, backendOptions...)
	}

	return renderer.NewRenderer(
		backend,
		shaders,
		renderer.WithResolution(w.Width(), w.Height()),
		renderer.WithPerspective(cfg.CameraPerspective()),
		renderer.WithDebug(cfg.Render.Debug),
		renderer.WithWorkers(cfg.Render.Workers),
		renderer.WithClearColor(clearColor),
	), nil
}
